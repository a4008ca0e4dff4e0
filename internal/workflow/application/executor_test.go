package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/davicafu/autostock/internal/workflow/domain"
	"github.com/davicafu/autostock/tests/mocks"
)

var clock = time.Date(2024, 6, 1, 15, 0, 0, 0, time.UTC)

func newExecutor() (*Executor, *mocks.MockAdvertisementPublisher, *mocks.MockInsightResolver) {
	ads := new(mocks.MockAdvertisementPublisher)
	insights := new(mocks.MockInsightResolver)
	e := NewExecutor(ads, insights, zap.NewNop()).WithClock(func() time.Time { return clock })
	return e, ads, insights
}

func TestExecute_WithoutUserNeverCallsRemote(t *testing.T) {
	e, ads, insights := newExecutor()

	for _, action := range []domain.Action{
		domain.PublishAdvertisement{AdvertisementID: "ad-1"},
		domain.ResolveInsight{InsightID: "ins-1"},
		domain.CreateTask{TaskKind: "missing_photos"},
	} {
		res := e.Execute(context.Background(), action, "")
		assert.False(t, res.Success)
		assert.Equal(t, domain.MsgNotAuthenticated, res.Message)
		assert.ErrorIs(t, res.Err, domain.ErrNotAuthenticated)
	}
	ads.AssertNotCalled(t, "PublishAdvertisement", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	insights.AssertNotCalled(t, "ResolveInsight", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestExecute_PublishAdvertisement(t *testing.T) {
	e, ads, _ := newExecutor()
	ads.On("PublishAdvertisement", mock.Anything, "ad-1", "u-1", clock).Return(nil).Once()

	res := e.Execute(context.Background(), domain.PublishAdvertisement{AdvertisementID: "ad-1"}, "u-1")
	assert.True(t, res.Success)
	assert.Equal(t, domain.Target{Resource: "advertisement", ID: "ad-1"}, res.Data)
	ads.AssertExpectations(t)
}

func TestExecute_RejectedMutationCarriesMessage(t *testing.T) {
	e, ads, _ := newExecutor()
	ads.On("PublishAdvertisement", mock.Anything, "ad-1", "u-1", clock).Return(errors.New("row locked")).Once()

	res := e.Execute(context.Background(), domain.PublishAdvertisement{AdvertisementID: "ad-1"}, "u-1")
	assert.False(t, res.Success)
	assert.Equal(t, "row locked", res.Message)
}

func TestExecute_ResolveInsight(t *testing.T) {
	e, _, insights := newExecutor()
	insights.On("ResolveInsight", mock.Anything, "ins-9", "u-2", clock).Return(nil).Once()

	res := e.Execute(context.Background(), domain.ResolveInsight{InsightID: "ins-9"}, "u-2")
	assert.True(t, res.Success)
	insights.AssertExpectations(t)
}

func TestExecute_CreateTaskNotImplemented(t *testing.T) {
	e, ads, insights := newExecutor()

	res := e.Execute(context.Background(), domain.CreateTask{TaskKind: "missing_photos"}, "u-1")
	assert.False(t, res.Success)
	assert.Equal(t, domain.MsgNotImplemented, res.Message)
	ads.AssertExpectations(t)
	insights.AssertExpectations(t)
}

func TestInFlightRegistry(t *testing.T) {
	r := NewInFlightRegistry()
	a := domain.Target{Resource: "advertisement", ID: "ad-1"}
	b := domain.Target{Resource: "insight", ID: "ad-1"}

	assert.True(t, r.TryAcquire(a))
	assert.False(t, r.TryAcquire(a))
	assert.True(t, r.TryAcquire(b), "same id on another resource is independent")
	assert.Equal(t, []domain.Target{a, b}, r.Snapshot())

	r.Release(a)
	assert.False(t, r.IsInFlight(a))
	assert.True(t, r.IsInFlight(b))
}
