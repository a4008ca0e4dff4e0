package utils

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestRetry_StopsOnPermanent(t *testing.T) {
	notFound := errors.New("not found")
	calls := 0
	err := Retry(context.Background(), 5, time.Millisecond, func() error {
		calls++
		return Permanent{Err: notFound}
	})
	assert.Same(t, notFound, err)
	assert.Equal(t, 1, calls)
}

func TestRetry_EventuallySucceeds(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), 3, time.Millisecond, func() error {
		calls++
		if calls < 3 {
			return errors.New("temporary")
		}
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestRetry_HonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := Retry(ctx, 3, time.Hour, func() error { return errors.New("down") })
	assert.ErrorIs(t, err, context.Canceled)
}

func TestUnmarshalAndHandle(t *testing.T) {
	type payload struct {
		ID string `json:"id"`
	}
	var got payload
	ok := UnmarshalAndHandle(zap.NewNop(), "x", json.RawMessage(`{"id":"v-1"}`), func(p payload) { got = p })
	assert.True(t, ok)
	assert.Equal(t, "v-1", got.ID)

	called := false
	assert.False(t, UnmarshalAndHandle(zap.NewNop(), "x", json.RawMessage(`{"id":`), func(payload) { called = true }))
	assert.False(t, UnmarshalAndHandle(zap.NewNop(), "x", nil, func(payload) { called = true }))
	assert.False(t, called)
}

func TestTernary(t *testing.T) {
	assert.Equal(t, "DESC", Ternary(true, "DESC", "ASC"))
	assert.Equal(t, 2, Ternary(false, 1, 2))
}
