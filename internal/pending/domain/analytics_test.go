package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	adDomain "github.com/davicafu/autostock/internal/advertisement/domain"
	sharedDomain "github.com/davicafu/autostock/shared/domain"
)

// miércoles
var now = time.Date(2024, 5, 15, 12, 0, 0, 0, time.UTC)

func ptr[T any](v T) *T { return &v }

func pendingTask(created time.Time) PendingTask {
	return PendingTask{ID: created.String(), Kind: KindMissingPhotos, Status: TaskPending, CreatedAt: created}
}

func completedTask(created time.Time, done *time.Time) PendingTask {
	return PendingTask{ID: created.String(), Kind: KindMissingPhotos, Status: TaskCompleted, CreatedAt: created, CompletedAt: done}
}

func TestWeekStart_IsMonday(t *testing.T) {
	assert.Equal(t, time.Date(2024, 5, 13, 0, 0, 0, 0, time.UTC), WeekStart(now))
	// domingo pertenece a la semana que empezó el lunes anterior
	assert.Equal(t, time.Date(2024, 5, 13, 0, 0, 0, 0, time.UTC), WeekStart(time.Date(2024, 5, 19, 23, 59, 0, 0, time.UTC)))
	assert.Equal(t, time.Date(2024, 5, 20, 0, 0, 0, 0, time.UTC), WeekStart(time.Date(2024, 5, 20, 0, 0, 0, 0, time.UTC)))
}

func TestComputeAnalytics_TrendUpWhenLastWeekImproves(t *testing.T) {
	var tasks []PendingTask
	prevWeek := time.Date(2024, 5, 7, 10, 0, 0, 0, time.UTC)
	thisWeek := time.Date(2024, 5, 14, 10, 0, 0, 0, time.UTC)

	// semana N-1: 10 creadas, 5 completadas → 0.5
	for i := 0; i < 10; i++ {
		created := prevWeek.Add(time.Duration(i) * time.Minute)
		if i < 5 {
			tasks = append(tasks, completedTask(created, ptr(created.Add(2*time.Hour))))
		} else {
			tasks = append(tasks, pendingTask(created))
		}
	}
	// semana N: 10 creadas, 9 completadas → 0.9
	for i := 0; i < 10; i++ {
		created := thisWeek.Add(time.Duration(i) * time.Minute)
		if i < 9 {
			tasks = append(tasks, completedTask(created, ptr(created.Add(time.Hour))))
		} else {
			tasks = append(tasks, pendingTask(created))
		}
	}

	a := ComputeAnalytics(sharedDomain.StoreMatriz, Snapshot{Tasks: tasks}, now)

	require.Len(t, a.WeeklyTrend, TrendWeeks)
	last, prev := a.WeeklyTrend[6], a.WeeklyTrend[5]
	assert.Equal(t, WeekStart(now), last.WeekStart)
	assert.Equal(t, 10, last.Created.Tasks)
	assert.Equal(t, 9, last.Completed.Tasks)
	assert.Equal(t, 10, prev.Created.Total)
	assert.Equal(t, 5, prev.Completed.Total)
	assert.InDelta(t, 0.9, last.Ratio(), 1e-9)
	assert.InDelta(t, 0.5, prev.Ratio(), 1e-9)
	assert.Equal(t, TrendUp, a.Trend)

	assert.Equal(t, 14, a.Tasks.Completed)
	assert.Equal(t, 6, a.Tasks.Pending)
	assert.Equal(t, 70.0, a.Tasks.CompletionRate)
}

func TestTrend_DeadBand(t *testing.T) {
	week := func(created, completed int) WeekPoint {
		return WeekPoint{Created: CategoryCounts{Total: created}, Completed: CategoryCounts{Total: completed}}
	}
	assert.Equal(t, TrendStable, trendOf([]WeekPoint{week(10, 5), week(10, 6)}))
	assert.Equal(t, TrendDown, trendOf([]WeekPoint{week(10, 9), week(10, 5)}))
	assert.Equal(t, TrendStable, trendOf([]WeekPoint{week(0, 0), week(0, 0)}))
	assert.Equal(t, TrendUp, trendOf([]WeekPoint{week(0, 0), week(4, 2)}))
}

func TestComputeAnalytics_EmptySnapshot(t *testing.T) {
	a := ComputeAnalytics(sharedDomain.StoreAll, Snapshot{}, now)

	assert.Zero(t, a.Overall.CompletionRate)
	assert.Zero(t, a.Overall.AvgResolutionHours)
	assert.Zero(t, a.Overall.OldestPendingDays)
	assert.Equal(t, TrendStable, a.Trend)
	assert.Len(t, a.WeeklyTrend, TrendWeeks)
	assert.Equal(t, 100, a.HealthScore)
}

func TestComputeAnalytics_AvgResolutionExcludesIncompleteItems(t *testing.T) {
	created := now.Add(-48 * time.Hour)
	snap := Snapshot{
		Tasks: []PendingTask{
			completedTask(created, ptr(created.Add(10*time.Hour))),
			completedTask(created, nil), // sin fecha: excluida, no cuenta como cero
			pendingTask(created),
		},
		Insights: []Insight{
			{ID: "i1", Resolved: true, CreatedAt: created, ResolvedAt: ptr(created.Add(20 * time.Hour))},
			{ID: "i2", Resolved: true, CreatedAt: created, ResolvedAt: ptr(created.Add(-time.Hour))},
		},
	}

	a := ComputeAnalytics(sharedDomain.StoreMatriz, snap, now)
	assert.Equal(t, 10.0, a.Tasks.AvgResolutionHours)
	assert.Equal(t, 20.0, a.Insights.AvgResolutionHours)
	assert.Equal(t, 15.0, a.Overall.AvgResolutionHours)
	assert.Equal(t, 2, a.Tasks.OldestPendingDays)
}

func TestComputeAnalytics_AdvertisementsPendingUntilPublished(t *testing.T) {
	created := now.Add(-30 * time.Hour)
	snap := Snapshot{Advertisements: []adDomain.Advertisement{
		{ID: "ad-1", CreatedAt: created},
		{ID: "ad-2", CreatedAt: created, Publicado: true, DataPublicacao: ptr(created.Add(6 * time.Hour))},
		{ID: "ad-3", CreatedAt: created.Add(-100 * time.Hour)},
	}}

	a := ComputeAnalytics(sharedDomain.StoreFilial, snap, now)
	assert.Equal(t, 2, a.Advertisements.Pending)
	assert.Equal(t, 1, a.Advertisements.Completed)
	assert.Equal(t, 33.33, a.Advertisements.CompletionRate)
	assert.Equal(t, 6.0, a.Advertisements.AvgResolutionHours)
	assert.Equal(t, 5, a.Advertisements.OldestPendingDays)
}

func TestComputeAnalytics_CompletionRateBounded(t *testing.T) {
	for n := 0; n < 6; n++ {
		var tasks []PendingTask
		for i := 0; i < n; i++ {
			tasks = append(tasks, completedTask(now, ptr(now)))
		}
		for i := 0; i < 5-n; i++ {
			tasks = append(tasks, pendingTask(now))
		}
		rate := ComputeAnalytics(sharedDomain.StoreMatriz, Snapshot{Tasks: tasks}, now).Overall.CompletionRate
		assert.GreaterOrEqual(t, rate, 0.0)
		assert.LessOrEqual(t, rate, 100.0)
	}
}

func TestWeeklyTrend_IgnoresItemsOutsideWindow(t *testing.T) {
	old := WeekStart(now).AddDate(0, 0, -7*TrendWeeks)
	future := WeekStart(now).AddDate(0, 0, 7)
	a := ComputeAnalytics(sharedDomain.StoreMatriz, Snapshot{Tasks: []PendingTask{pendingTask(old), pendingTask(future)}}, now)

	for _, w := range a.WeeklyTrend {
		assert.Zero(t, w.Created.Total)
	}
}
