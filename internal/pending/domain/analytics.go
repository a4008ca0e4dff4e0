package domain

import (
	"math"
	"time"

	adDomain "github.com/davicafu/autostock/internal/advertisement/domain"
	sharedDomain "github.com/davicafu/autostock/shared/domain"
)

const (
	TrendWeeks    = 7
	TrendDeadBand = 0.10
)

type Trend string

const (
	TrendUp     Trend = "up"
	TrendDown   Trend = "down"
	TrendStable Trend = "stable"
)

// Snapshot son las tres lecturas de una tienda en un instante.
type Snapshot struct {
	Tasks          []PendingTask
	Insights       []Insight
	Advertisements []adDomain.Advertisement
}

type CategoryStats struct {
	Pending            int     `json:"pending"`
	Completed          int     `json:"completed"`
	CompletionRate     float64 `json:"completion_rate"`
	AvgResolutionHours float64 `json:"avg_resolution_hours"`
	OldestPendingDays  int     `json:"oldest_pending_days"`
}

type CategoryCounts struct {
	Tasks          int `json:"tasks"`
	Insights       int `json:"insights"`
	Advertisements int `json:"advertisements"`
	Total          int `json:"total"`
}

type WeekPoint struct {
	WeekStart time.Time      `json:"week_start"`
	Created   CategoryCounts `json:"created"`
	Completed CategoryCounts `json:"completed"`
}

// Ratio es completados/creados de la semana; 0 sin creados.
func (w WeekPoint) Ratio() float64 {
	if w.Created.Total == 0 {
		return 0
	}
	return float64(w.Completed.Total) / float64(w.Created.Total)
}

type PendingAnalytics struct {
	Store          sharedDomain.Store `json:"store"`
	GeneratedAt    time.Time          `json:"generated_at"`
	Overall        CategoryStats      `json:"overall"`
	Tasks          CategoryStats      `json:"tasks"`
	Insights       CategoryStats      `json:"insights"`
	Advertisements CategoryStats      `json:"advertisements"`
	WeeklyTrend    []WeekPoint        `json:"weekly_trend"`
	Trend          Trend              `json:"trend"`
	HealthScore    int                `json:"health_score"`
}

type category int

const (
	catTasks category = iota
	catInsights
	catAds
)

// item es la vista común de tareas, insights y anuncios. Un anuncio está
// pendiente mientras no esté publicado.
type item struct {
	category  category
	createdAt time.Time
	doneAt    *time.Time
	pending   bool
}

func (s Snapshot) items() []item {
	out := make([]item, 0, len(s.Tasks)+len(s.Insights)+len(s.Advertisements))
	for _, t := range s.Tasks {
		out = append(out, item{catTasks, t.CreatedAt, t.CompletedAt, t.IsPending()})
	}
	for _, i := range s.Insights {
		out = append(out, item{catInsights, i.CreatedAt, i.ResolvedAt, !i.Resolved})
	}
	for _, a := range s.Advertisements {
		out = append(out, item{catAds, a.CreatedAt, a.DataPublicacao, !a.Publicado})
	}
	return out
}

// ComputeAnalytics es puro: mismo snapshot y mismo now, mismo resultado.
func ComputeAnalytics(store sharedDomain.Store, snap Snapshot, now time.Time) PendingAnalytics {
	now = now.UTC()
	items := snap.items()

	byCategory := map[category][]item{}
	for _, it := range items {
		byCategory[it.category] = append(byCategory[it.category], it)
	}

	weekly := weeklyTrend(items, now)
	return PendingAnalytics{
		Store:          store,
		GeneratedAt:    now,
		Overall:        categoryStats(items, now),
		Tasks:          categoryStats(byCategory[catTasks], now),
		Insights:       categoryStats(byCategory[catInsights], now),
		Advertisements: categoryStats(byCategory[catAds], now),
		WeeklyTrend:    weekly,
		Trend:          trendOf(weekly),
		HealthScore:    ComputeHealth(snap.Tasks, snap.Insights).HealthScore,
	}
}

func categoryStats(items []item, now time.Time) CategoryStats {
	var st CategoryStats
	var totalHours float64
	var resolved int
	var oldest *time.Time

	for _, it := range items {
		if it.pending {
			st.Pending++
			if oldest == nil || it.createdAt.Before(*oldest) {
				c := it.createdAt
				oldest = &c
			}
			continue
		}
		st.Completed++
		// sin fecha de cierre no cuenta para el promedio
		if it.doneAt == nil {
			continue
		}
		d := it.doneAt.Sub(it.createdAt)
		if d < 0 {
			continue
		}
		totalHours += d.Hours()
		resolved++
	}

	if denom := st.Completed + st.Pending; denom > 0 {
		st.CompletionRate = round2(float64(st.Completed) / float64(denom) * 100)
	}
	if resolved > 0 {
		st.AvgResolutionHours = round2(totalHours / float64(resolved))
	}
	if oldest != nil {
		if age := now.Sub(*oldest); age > 0 {
			st.OldestPendingDays = int(age / (24 * time.Hour))
		}
	}
	return st
}

// WeekStart devuelve el lunes 00:00 UTC de la semana de t.
func WeekStart(t time.Time) time.Time {
	t = t.UTC()
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

func weeklyTrend(items []item, now time.Time) []WeekPoint {
	first := WeekStart(now).AddDate(0, 0, -7*(TrendWeeks-1))
	points := make([]WeekPoint, TrendWeeks)
	for i := range points {
		points[i].WeekStart = first.AddDate(0, 0, 7*i)
	}

	bucket := func(t time.Time) int {
		ws := WeekStart(t)
		if ws.Before(first) {
			return -1
		}
		idx := int(ws.Sub(first).Hours() / (24 * 7))
		if idx >= TrendWeeks {
			return -1
		}
		return idx
	}

	for _, it := range items {
		if idx := bucket(it.createdAt); idx >= 0 {
			points[idx].Created.add(it.category)
		}
		if !it.pending && it.doneAt != nil {
			if idx := bucket(*it.doneAt); idx >= 0 {
				points[idx].Completed.add(it.category)
			}
		}
	}
	return points
}

func (c *CategoryCounts) add(cat category) {
	switch cat {
	case catTasks:
		c.Tasks++
	case catInsights:
		c.Insights++
	case catAds:
		c.Advertisements++
	}
	c.Total++
}

// trendOf compara las dos últimas semanas con banda muerta de ±0.10.
func trendOf(weeks []WeekPoint) Trend {
	if len(weeks) < 2 {
		return TrendStable
	}
	delta := weeks[len(weeks)-1].Ratio() - weeks[len(weeks)-2].Ratio()
	switch {
	case delta > TrendDeadBand:
		return TrendUp
	case delta < -TrendDeadBand:
		return TrendDown
	default:
		return TrendStable
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
