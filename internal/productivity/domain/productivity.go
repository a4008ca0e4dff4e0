package domain

import (
	"context"
	"errors"
	"sort"
	"time"

	sharedDomain "github.com/davicafu/autostock/shared/domain"
)

var ErrInvalidRange = errors.New("invalid date range")

// MaxRange limita las consultas de tendencia.
const MaxRange = 366 * 24 * time.Hour

type Action string

const (
	ActionAdvertisementPublished Action = "advertisement_published"
	ActionInsightResolved        Action = "insight_resolved"
	ActionVehicleSold            Action = "vehicle_sold"
)

// Entry es una fila de productivity_metrics.
type Entry struct {
	UserID     string              `json:"user_id"`
	Action     Action              `json:"action"`
	TargetID   string              `json:"target_id"`
	Store      *sharedDomain.Store `json:"store,omitempty"`
	OccurredAt time.Time           `json:"occurred_at"`
}

// Counts agrupa las acciones por tipo.
type Counts struct {
	AdvertisementsPublished int `json:"advertisements_published"`
	InsightsResolved        int `json:"insights_resolved"`
	VehiclesSold            int `json:"vehicles_sold"`
	Total                   int `json:"total"`
}

func (c *Counts) Add(a Action, n int) {
	switch a {
	case ActionAdvertisementPublished:
		c.AdvertisementsPublished += n
	case ActionInsightResolved:
		c.InsightsResolved += n
	case ActionVehicleSold:
		c.VehiclesSold += n
	default:
		return
	}
	c.Total += n
}

// DailyActivity es un punto de la tendencia diaria (día en UTC).
type DailyActivity struct {
	Day time.Time `json:"day"`
	Counts
}

// UserActivity resume lo que hizo cada usuario en el rango.
type UserActivity struct {
	UserID string `json:"user_id"`
	Counts
}

type Repository interface {
	LogBatch(ctx context.Context, entries []Entry) error
	// DailyTrend devuelve solo los días con actividad en [start, end).
	DailyTrend(ctx context.Context, start, end time.Time, store sharedDomain.Store) ([]DailyActivity, error)
	ByUser(ctx context.Context, start, end time.Time, store sharedDomain.Store) ([]UserActivity, error)
}

// Day trunca al inicio del día UTC.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ValidateRange normaliza [start, end) a días completos.
func ValidateRange(start, end time.Time) (time.Time, time.Time, error) {
	start, end = Day(start), Day(end)
	if !end.After(start) {
		return start, end, ErrInvalidRange
	}
	if end.Sub(start) > MaxRange {
		return start, end, ErrInvalidRange
	}
	return start, end, nil
}

// FillDays completa la serie con ceros para cada día de [start, end).
func FillDays(points []DailyActivity, start, end time.Time) []DailyActivity {
	byDay := make(map[time.Time]Counts, len(points))
	for _, p := range points {
		d := Day(p.Day)
		c := byDay[d]
		c.AdvertisementsPublished += p.AdvertisementsPublished
		c.InsightsResolved += p.InsightsResolved
		c.VehiclesSold += p.VehiclesSold
		c.Total += p.Total
		byDay[d] = c
	}

	out := make([]DailyActivity, 0)
	for d := Day(start); d.Before(end); d = d.AddDate(0, 0, 1) {
		out = append(out, DailyActivity{Day: d, Counts: byDay[d]})
	}
	return out
}

// BucketDaily agrupa entradas sueltas por día.
func BucketDaily(entries []Entry) []DailyActivity {
	byDay := make(map[time.Time]*Counts)
	for _, e := range entries {
		d := Day(e.OccurredAt)
		c, ok := byDay[d]
		if !ok {
			c = &Counts{}
			byDay[d] = c
		}
		c.Add(e.Action, 1)
	}
	out := make([]DailyActivity, 0, len(byDay))
	for d, c := range byDay {
		out = append(out, DailyActivity{Day: d, Counts: *c})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Day.Before(out[j].Day) })
	return out
}

// BucketUsers agrupa por usuario, de más a menos activo.
func BucketUsers(entries []Entry) []UserActivity {
	byUser := make(map[string]*Counts)
	for _, e := range entries {
		c, ok := byUser[e.UserID]
		if !ok {
			c = &Counts{}
			byUser[e.UserID] = c
		}
		c.Add(e.Action, 1)
	}
	out := make([]UserActivity, 0, len(byUser))
	for u, c := range byUser {
		out = append(out, UserActivity{UserID: u, Counts: *c})
	}
	SortUsers(out)
	return out
}

func SortUsers(users []UserActivity) {
	sort.Slice(users, func(i, j int) bool {
		if users[i].Total != users[j].Total {
			return users[i].Total > users[j].Total
		}
		return users[i].UserID < users[j].UserID
	})
}
