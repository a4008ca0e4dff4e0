package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(day, hour int) time.Time {
	return time.Date(2024, 3, day, hour, 0, 0, 0, time.UTC)
}

func TestBucketDailyAndFill(t *testing.T) {
	entries := []Entry{
		{UserID: "a", Action: ActionAdvertisementPublished, OccurredAt: at(4, 9)},
		{UserID: "a", Action: ActionInsightResolved, OccurredAt: at(4, 18)},
		{UserID: "b", Action: ActionVehicleSold, OccurredAt: at(6, 10)},
		{UserID: "b", Action: "unknown", OccurredAt: at(6, 11)},
	}

	points := BucketDaily(entries)
	require.Len(t, points, 2)
	assert.Equal(t, at(4, 0), points[0].Day)
	assert.Equal(t, 2, points[0].Total)
	assert.Equal(t, 1, points[1].VehiclesSold)
	assert.Equal(t, 1, points[1].Total, "acciones desconocidas no cuentan")

	filled := FillDays(points, at(4, 0), at(8, 0))
	require.Len(t, filled, 4)
	assert.Equal(t, 0, filled[1].Total)
	assert.Equal(t, at(7, 0), filled[3].Day)
}

func TestBucketUsers_SortedByActivity(t *testing.T) {
	users := BucketUsers([]Entry{
		{UserID: "zoe", Action: ActionInsightResolved},
		{UserID: "ana", Action: ActionInsightResolved},
		{UserID: "bob", Action: ActionAdvertisementPublished},
		{UserID: "bob", Action: ActionVehicleSold},
	})
	require.Len(t, users, 3)
	assert.Equal(t, []string{"bob", "ana", "zoe"}, []string{users[0].UserID, users[1].UserID, users[2].UserID})
	assert.Equal(t, 2, users[0].Total)
}

func TestValidateRange(t *testing.T) {
	start, end, err := ValidateRange(at(1, 15), at(3, 2))
	require.NoError(t, err)
	assert.Equal(t, at(1, 0), start)
	assert.Equal(t, at(3, 0), end)

	_, _, err = ValidateRange(at(3, 0), at(3, 23))
	assert.ErrorIs(t, err, ErrInvalidRange)

	_, _, err = ValidateRange(at(1, 0), at(1, 0).AddDate(2, 0, 0))
	assert.ErrorIs(t, err, ErrInvalidRange)
}
