package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-03-01")
	require.NoError(t, err)
	assert.Equal(t, "2024-03-01", d.String())

	for _, bad := range []string{"", "2024-02-30", "03/01/2024", "2024-3-1", "2024-03-01T10:00:00Z"} {
		_, err := ParseDate(bad)
		assert.Error(t, err, bad)
	}
}

func TestDateArithmetic(t *testing.T) {
	d := NewDate(2024, time.March, 1)

	assert.Equal(t, "2024-02-29", d.AddDays(-1).String())
	assert.Equal(t, "2024-03-31", d.AddDays(30).String())
	assert.Equal(t, 30, d.DaysUntil(d.AddDays(30)))
	assert.Equal(t, -1, d.DaysUntil(d.AddDays(-1)))
	assert.True(t, d.AddDays(-1).Before(d))
	assert.True(t, d.After(d.AddDays(-1)))
	assert.Equal(t, d, d.AddDays(1).AddDays(-1))
}

func TestDateOfUsesLocation(t *testing.T) {
	karachi := time.FixedZone("PKT", 5*60*60)
	instant := time.Date(2024, time.March, 1, 21, 0, 0, 0, time.UTC)

	assert.Equal(t, "2024-03-01", DateOf(instant).String())
	assert.Equal(t, "2024-03-02", DateOf(instant.In(karachi)).String())
}

func TestDateScan(t *testing.T) {
	var d Date

	require.NoError(t, d.Scan("2024-05-06"))
	assert.Equal(t, "2024-05-06", d.String())

	require.NoError(t, d.Scan([]byte("2024-05-07")))
	assert.Equal(t, "2024-05-07", d.String())

	require.NoError(t, d.Scan(time.Date(2024, 5, 8, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2024-05-08", d.String())

	require.NoError(t, d.Scan("2024-05-09T00:00:00Z"))
	assert.Equal(t, "2024-05-09", d.String())

	require.NoError(t, d.Scan(nil))
	assert.True(t, d.IsZero())

	assert.Error(t, d.Scan(42))
}

func TestDateJSON(t *testing.T) {
	type payload struct {
		Date Date `json:"date"`
	}

	var p payload
	require.NoError(t, json.Unmarshal([]byte(`{"date":"2024-01-31"}`), &p))
	assert.Equal(t, NewDate(2024, time.January, 31), p.Date)

	out, err := json.Marshal(p)
	require.NoError(t, err)
	assert.JSONEq(t, `{"date":"2024-01-31"}`, string(out))

	require.NoError(t, json.Unmarshal([]byte(`{"date":null}`), &p))
	assert.True(t, p.Date.IsZero())

	assert.Error(t, json.Unmarshal([]byte(`{"date":"2024-13-01"}`), &p))
	assert.Error(t, json.Unmarshal([]byte(`{"date":20240101}`), &p))
}

func TestReminderStateToggled(t *testing.T) {
	now := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)

	done := ReminderState{Status: ReminderStatusPending}.Toggled(now)
	assert.Equal(t, ReminderStatusCompleted, done.Status)
	require.NotNil(t, done.CompletedAt)
	assert.Equal(t, now, *done.CompletedAt)

	reopened := done.Toggled(now.Add(time.Hour))
	assert.Equal(t, ReminderStatusPending, reopened.Status)
	assert.Nil(t, reopened.CompletedAt)
}

func TestEnumValidators(t *testing.T) {
	assert.True(t, ValidHabitCategory("islamic"))
	assert.False(t, ValidHabitCategory("fitness"))
	assert.True(t, ValidHabitFrequency("weekly"))
	assert.False(t, ValidHabitFrequency("hourly"))
	assert.True(t, ValidReminderCategory("finance"))
	assert.False(t, ValidReminderCategory("other"))
	assert.True(t, ValidReminderPriority("high"))
	assert.False(t, ValidReminderPriority("urgent"))
}
