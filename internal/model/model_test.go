package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookingDecodesZonelessTimes(t *testing.T) {
	raw := `{"id":"b1","courtId":"c1","courtName":"Court A",
		"startTime":"2030-05-01T10:00:00","endTime":"2030-05-01T11:00","isActive":true}`

	var b Booking
	require.NoError(t, json.Unmarshal([]byte(raw), &b))

	want := time.Date(2030, 5, 1, 10, 0, 0, 0, time.Local)
	assert.True(t, b.StartTime.Equal(want))
	assert.Equal(t, 11, b.EndTime.Hour())
	assert.Equal(t, "Active", b.Status())
	assert.True(t, b.Upcoming(want.Add(-time.Hour)))
	assert.False(t, b.Upcoming(want))
}

func TestZonelessTimesFollowConfiguredLocation(t *testing.T) {
	vilnius, err := time.LoadLocation("Europe/Vilnius")
	require.NoError(t, err)
	SetLocation(vilnius)
	t.Cleanup(func() { SetLocation(nil) })

	start := time.Date(2030, 6, 1, 10, 0, 0, 0, vilnius)
	in := NewBookingInput("c1", start, start.Add(time.Hour))
	assert.Equal(t, "2030-06-01T10:00:00", in.StartTime)

	var b Booking
	raw := `{"id":"b1","startTime":"` + in.StartTime + `","endTime":"` + in.EndTime + `","isActive":true}`
	require.NoError(t, json.Unmarshal([]byte(raw), &b))
	assert.True(t, b.StartTime.Equal(start))
	assert.Equal(t, "10:00", b.StartTime.In(vilnius).Format("15:04"))
	assert.True(t, b.Upcoming(start.Add(-time.Minute)))
	assert.False(t, b.Upcoming(start))

	// Times from another zone are still sent as the configured wall clock.
	utc := NewBookingInput("c1", start.UTC(), start.Add(time.Hour).UTC())
	assert.Equal(t, in, utc)
}

func TestTimestampAcceptsRFC3339AndNull(t *testing.T) {
	var ts Timestamp
	require.NoError(t, json.Unmarshal([]byte(`"2030-05-01T10:00:00Z"`), &ts))
	assert.Equal(t, time.UTC, ts.Location())

	require.NoError(t, json.Unmarshal([]byte(`null`), &ts))
	assert.True(t, ts.IsZero())

	assert.Error(t, json.Unmarshal([]byte(`"yesterday"`), &ts))
}

func TestRole(t *testing.T) {
	tests := []struct {
		role     Role
		valid    bool
		canAdmin bool
	}{
		{RoleUser, true, false},
		{RoleAdmin, true, true},
		{RoleSuperAdmin, true, true},
		{RoleNone, false, false},
		{Role("OWNER"), false, false},
	}
	for _, tt := range tests {
		t.Run(tt.role.String(), func(t *testing.T) {
			assert.Equal(t, tt.valid, tt.role.Valid())
			assert.Equal(t, tt.canAdmin, tt.role.CanAdmin())
		})
	}
}

func TestNewBookingInput(t *testing.T) {
	SetLocation(time.UTC)
	t.Cleanup(func() { SetLocation(nil) })
	start := time.Date(2030, 1, 2, 9, 30, 0, 0, time.UTC)
	in := NewBookingInput("c1", start, start.Add(time.Hour))
	assert.Equal(t, "2030-01-02T09:30:00", in.StartTime)
	assert.Equal(t, "2030-01-02T10:30:00", in.EndTime)
}

func TestFullName(t *testing.T) {
	assert.Equal(t, "Ada Lovelace", (&User{FirstName: "Ada", LastName: "Lovelace"}).FullName())
	assert.Equal(t, "Ada", (&User{FirstName: "Ada"}).FullName())
}
