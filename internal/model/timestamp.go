package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"
)

var wireLocation atomic.Pointer[time.Location]

// SetLocation sets the zone the backend's zone-less times are read and
// written in. A nil loc restores time.Local.
func SetLocation(loc *time.Location) {
	wireLocation.Store(loc)
}

// Location returns the zone set by SetLocation, time.Local by default.
func Location() *time.Location {
	if loc := wireLocation.Load(); loc != nil {
		return loc
	}
	return time.Local
}

// The backend serialises local date-times without a zone offset.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
}

// LocalLayout is the format used when sending times to the backend.
const LocalLayout = "2006-01-02T15:04:05"

// Timestamp is a time.Time that accepts both RFC 3339 and zone-less values.
type Timestamp struct {
	time.Time
}

// ParseTimestamp parses s with every accepted layout, zone-less values in loc
// (Location() when nil).
func ParseTimestamp(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = Location()
	}
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised timestamp %q", s)
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		t.Time = time.Time{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		t.Time = time.Time{}
		return nil
	}
	parsed, err := ParseTimestamp(s, Location())
	if err != nil {
		return err
	}
	t.Time = parsed
	return nil
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.In(Location()).Format(LocalLayout))
}
