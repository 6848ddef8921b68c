package booking

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the date format of the schedule endpoint.
const DateLayout = "2006-01-02"

// Slot is a schedule label resolved to absolute times.
type Slot struct {
	Label string
	Start time.Time
	End   time.Time
}

// ParseDate reads a YYYY-MM-DD date in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	d, err := time.ParseInLocation(DateLayout, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q; expected YYYY-MM-DD", s)
	}
	return d, nil
}

// ParseSlot resolves a "HH:MM" or "HH:MM-HH:MM" label on date. A label
// without an end lasts slotMinutes (60 when unset).
func ParseSlot(date time.Time, label string, slotMinutes int) (Slot, error) {
	if slotMinutes <= 0 {
		slotMinutes = 60
	}
	startStr, endStr, hasEnd := strings.Cut(strings.TrimSpace(label), "-")

	start, err := parseTimeOnDate(date, startStr)
	if err != nil {
		return Slot{}, fmt.Errorf("parse slot %q: %w", label, err)
	}

	end := start.Add(time.Duration(slotMinutes) * time.Minute)
	if hasEnd {
		end, err = parseTimeOnDate(date, endStr)
		if err != nil {
			return Slot{}, fmt.Errorf("parse slot %q: %w", label, err)
		}
		// 23:00-00:00 ends on the next day.
		if !end.After(start) {
			end = end.AddDate(0, 0, 1)
		}
	}
	return Slot{Label: strings.TrimSpace(label), Start: start, End: end}, nil
}

// UpcomingSlots resolves labels on date and keeps those starting after now.
// Labels that cannot be parsed are dropped.
func UpcomingSlots(date time.Time, labels []string, now time.Time, slotMinutes int) []Slot {
	result := make([]Slot, 0, len(labels))
	for _, label := range labels {
		s, err := ParseSlot(date, label, slotMinutes)
		if err != nil {
			continue
		}
		if !s.Start.After(now) {
			continue
		}
		result = append(result, s)
	}
	return result
}

// CheckHours validates the opening hours of a court form.
func CheckHours(openTime, closeTime string, slotMinutes int) error {
	day := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	open, err := parseTimeOnDate(day, openTime)
	if err != nil {
		return fmt.Errorf("opening time: %w", err)
	}
	closing, err := parseTimeOnDate(day, closeTime)
	if err != nil {
		return fmt.Errorf("closing time: %w", err)
	}
	if !closing.After(open) {
		return fmt.Errorf("closing time must be after opening time")
	}
	if slotMinutes <= 0 {
		return fmt.Errorf("slot minutes must be positive")
	}
	if closing.Sub(open) < time.Duration(slotMinutes)*time.Minute {
		return fmt.Errorf("opening hours are shorter than one slot")
	}
	return nil
}

func parseTimeOnDate(date time.Time, timeStr string) (time.Time, error) {
	parts := strings.Split(strings.TrimSpace(timeStr), ":")
	if len(parts) < 2 {
		return time.Time{}, fmt.Errorf("invalid time format: %s", timeStr)
	}

	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return time.Time{}, fmt.Errorf("invalid hour: %s", parts[0])
	}

	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return time.Time{}, fmt.Errorf("invalid minute: %s", parts[1])
	}

	return time.Date(date.Year(), date.Month(), date.Day(), hour, minute, 0, 0, date.Location()), nil
}
