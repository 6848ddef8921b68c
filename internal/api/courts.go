package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"courtbook/internal/model"
)

// ListCourts returns every court visible to the caller.
func (c *Client) ListCourts(ctx context.Context) ([]model.Court, error) {
	var courts []model.Court
	if err := c.get(ctx, "courts", "courts", nil, &courts); err != nil {
		return nil, err
	}
	return courts, nil
}

// ListCourtsPaged returns one page of all courts. page is 1-based.
func (c *Client) ListCourtsPaged(ctx context.Context, page, size int) (*model.CourtPage, error) {
	return c.courtPage(ctx, "courts/paged", page, size)
}

// ListActiveCourtsPaged returns one page of active courts. page is 1-based.
func (c *Client) ListActiveCourtsPaged(ctx context.Context, page, size int) (*model.CourtPage, error) {
	return c.courtPage(ctx, "courts/active/paged", page, size)
}

func (c *Client) courtPage(ctx context.Context, path string, page, size int) (*model.CourtPage, error) {
	if page < 1 {
		page = 1
	}
	q := url.Values{
		"page": {strconv.Itoa(page)},
		"size": {strconv.Itoa(size)},
	}
	var resp model.CourtPage
	if err := c.get(ctx, path, path, q, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetCourt returns one court.
func (c *Client) GetCourt(ctx context.Context, id string) (*model.Court, error) {
	p, err := pathID(id)
	if err != nil {
		return nil, err
	}
	var court model.Court
	if err := c.get(ctx, "courts/{id}", "courts/"+p, nil, &court); err != nil {
		return nil, err
	}
	return &court, nil
}

// CreateCourt adds a court.
func (c *Client) CreateCourt(ctx context.Context, in model.CourtInput) (*model.Court, error) {
	var court model.Court
	if err := c.send(ctx, http.MethodPost, "courts", "courts", in, &court); err != nil {
		return nil, err
	}
	return &court, nil
}

// SetCourtActive activates or deactivates a court.
func (c *Client) SetCourtActive(ctx context.Context, id string, active bool) error {
	p, err := pathID(id)
	if err != nil {
		return err
	}
	body := struct {
		IsActive bool `json:"isActive"`
	}{active}
	return c.send(ctx, http.MethodPatch, "courts/{id}", "courts/"+p, body, nil)
}

// UpdateCourtSchedule changes opening hours and slot length.
func (c *Client) UpdateCourtSchedule(ctx context.Context, id string, in model.ScheduleInput) error {
	p, err := pathID(id)
	if err != nil {
		return err
	}
	return c.send(ctx, http.MethodPatch, "courts/{id}/schedule", "courts/"+p+"/schedule", in, nil)
}

// CourtSchedule reads the slots of a court through courts/{id}/schedule.
func (c *Client) CourtSchedule(ctx context.Context, id, date string) (*model.Schedule, error) {
	p, err := pathID(id)
	if err != nil {
		return nil, err
	}
	return c.schedule(ctx, "courts/{id}/schedule", "courts/"+p+"/schedule", date)
}

// Schedule reads the slots of a court for date (YYYY-MM-DD) through schedule/{courtId}.
func (c *Client) Schedule(ctx context.Context, courtID, date string) (*model.Schedule, error) {
	p, err := pathID(courtID)
	if err != nil {
		return nil, err
	}
	return c.schedule(ctx, "schedule/{courtId}", "schedule/"+p, date)
}

func (c *Client) schedule(ctx context.Context, endpoint, path, date string) (*model.Schedule, error) {
	var q url.Values
	if date != "" {
		q = url.Values{"date": {date}}
	}
	var resp model.Schedule
	if err := c.get(ctx, endpoint, path, q, &resp); err != nil {
		return nil, err
	}
	if resp.Date == "" {
		resp.Date = date
	}
	return &resp, nil
}
