package console

import (
	"context"
	"fmt"

	"courtbook/internal/api"
	"courtbook/internal/model"
)

// fakeBackend records calls and serves canned data.
type fakeBackend struct {
	calls []string

	token    string
	loginErr error

	courtPages []model.CourtPage
	court      model.Court
	schedule   model.Schedule
	created    []model.BookingInput
	bookings   []model.Booking
	cancelled  []string

	profile model.Profile
	updates []map[string]string

	users       []model.UserPage
	roleChanges []model.RoleChange
	verified    []string
	signups     []model.SignUpInput
	signUpErr   error
}

func (f *fakeBackend) record(format string, args ...any) {
	f.calls = append(f.calls, fmt.Sprintf(format, args...))
}

func (f *fakeBackend) SignUp(_ context.Context, in model.SignUpInput) (string, error) {
	f.record("SignUp")
	if f.signUpErr != nil {
		return "", f.signUpErr
	}
	f.signups = append(f.signups, in)
	return "Registration successful! Check your email.", nil
}

func (f *fakeBackend) Login(_ context.Context, email, _ string) (string, error) {
	f.record("Login %s", email)
	return f.token, f.loginErr
}

func (f *fakeBackend) VerifyEmail(_ context.Context, token string) (string, error) {
	f.record("VerifyEmail %s", token)
	if token == "bad" {
		return "", &api.Error{Status: 400, Err: api.ErrInvalidOrExpiredToken}
	}
	f.verified = append(f.verified, token)
	return "Email verified successfully.", nil
}

func (f *fakeBackend) ListUsers(_ context.Context, page, size int) (*model.UserPage, error) {
	f.record("ListUsers %d %d", page, size)
	if page < 1 || page > len(f.users) {
		return nil, &api.Error{Status: 400, Message: "bad page", Err: api.ErrBadRequest}
	}
	p := f.users[page-1]
	p.Page = page
	p.TotalPages = len(f.users)
	return &p, nil
}

func (f *fakeBackend) ChangeRole(_ context.Context, userID string, role model.Role) (string, error) {
	f.record("ChangeRole %s %s", userID, role)
	f.roleChanges = append(f.roleChanges, model.RoleChange{UserID: userID, NewRole: role})
	return "", nil
}

func (f *fakeBackend) courtPage(page int) (*model.CourtPage, error) {
	if len(f.courtPages) == 0 {
		return &model.CourtPage{Page: 1, TotalPages: 1}, nil
	}
	if page < 1 || page > len(f.courtPages) {
		return nil, &api.Error{Status: 400, Message: "bad page", Err: api.ErrBadRequest}
	}
	p := f.courtPages[page-1]
	p.Page = page
	p.TotalPages = len(f.courtPages)
	return &p, nil
}

func (f *fakeBackend) ListActiveCourtsPaged(_ context.Context, page, size int) (*model.CourtPage, error) {
	f.record("ListActiveCourtsPaged %d %d", page, size)
	return f.courtPage(page)
}

func (f *fakeBackend) ListCourtsPaged(_ context.Context, page, size int) (*model.CourtPage, error) {
	f.record("ListCourtsPaged %d %d", page, size)
	return f.courtPage(page)
}

func (f *fakeBackend) GetCourt(_ context.Context, id string) (*model.Court, error) {
	f.record("GetCourt %s", id)
	if id != f.court.ID {
		return nil, &api.Error{Status: 404, Message: "Court not found", Err: api.ErrNotFound}
	}
	ct := f.court
	return &ct, nil
}

func (f *fakeBackend) CreateCourt(_ context.Context, in model.CourtInput) (*model.Court, error) {
	f.record("CreateCourt %s %s %s-%s %d", in.Name, in.Location, in.OpenTime, in.CloseTime, in.SlotMinutes)
	return &model.Court{ID: "new", Name: in.Name}, nil
}

func (f *fakeBackend) SetCourtActive(_ context.Context, id string, active bool) error {
	f.record("SetCourtActive %s %t", id, active)
	return nil
}

func (f *fakeBackend) UpdateCourtSchedule(_ context.Context, id string, in model.ScheduleInput) error {
	f.record("UpdateCourtSchedule %s %s-%s %d", id, in.OpenTime, in.CloseTime, in.SlotMinutes)
	return nil
}

func (f *fakeBackend) CourtSchedule(_ context.Context, id, date string) (*model.Schedule, error) {
	f.record("CourtSchedule %s %s", id, date)
	s := f.schedule
	s.CourtID, s.Date = id, date
	return &s, nil
}

func (f *fakeBackend) CreateBooking(_ context.Context, in model.BookingInput) (*model.Booking, error) {
	f.record("CreateBooking %s %s %s", in.CourtID, in.StartTime, in.EndTime)
	f.created = append(f.created, in)
	return &model.Booking{ID: fmt.Sprintf("b%d", len(f.created)), CourtID: in.CourtID, IsActive: true}, nil
}

func (f *fakeBackend) MyBookings(_ context.Context) ([]model.Booking, error) {
	f.record("MyBookings")
	return f.bookings, nil
}

func (f *fakeBackend) CancelBooking(_ context.Context, id string) (string, error) {
	f.record("CancelBooking %s", id)
	f.cancelled = append(f.cancelled, id)
	for i := range f.bookings {
		if f.bookings[i].ID == id {
			f.bookings[i].IsActive = false
		}
	}
	return "Booking cancelled successfully", nil
}

func (f *fakeBackend) Me(_ context.Context) (*model.Profile, error) {
	f.record("Me")
	p := f.profile
	return &p, nil
}

func (f *fakeBackend) UpdateProfile(_ context.Context, changes map[string]string) error {
	f.record("UpdateProfile")
	f.updates = append(f.updates, changes)
	return nil
}

func (f *fakeBackend) called(prefix string) int {
	n := 0
	for _, c := range f.calls {
		if len(c) >= len(prefix) && c[:len(prefix)] == prefix {
			n++
		}
	}
	return n
}
