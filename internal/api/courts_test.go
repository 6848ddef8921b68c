package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"courtbook/internal/model"
)

func TestCourtPages(t *testing.T) {
	env := newTestEnv(t)
	env.login(t, model.RoleAdmin)
	for _, path := range []string{"/api/courts/paged", "/api/courts/active/paged"} {
		env.mux.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "3", r.URL.Query().Get("page"))
			writeJSON(w, http.StatusOK, model.CourtPage{
				Courts: []model.Court{{ID: "c9"}}, Page: 3, TotalPages: 4, TotalCourts: 16,
			})
		})
	}

	page, err := env.client.ListCourtsPaged(context.Background(), 3, 5)
	require.NoError(t, err)
	assert.Equal(t, 3, page.Page)
	assert.Equal(t, 16, page.TotalCourts)

	page, err = env.client.ListActiveCourtsPaged(context.Background(), 3, 5)
	require.NoError(t, err)
	assert.Equal(t, "c9", page.Courts[0].ID)
}

func TestCourtAdministration(t *testing.T) {
	env := newTestEnv(t)
	env.login(t, model.RoleAdmin)

	env.mux.HandleFunc("/api/courts", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		var in model.CourtInput
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, "08:00", in.OpenTime)
		writeJSON(w, http.StatusCreated, model.Court{ID: "c1", Name: in.Name, SlotMinutes: in.SlotMinutes})
	})
	env.mux.HandleFunc("/api/courts/c1", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			writeJSON(w, http.StatusOK, model.Court{ID: "c1", IsActive: true})
		case http.MethodPatch:
			body, _ := io.ReadAll(r.Body)
			assert.JSONEq(t, `{"isActive":false}`, string(body))
			w.WriteHeader(http.StatusNoContent)
		}
	})
	env.mux.HandleFunc("/api/courts/c1/schedule", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPatch:
			var in model.ScheduleInput
			require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
			assert.Equal(t, 90, in.SlotMinutes)
			writeJSON(w, http.StatusOK, model.Court{ID: "c1"})
		case http.MethodGet:
			writeJSON(w, http.StatusOK, model.Schedule{CourtID: "c1", Slots: []string{"08:00"}})
		}
	})

	in := model.DefaultCourtInput()
	in.Name = "Center"
	court, err := env.client.CreateCourt(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, 60, court.SlotMinutes)

	got, err := env.client.GetCourt(context.Background(), "c1")
	require.NoError(t, err)
	assert.True(t, got.IsActive)

	require.NoError(t, env.client.SetCourtActive(context.Background(), "c1", false))
	require.NoError(t, env.client.UpdateCourtSchedule(context.Background(), "c1",
		model.ScheduleInput{OpenTime: "09:00", CloseTime: "21:00", SlotMinutes: 90}))

	sched, err := env.client.CourtSchedule(context.Background(), "c1", "")
	require.NoError(t, err)
	assert.Equal(t, []string{"08:00"}, sched.Slots)
}

func TestCourtAdministrationBackendMessage(t *testing.T) {
	env := newTestEnv(t)
	env.login(t, model.RoleAdmin)
	env.mux.HandleFunc("/api/courts", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "Court name already exists"})
	})

	_, err := env.client.CreateCourt(context.Background(), model.DefaultCourtInput())
	assert.ErrorIs(t, err, ErrConflict)
	assert.Equal(t, "Court name already exists", Message(err, "Failed to create court."))
}

func TestSchedule(t *testing.T) {
	env := newTestEnv(t)
	env.login(t, model.RoleUser)
	env.mux.HandleFunc("/api/schedule/c1", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "2030-06-01", r.URL.Query().Get("date"))
		writeJSON(w, http.StatusOK, map[string]any{
			"courtId": "c1", "courtName": "Center", "slots": []string{"10:00", "11:00"},
		})
	})

	sched, err := env.client.Schedule(context.Background(), "c1", "2030-06-01")
	require.NoError(t, err)
	assert.Equal(t, "Center", sched.CourtName)
	assert.Equal(t, "2030-06-01", sched.Date)
	assert.Len(t, sched.Slots, 2)
}

func TestEmptyIDIsRejectedLocally(t *testing.T) {
	env := newTestEnv(t)
	env.login(t, model.RoleUser)

	_, err := env.client.GetCourt(context.Background(), " ")
	assert.Error(t, err)
	_, err = env.client.CancelBooking(context.Background(), "")
	assert.Error(t, err)
}

func TestBookings(t *testing.T) {
	env := newTestEnv(t)
	env.login(t, model.RoleUser)

	env.mux.HandleFunc("/api/bookings", func(w http.ResponseWriter, r *http.Request) {
		var in model.BookingInput
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, "2030-06-01T10:00:00", in.StartTime)
		writeJSON(w, http.StatusCreated, map[string]any{
			"id": "b1", "courtId": in.CourtID, "startTime": in.StartTime, "endTime": in.EndTime, "isActive": true,
		})
	})
	env.mux.HandleFunc("/api/bookings/my", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, []map[string]any{
			{"id": "b1", "courtName": "Center", "startTime": "2030-06-01T10:00:00", "endTime": "2030-06-01T11:00:00", "isActive": true},
		})
	})
	env.mux.HandleFunc("/api/bookings/b1/cancel", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		writeJSON(w, http.StatusOK, map[string]string{"message": "Booking cancelled"})
	})

	b, err := env.client.CreateBooking(context.Background(), model.BookingInput{
		CourtID: "c1", StartTime: "2030-06-01T10:00:00", EndTime: "2030-06-01T11:00:00",
	})
	require.NoError(t, err)
	assert.Equal(t, 10, b.StartTime.Hour())

	list, err := env.client.MyBookings(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Center", list[0].CourtName)

	msg, err := env.client.CancelBooking(context.Background(), "b1")
	require.NoError(t, err)
	assert.Equal(t, "Booking cancelled", msg)
}

func TestProfile(t *testing.T) {
	env := newTestEnv(t)
	env.login(t, model.RoleUser)
	env.mux.HandleFunc("/api/user/me", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, model.Profile{ID: "u1", FirstName: "Ada", IsVerified: true})
	})
	env.mux.HandleFunc("/api/user/profile", func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"lastName":"King"}`, string(body))
		w.WriteHeader(http.StatusOK)
	})

	p, err := env.client.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Ada", p.FirstName)
	require.NoError(t, env.client.UpdateProfile(context.Background(), map[string]string{"lastName": "King"}))
}
