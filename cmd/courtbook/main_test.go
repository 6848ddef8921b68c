package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"courtbook/internal/model"
	"courtbook/internal/session/sessiontest"
)

type cliEnv struct {
	config   string
	token    string
	bookings atomic.Int32

	mu       sync.Mutex
	requests []string
	created  []model.BookingInput
	mine     []map[string]any // nil answers bookings/my with 401
}

// newCLIEnv starts a fake backend and writes a config pointing at it; extra
// is appended to the YAML.
func newCLIEnv(t *testing.T, extra ...string) *cliEnv {
	t.Helper()
	env := &cliEnv{token: sessiontest.Token(t, "ann@example.com", model.RoleAdmin, time.Hour)}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["password"] != "secret1" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"message":"Invalid credentials"}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"token": env.token})
	})
	mux.HandleFunc("GET /api/courts", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]model.Court{{ID: "c1", Name: "Court A", Location: "Park",
			OpeningTime: "08:00", ClosingTime: "22:00", SlotMinutes: 60, IsActive: true}})
	})
	mux.HandleFunc("GET /api/courts/{id}", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(model.Court{ID: r.PathValue("id"), Name: "Court A",
			OpeningTime: "08:00", ClosingTime: "22:00", SlotMinutes: 90, IsActive: true})
	})
	mux.HandleFunc("GET /api/schedule/{courtId}", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(model.Schedule{CourtID: r.PathValue("courtId"), CourtName: "Court A",
			Slots: []string{"10:00", "18:00-19:00"}})
	})
	mux.HandleFunc("POST /api/bookings", func(w http.ResponseWriter, r *http.Request) {
		env.bookings.Add(1)
		var in model.BookingInput
		_ = json.NewDecoder(r.Body).Decode(&in)
		env.mu.Lock()
		env.created = append(env.created, in)
		env.mu.Unlock()
		_ = json.NewEncoder(w).Encode(map[string]any{"id": "b1", "courtId": in.CourtID,
			"startTime": in.StartTime, "endTime": in.EndTime, "isActive": true})
	})
	mux.HandleFunc("GET /api/bookings/my", func(w http.ResponseWriter, r *http.Request) {
		env.mu.Lock()
		mine := env.mine
		env.mu.Unlock()
		if mine == nil {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_ = json.NewEncoder(w).Encode(mine)
	})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		env.mu.Lock()
		env.requests = append(env.requests, r.Method+" "+r.URL.Path)
		env.mu.Unlock()
		mux.ServeHTTP(w, r)
	}))
	t.Cleanup(srv.Close)

	dir := t.TempDir()
	env.config = filepath.Join(dir, "courtbook.yaml")
	cfg := fmt.Sprintf(`
api:
  base_url: %s/api
session:
  store: sqlite
database:
  path: %s
logging:
  level: error
`, srv.URL, filepath.Join(dir, "courtbook.db")) + strings.Join(extra, "\n")
	require.NoError(t, os.WriteFile(env.config, []byte(cfg), 0o600))
	return env
}

func (e *cliEnv) resetRequests() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.requests = nil
}

func (e *cliEnv) seen() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.requests...)
}

func (e *cliEnv) bookingInputs() []model.BookingInput {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]model.BookingInput(nil), e.created...)
}

func (e *cliEnv) login(t *testing.T) {
	t.Helper()
	code, _, errOut := e.run("", "login", "-email", "ann@example.com", "-password", "secret1")
	require.Equal(t, 0, code, errOut)
	e.resetRequests()
}

func (e *cliEnv) run(stdin string, args ...string) (int, string, string) {
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), append([]string{"-config", e.config}, args...),
		strings.NewReader(stdin), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestLoginPersistsSession(t *testing.T) {
	env := newCLIEnv(t)

	code, out, _ := env.run("secret1\n", "login", "-email", "ann@example.com")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "Login successful! Logged in as ann@example.com (ADMIN).")

	code, out, _ = env.run("", "whoami")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "ann@example.com (ADMIN)")

	code, out, _ = env.run("", "courts")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "Court A")

	code, _, _ = env.run("", "logout")
	require.Equal(t, 0, code)
	code, _, errOut := env.run("", "whoami")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "Not logged in")
}

func TestLoginWrongPassword(t *testing.T) {
	env := newCLIEnv(t)
	code, _, errOut := env.run("", "login", "-email", "ann@example.com", "-password", "nope")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "Invalid credentials or unverified email!")
}

func TestBookInPastNeverReachesBackend(t *testing.T) {
	yesterday := time.Now().AddDate(0, 0, -1).Format("2006-01-02")
	for _, slot := range []string{"10:00-11:00", "10:00"} {
		t.Run(slot, func(t *testing.T) {
			env := newCLIEnv(t)
			env.login(t)

			code, _, errOut := env.run("", "book", "-court", "c1", "-date", yesterday, "-slot", slot)
			assert.Equal(t, 1, code)
			assert.Contains(t, errOut, "in the past")
			assert.Empty(t, env.seen())
			assert.Zero(t, env.bookings.Load())
		})
	}
}

func TestBookBareStartUsesCourtSlotLength(t *testing.T) {
	env := newCLIEnv(t)
	env.login(t)

	tomorrow := time.Now().AddDate(0, 0, 1).Format("2006-01-02")
	code, out, errOut := env.run("", "book", "-court", "c1", "-date", tomorrow, "-slot", "10:00")
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, "Reservation confirmed: "+tomorrow+" 10:00-11:30")
	created := env.bookingInputs()
	require.Len(t, created, 1)
	assert.Equal(t, tomorrow+"T11:30:00", created[0].EndTime)
	assert.Equal(t, []string{"GET /api/courts/c1", "POST /api/bookings"}, env.seen())
}

func TestScheduleUsesCourtSlotLength(t *testing.T) {
	env := newCLIEnv(t)
	env.login(t)

	tomorrow := time.Now().AddDate(0, 0, 1).Format("2006-01-02")
	code, out, errOut := env.run("", "schedule", "-court", "c1", "-date", tomorrow)
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, "10:00-11:30")
	assert.Contains(t, out, "18:00-19:00")
}

func TestBookingTimesFollowConfiguredTimezone(t *testing.T) {
	// UTC+14, so the wall clock differs from any CI host zone.
	const zone = "Pacific/Kiritimati"
	loc, err := time.LoadLocation(zone)
	require.NoError(t, err)

	env := newCLIEnv(t, "console:\n  timezone: "+zone+"\n")
	env.login(t)

	day := time.Now().In(loc).AddDate(0, 0, 2).Format("2006-01-02")
	code, _, errOut := env.run("", "book", "-court", "c1", "-date", day, "-slot", "10:00-11:00")
	require.Equal(t, 0, code, errOut)
	created := env.bookingInputs()
	require.Len(t, created, 1)
	assert.Equal(t, day+"T10:00:00", created[0].StartTime)

	env.mu.Lock()
	env.mine = []map[string]any{{"id": "b1", "courtName": "Court A",
		"startTime": created[0].StartTime, "endTime": created[0].EndTime, "isActive": true}}
	env.mu.Unlock()

	code, out, errOut := env.run("", "bookings", "-upcoming")
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, day+" 10:00")
	assert.Contains(t, out, "11:00")
}

func TestRejectedTokenClearsSession(t *testing.T) {
	env := newCLIEnv(t)
	code, _, _ := env.run("", "login", "-email", "ann@example.com", "-password", "secret1")
	require.Equal(t, 0, code)

	code, _, errOut := env.run("", "bookings")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "Session expired, please log in again.")

	code, _, _ = env.run("", "whoami")
	assert.Equal(t, 1, code)
}

func TestUnknownCommand(t *testing.T) {
	env := newCLIEnv(t)
	code, _, errOut := env.run("", "fly")
	assert.Equal(t, 2, code)
	assert.Contains(t, errOut, `unknown command "fly"`)
	assert.Contains(t, errOut, "admin-court-schedule")
}
