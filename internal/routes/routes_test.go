package routes

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nzoschke/organizer/internal/app"
	"github.com/nzoschke/organizer/internal/config"
	"github.com/nzoschke/organizer/internal/db"
	"github.com/nzoschke/organizer/internal/service"
)

var fixedNow = time.Date(2024, time.March, 10, 8, 0, 0, 0, time.UTC)

func setupServer(t *testing.T) http.Handler {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "test.db") + "?_pragma=foreign_keys(1)"

	database, err := db.Init("sqlite", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	require.NoError(t, db.RunMigrations(database.DB, "sqlite"))

	cfg := &config.Config{
		AppEnv:             "development",
		DemoUserID:         "demo-user",
		AllowDemoUser:      true,
		Timezone:           "UTC",
		StoreTimeout:       time.Second,
		CORSAllowedOrigins: []string{"*"},
		WriteRateLimit:     1000,
		WriteRateWindow:    time.Minute,
	}

	a := app.Build(cfg, database, nil, service.WithClock(func() time.Time { return fixedNow }))
	return SetupRoutes(a)
}

func do(t *testing.T, h http.Handler, method, path, body string, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body == "" {
		reader = bytes.NewReader(nil)
	} else {
		reader = bytes.NewReader([]byte(body))
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func createHabit(t *testing.T, h http.Handler, body string) string {
	t.Helper()
	rec := do(t, h, http.MethodPost, "/api/habits", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decodeBody[map[string]any](t, rec)["id"].(string)
}

func TestHabitLogToggleFlow(t *testing.T) {
	h := setupServer(t)
	id := createHabit(t, h, `{"name":"Read 30 mins","category":"personal"}`)

	for _, day := range []string{"2024-03-06", "2024-03-07", "2024-03-08", "2024-03-09", "2024-03-10"} {
		rec := do(t, h, http.MethodPost, "/api/habits/"+id+"/log", `{"date":"`+day+`","completed":true}`)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	}

	view := decodeBody[map[string]any](t, do(t, h, http.MethodGet, "/api/habits/"+id, ""))
	assert.Equal(t, true, view["completed"])
	assert.Equal(t, float64(5), view["streak"])

	// Empty body toggles today
	rec := do(t, h, http.MethodPost, "/api/habits/"+id+"/log", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	log := decodeBody[map[string]any](t, rec)
	assert.Equal(t, false, log["completed"])
	assert.Equal(t, "2024-03-10", log["date"])

	views := decodeBody[[]map[string]any](t, do(t, h, http.MethodGet, "/api/habits", ""))
	require.Len(t, views, 1)
	assert.Equal(t, false, views[0]["completed"])
	assert.Equal(t, float64(4), views[0]["streak"])

	history := views[0]["history"].([]any)
	assert.Len(t, history, 30)
	assert.Equal(t, map[string]any{"date": "2024-03-10", "status": "missed"}, history[0])

	logs := decodeBody[[]map[string]any](t, do(t, h, http.MethodGet, "/api/habits/"+id+"/logs?since=2024-03-09", ""))
	assert.Len(t, logs, 2)
}

func TestHabitLogCoercesCompleted(t *testing.T) {
	h := setupServer(t)
	id := createHabit(t, h, `{"name":"Walk"}`)

	rec := do(t, h, http.MethodPost, "/api/habits/"+id+"/log", `{"completed":"true"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, true, decodeBody[map[string]any](t, rec)["completed"])

	rec = do(t, h, http.MethodPost, "/api/habits/"+id+"/log", `{"completed":0}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, false, decodeBody[map[string]any](t, rec)["completed"])

	rec = do(t, h, http.MethodPost, "/api/habits/"+id+"/log", `{"completed":"maybe"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/habits/"+id+"/log", `{"date":"2024-02-30"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "date")
}

func TestHabitErrors(t *testing.T) {
	h := setupServer(t)

	rec := do(t, h, http.MethodPost, "/api/habits/missing/log", `{"completed":true}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, map[string]any{"error": "habit not found"}, decodeBody[map[string]any](t, rec))

	rec = do(t, h, http.MethodPost, "/api/habits", `{"name":"Run","category":"fitness"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "category")

	rec = do(t, h, http.MethodPost, "/api/habits", `{"name":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/habits?status=deleted", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHabitsAreUserScoped(t *testing.T) {
	h := setupServer(t)
	id := createHabit(t, h, `{"name":"Demo habit"}`)

	rec := do(t, h, http.MethodGet, "/api/habits", "", "X-User-ID", "alice")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decodeBody[[]map[string]any](t, rec))

	rec = do(t, h, http.MethodGet, "/api/habits/"+id, "", "X-User-ID", "alice")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/habits/"+id, "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReminderToggle(t *testing.T) {
	h := setupServer(t)

	rec := do(t, h, http.MethodPost, "/api/reminders",
		`{"title":"Pay Electricity Bill","dueDate":"2024-03-12T09:00:00Z","priority":"high","category":"finance"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decodeBody[map[string]any](t, rec)
	id := created["id"].(string)

	assert.Equal(t, false, created["completed"])
	assert.Equal(t, "pending", created["status"])
	assert.Equal(t, "2024-03-12T09:00:00Z", created["dueDate"])
	assert.NotContains(t, created, "due_date")

	rec = do(t, h, http.MethodPatch, "/api/reminders/"+id+"/toggle", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	toggled := decodeBody[map[string]any](t, rec)
	assert.Equal(t, true, toggled["completed"])
	assert.Equal(t, "completed", toggled["status"])
	assert.NotNil(t, toggled["completed_at"])

	rec = do(t, h, http.MethodPatch, "/api/reminders/"+id+"/toggle", "")
	require.Equal(t, http.StatusOK, rec.Code)
	toggled = decodeBody[map[string]any](t, rec)
	assert.Equal(t, false, toggled["completed"])
	assert.Nil(t, toggled["completed_at"])

	rec = do(t, h, http.MethodPatch, "/api/reminders/missing/toggle", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/reminders?status=pending", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[[]map[string]any](t, rec), 1)
}

func TestNotesAndDashboard(t *testing.T) {
	h := setupServer(t)

	rec := do(t, h, http.MethodPost, "/api/notes", `{"title":"Ideas","body":"---\ntags: [work]\n---\n*ship it*"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	note := decodeBody[map[string]any](t, rec)
	assert.Contains(t, note["html"], "<em>ship it</em>")
	assert.Equal(t, []any{"work"}, note["tags"])

	id := createHabit(t, h, `{"name":"Read"}`)
	rec = do(t, h, http.MethodPost, "/api/habits/"+id+"/log", `{"completed":true}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/dashboard", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	summary := decodeBody[map[string]any](t, rec)
	assert.Equal(t, "2024-03-10", summary["date"])
	assert.Equal(t, float64(1), summary["habitsTotal"])
	assert.Equal(t, float64(1), summary["habitsCompleted"])
	assert.Equal(t, float64(1), summary["notesCount"])
}

func TestExportWithoutStorage(t *testing.T) {
	h := setupServer(t)

	rec := do(t, h, http.MethodPost, "/api/export", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "not configured")
}

func TestOperationalRoutes(t *testing.T) {
	h := setupServer(t)

	rec := do(t, h, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	do(t, h, http.MethodGet, "/api/habits", "")

	rec = do(t, h, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), `path="GET /api/habits"`), "requests are labeled by route pattern")
}
