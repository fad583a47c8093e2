package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/http/httputil"
	"net/url"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nzoschke/organizer/internal/app"
	"github.com/nzoschke/organizer/internal/config"
	"github.com/nzoschke/organizer/internal/db"
	"github.com/nzoschke/organizer/internal/model"
	"github.com/nzoschke/organizer/internal/routes"
	"github.com/nzoschke/organizer/internal/service"
)

var fixedNow = time.Date(2024, time.March, 10, 8, 0, 0, 0, time.UTC)

type fixture struct {
	server *httptest.Server
	client *Client
	app    *app.App
}

func setupServer(t *testing.T) *fixture {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "test.db") + "?_pragma=foreign_keys(1)"

	database, err := db.Init("sqlite", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	require.NoError(t, db.RunMigrations(database.DB, "sqlite"))

	cfg := &config.Config{
		AppEnv:          "development",
		Timezone:        "UTC",
		StoreTimeout:    time.Second,
		WriteRateLimit:  1000,
		WriteRateWindow: time.Minute,
	}

	a := app.Build(cfg, database, nil, service.WithClock(func() time.Time { return fixedNow }))
	server := httptest.NewServer(routes.SetupRoutes(a))
	t.Cleanup(server.Close)

	return &fixture{
		server: server,
		client: New(Options{BaseURL: server.URL, UserID: "user-1"}),
		app:    a,
	}
}

func seedHabit(t *testing.T, f *fixture, days int) string {
	t.Helper()
	ctx := context.Background()
	today := model.DateOf(fixedNow)

	habit, err := f.app.HabitService.Create(ctx, "user-1", service.HabitInput{Name: "Read 30 mins"})
	require.NoError(t, err)

	completed := true
	for offset := 0; offset < days; offset++ {
		_, err := f.client.ToggleHabit(ctx, habit.ID, today.AddDays(-offset), &completed)
		require.NoError(t, err)
	}
	return habit.ID
}

func TestClientHabits(t *testing.T) {
	f := setupServer(t)
	ctx := context.Background()
	id := seedHabit(t, f, 5)

	views, err := f.client.Habits(ctx)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, 5, views[0].Streak)
	assert.True(t, views[0].CompletedToday)

	log, err := f.client.ToggleHabit(ctx, id, model.Date{}, nil)
	require.NoError(t, err)
	assert.False(t, log.Completed)
	assert.Equal(t, model.DateOf(fixedNow), log.Date)

	view, err := f.client.Habit(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 4, view.Streak)
}

func TestClientAPIError(t *testing.T) {
	f := setupServer(t)

	_, err := f.client.Habit(context.Background(), "missing")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "habit not found", apiErr.Message)

	anonymous := New(Options{BaseURL: f.server.URL})
	_, err = anonymous.Habits(context.Background())
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
}

func TestBoardToggleHabitSettlesOnServerView(t *testing.T) {
	f := setupServer(t)
	ctx := context.Background()
	id := seedHabit(t, f, 5)

	board := NewBoard(f.client)
	require.NoError(t, board.Refresh(ctx))

	view, err := board.ToggleHabit(ctx, id)
	require.NoError(t, err)
	assert.False(t, view.CompletedToday)
	assert.Equal(t, 4, view.Streak)

	local, ok := board.Habit(id)
	require.True(t, ok)
	assert.Equal(t, view, local)
	assert.Equal(t, model.HistoryMissed, local.History[0].Status)
}

func TestBoardToggleReminder(t *testing.T) {
	f := setupServer(t)
	ctx := context.Background()

	reminder, err := f.app.ReminderService.Create(ctx, "user-1", service.ReminderInput{
		Title:   "Pay Electricity Bill",
		DueDate: fixedNow.Add(48 * time.Hour),
	})
	require.NoError(t, err)

	board := NewBoard(f.client)
	require.NoError(t, board.Refresh(ctx))
	require.Len(t, board.Reminders(), 1)

	toggled, err := board.ToggleReminder(ctx, reminder.ID)
	require.NoError(t, err)
	assert.True(t, toggled.Completed)
	assert.Equal(t, model.ReminderStatusCompleted, toggled.Status)
	require.NotNil(t, toggled.CompletedAt)
	assert.True(t, toggled.CompletedAt.Equal(fixedNow))
}

func TestBoardRollsBackOnFailure(t *testing.T) {
	f := setupServer(t)
	ctx := context.Background()
	id := seedHabit(t, f, 3)

	board := NewBoard(f.client)
	require.NoError(t, board.Refresh(ctx))
	before, ok := board.Habit(id)
	require.True(t, ok)

	// Point the board at a server that rejects every write
	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"error":"storage unavailable, please retry"}`))
	}))
	defer failing.Close()
	board.client = New(Options{BaseURL: failing.URL, UserID: "user-1"})

	_, err := board.ToggleHabit(ctx, id)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusServiceUnavailable, apiErr.StatusCode)

	after, ok := board.Habit(id)
	require.True(t, ok)
	assert.Equal(t, before, after)
	assert.Equal(t, 3, after.Streak)
	assert.Equal(t, model.HistoryCompleted, after.History[0].Status)
}

func TestBoardKeepsGuessWhenRefetchFails(t *testing.T) {
	f := setupServer(t)
	ctx := context.Background()
	id := seedHabit(t, f, 5)

	board := NewBoard(f.client)
	require.NoError(t, board.Refresh(ctx))

	// Writes reach the server, reads of the habit fail
	target, err := url.Parse(f.server.URL)
	require.NoError(t, err)
	proxy := httputil.NewSingleHostReverseProxy(target)
	flaky := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"error":"storage unavailable, please retry"}`))
			return
		}
		proxy.ServeHTTP(w, r)
	}))
	defer flaky.Close()
	board.client = New(Options{BaseURL: flaky.URL, UserID: "user-1"})

	view, err := board.ToggleHabit(ctx, id)
	require.NoError(t, err)
	assert.False(t, view.CompletedToday)
	assert.Equal(t, 4, view.Streak)
	assert.True(t, board.Stale(id))

	stored, err := f.client.Habit(ctx, id)
	require.NoError(t, err)
	local, ok := board.Habit(id)
	require.True(t, ok)
	assert.Equal(t, stored.CompletedToday, local.CompletedToday)
	assert.Equal(t, stored.Streak, local.Streak)

	// Once reads work again the stale view is re-read before the next toggle
	board.client = f.client
	view, err = board.ToggleHabit(ctx, id)
	require.NoError(t, err)
	assert.True(t, view.CompletedToday)
	assert.Equal(t, 5, view.Streak)
	assert.False(t, board.Stale(id))

	stored, err = f.client.Habit(ctx, id)
	require.NoError(t, err)
	assert.True(t, stored.CompletedToday)
	assert.Equal(t, 5, stored.Streak)
}

func TestBoardToggleSendsShownIntent(t *testing.T) {
	f := setupServer(t)
	ctx := context.Background()
	id := seedHabit(t, f, 5)

	board := NewBoard(f.client)
	require.NoError(t, board.Refresh(ctx))

	// Another client undoes today behind the board's back
	undone := false
	_, err := f.client.ToggleHabit(ctx, id, model.DateOf(fixedNow), &undone)
	require.NoError(t, err)

	// The board still shows today completed, so its toggle means "undo"
	view, err := board.ToggleHabit(ctx, id)
	require.NoError(t, err)
	assert.False(t, view.CompletedToday)
	assert.Equal(t, 4, view.Streak)

	stored, err := f.client.Habit(ctx, id)
	require.NoError(t, err)
	assert.False(t, stored.CompletedToday, "the write is not an inversion of what is stored")
}

func TestGuessHabitToggle(t *testing.T) {
	prior := model.HabitView{
		CompletedToday: false,
		Streak:         0,
		History:        []model.HistoryEntry{{Date: model.DateOf(fixedNow), Status: model.HistoryMissed}},
	}

	next := guessHabitToggle(prior)
	assert.True(t, next.CompletedToday)
	assert.Equal(t, 1, next.Streak)
	assert.Equal(t, model.HistoryCompleted, next.History[0].Status)
	assert.Equal(t, model.HistoryMissed, prior.History[0].Status, "prior history is not shared")

	back := guessHabitToggle(next)
	assert.False(t, back.CompletedToday)
	assert.Equal(t, 0, back.Streak)

	floor := guessHabitToggle(model.HabitView{CompletedToday: true})
	assert.Equal(t, 0, floor.Streak)
}

func TestGuessReminderToggle(t *testing.T) {
	next := guessReminderToggle(Reminder{Status: model.ReminderStatusPending}, fixedNow)
	assert.True(t, next.Completed)
	assert.Equal(t, model.ReminderStatusCompleted, next.Status)
	require.NotNil(t, next.CompletedAt)

	back := guessReminderToggle(next, fixedNow)
	assert.False(t, back.Completed)
	assert.Nil(t, back.CompletedAt)
}
