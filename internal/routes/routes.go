package routes

import (
	"net/http"

	"github.com/nzoschke/organizer/internal/app"
	"github.com/nzoschke/organizer/internal/handler"
	"github.com/nzoschke/organizer/internal/metrics"
	"github.com/nzoschke/organizer/internal/middleware"
)

func SetupRoutes(app *app.App) http.Handler {
	// Handlers
	health := handler.NewHealthHandler(app.DB)
	habit := handler.NewHabitHandler(app.HabitService)
	reminder := handler.NewReminderHandler(app.ReminderService)
	note := handler.NewNoteHandler(app.NoteService)
	dashboard := handler.NewDashboardHandler(app.DashboardService, app.ExportService)

	mux := http.NewServeMux()

	// ============================================================================
	// OPERATIONAL ROUTES
	// ============================================================================

	mux.HandleFunc("GET /healthz", health.Health)
	mux.Handle("GET /metrics", metrics.Handler())

	// ============================================================================
	// API ROUTES (/api/*, user scoped)
	// ============================================================================

	scoped := middleware.UserScope(app.AuthService, app.Cfg.DemoUserID, app.Cfg.AllowDemoUser)

	// Habits
	mux.HandleFunc("GET /api/habits", scoped(habit.List))
	mux.HandleFunc("POST /api/habits", scoped(habit.Create))
	mux.HandleFunc("GET /api/habits/{id}", scoped(habit.Get))
	mux.HandleFunc("PUT /api/habits/{id}", scoped(habit.Update))
	mux.HandleFunc("DELETE /api/habits/{id}", scoped(habit.Delete))
	mux.HandleFunc("GET /api/habits/{id}/logs", scoped(habit.Logs))
	mux.HandleFunc("POST /api/habits/{id}/log", scoped(habit.Log))
	mux.HandleFunc("POST /api/habits/{id}/skip", scoped(habit.Skip))

	// Reminders
	mux.HandleFunc("GET /api/reminders", scoped(reminder.List))
	mux.HandleFunc("POST /api/reminders", scoped(reminder.Create))
	mux.HandleFunc("GET /api/reminders/{id}", scoped(reminder.Get))
	mux.HandleFunc("PUT /api/reminders/{id}", scoped(reminder.Update))
	mux.HandleFunc("DELETE /api/reminders/{id}", scoped(reminder.Delete))
	mux.HandleFunc("PATCH /api/reminders/{id}/toggle", scoped(reminder.Toggle))

	// Notes
	mux.HandleFunc("GET /api/notes", scoped(note.List))
	mux.HandleFunc("POST /api/notes", scoped(note.Create))
	mux.HandleFunc("GET /api/notes/{id}", scoped(note.Get))
	mux.HandleFunc("PUT /api/notes/{id}", scoped(note.Update))
	mux.HandleFunc("DELETE /api/notes/{id}", scoped(note.Delete))

	// Dashboard & export
	mux.HandleFunc("GET /api/dashboard", scoped(dashboard.Summary))
	mux.HandleFunc("POST /api/export", scoped(dashboard.Export))

	// Metrics sits directly on the mux so it sees the matched pattern
	return middleware.Chain(mux,
		middleware.CORS(app.Cfg.CORSAllowedOrigins),
		middleware.RequestLogging,
		middleware.RateLimitWrites(app.WriteLimiter),
		middleware.Metrics,
	)
}
