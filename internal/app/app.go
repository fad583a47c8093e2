package app

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/nzoschke/organizer/internal/config"
	"github.com/nzoschke/organizer/internal/db"
	"github.com/nzoschke/organizer/internal/markdown"
	"github.com/nzoschke/organizer/internal/middleware"
	"github.com/nzoschke/organizer/internal/repository"
	"github.com/nzoschke/organizer/internal/service"
	"github.com/nzoschke/organizer/internal/storage"
)

type App struct {
	Cfg              *config.Config
	DB               *sqlx.DB
	AuthService      *service.AuthService
	HabitService     *service.HabitService
	ReminderService  *service.ReminderService
	NoteService      *service.NoteService
	DashboardService *service.DashboardService
	ExportService    *service.ExportService
	WriteLimiter     *middleware.RateLimiter
}

func New(ctx context.Context, cfg *config.Config) (*App, error) {
	// Initialize database
	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// Run database migrations
	err = db.RunMigrations(database.DB, cfg.DBDriver)
	if err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	// Storage is optional; exports answer 503 without it
	var exportStorage storage.Storage
	if cfg.HasExportStorage() {
		s3Storage, err := storage.New(ctx, cfg)
		if err != nil {
			_ = database.Close()
			return nil, fmt.Errorf("failed to initialize storage: %w", err)
		}
		exportStorage = s3Storage
	}

	return Build(cfg, database, exportStorage), nil
}

// Build wires repositories and services onto an open database.
func Build(cfg *config.Config, database *sqlx.DB, exportStorage storage.Storage, opts ...service.Option) *App {
	opts = append([]service.Option{
		service.WithLocation(cfg.Location()),
		service.WithStoreTimeout(cfg.StoreTimeout),
	}, opts...)

	// Repositories
	habitRepository := repository.NewHabitRepository(database)
	habitLogRepository := repository.NewHabitLogRepository(database)
	reminderRepository := repository.NewReminderRepository(database)
	noteRepository := repository.NewNoteRepository(database)

	// Services
	habitService := service.NewHabitService(habitRepository, habitLogRepository, opts...)
	reminderService := service.NewReminderService(reminderRepository, opts...)
	noteService := service.NewNoteService(noteRepository, markdown.NewParser(), opts...)
	dashboardService := service.NewDashboardService(habitService, reminderService, noteService, opts...)
	exportService := service.NewExportService(
		habitRepository,
		habitLogRepository,
		reminderRepository,
		noteRepository,
		exportStorage,
		opts...,
	)

	return &App{
		Cfg:              cfg,
		DB:               database,
		AuthService:      service.NewAuthService(cfg.JWTSecret, cfg.JWTExpiry),
		HabitService:     habitService,
		ReminderService:  reminderService,
		NoteService:      noteService,
		DashboardService: dashboardService,
		ExportService:    exportService,
		WriteLimiter:     middleware.NewRateLimiter(cfg.WriteRateLimit, cfg.WriteRateWindow),
	}
}

func (a *App) Close() error {
	return db.Close(a.DB)
}
