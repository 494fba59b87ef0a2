package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/fenix011/student-management-API-c6e/internal/config"
	"github.com/fenix011/student-management-API-c6e/internal/db"
	"github.com/fenix011/student-management-API-c6e/internal/events"
	"github.com/fenix011/student-management-API-c6e/internal/health"
	"github.com/fenix011/student-management-API-c6e/internal/metrics"
	"github.com/fenix011/student-management-API-c6e/internal/middleware"
	"github.com/fenix011/student-management-API-c6e/internal/student"

	"github.com/go-chi/chi/v5"
	"github.com/uptrace/bun"
)

type App struct {
	config    *config.Config
	router    chi.Router
	server    *http.Server
	logger    *slog.Logger
	db        *bun.DB
	publisher events.Publisher
}

// New wires the HTTP application: database, schema, event publisher and routes.
func New(cfg *config.Config, logger *slog.Logger) (*App, error) {
	logger.Info("initializing application",
		"env", cfg.Env,
		"version", Version,
		"git_commit", GitCommit,
		"build_time", BuildTime,
	)

	database, err := db.Open(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	ctx := context.Background()
	if err := db.RunMigrations(ctx, database); err != nil {
		db.Close(database)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	m, err := metrics.New(ServiceName)
	if err != nil {
		logger.Warn("failed to initialize metrics", "error", err)
		m = metrics.NewMock()
	}

	publisher := events.New(cfg.Events, logger)

	app := &App{
		config:    cfg,
		router:    chi.NewRouter(),
		logger:    logger,
		db:        database,
		publisher: publisher,
	}

	app.router.Use(middleware.Recover(logger))
	app.router.Use(middleware.CORS(cfg.Server.CORSOrigins))

	// Health endpoints
	healthHandler := health.NewHandler(database)
	healthHandler.RegisterRoutes(app.router)

	studentRepo := student.NewRepository(database, m)
	studentService := student.NewService(studentRepo, publisher, m, logger)
	studentHandler := student.NewHandler(studentService, logger)

	if cfg.Server.BasePath == "" || cfg.Server.BasePath == "/" {
		studentHandler.RegisterRoutes(app.router)
	} else {
		app.router.Route(cfg.Server.BasePath, studentHandler.RegisterRoutes)
	}

	logger.Info("application initialized successfully")

	return app, nil
}

// Handler exposes the router, mainly for tests.
func (a *App) Handler() http.Handler {
	return a.router
}

func (a *App) Run() error {
	a.server = &http.Server{
		Addr:         fmt.Sprintf(":%s", a.config.Server.Port),
		Handler:      a.router,
		ReadTimeout:  seconds(a.config.Server.ReadTimeout),
		WriteTimeout: seconds(a.config.Server.WriteTimeout),
		IdleTimeout:  seconds(a.config.Server.IdleTimeout),
	}

	a.logger.Info("server starting", "port", a.config.Server.Port)
	if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("shutting down server")

	var errs []error
	if a.server != nil {
		errs = append(errs, a.server.Shutdown(ctx))
	}
	errs = append(errs, a.publisher.Close())
	errs = append(errs, a.db.Close())
	return errors.Join(errs...)
}

func seconds(n int) time.Duration {
	return time.Duration(n) * time.Second
}
