// Package server wires configuration, datastores, services and the HTTP API
// together and runs the API server until a termination signal arrives.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dmitrijs2005/gremath/internal/logging"
	"github.com/dmitrijs2005/gremath/internal/server/auth"
	"github.com/dmitrijs2005/gremath/internal/server/config"
	"github.com/dmitrijs2005/gremath/internal/server/httpapi"
	"github.com/dmitrijs2005/gremath/internal/server/identity"
	"github.com/dmitrijs2005/gremath/internal/server/passwords"
	"github.com/dmitrijs2005/gremath/internal/server/questions"
	"github.com/dmitrijs2005/gremath/internal/server/services"
	"github.com/dmitrijs2005/gremath/internal/server/storage"
	"github.com/dmitrijs2005/gremath/internal/server/telemetry"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	serviceName     = "gremath"
	shutdownTimeout = 10 * time.Second
)

type App struct {
	config  *config.Config
	logger  logging.Logger
	stores  *Stores
	handler http.Handler
}

func NewApp(ctx context.Context, cfg *config.Config, logger logging.Logger) (*App, error) {
	tokens, err := auth.NewTokenService(cfg)
	if err != nil {
		return nil, fmt.Errorf("token service: %w", err)
	}

	st, err := OpenStores(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if err := st.RepoManager.RunMigrations(ctx, st.DB); err != nil {
		_ = st.Close(ctx)
		return nil, fmt.Errorf("migrations: %w", err)
	}

	users := services.NewUserService(st.DB, st.RepoManager, passwords.NewFromConfig(cfg), tokens, logger, cfg)

	h := httpapi.NewHandler(httpapi.Deps{
		Users:     users,
		Auth:      identity.NewResolver(tokens, users),
		Questions: services.NewQuestionService(questions.NewStore(st.Questions)),
		Courses:   services.NewCourseService(st.DB, st.RepoManager, storage.NewPresigner(cfg)),
		Exams:     services.NewExamService(st.DB, st.RepoManager),
		Health:    services.NewHealthService(logger, st.HealthChecks()),

		Logger:             logger,
		ExposeErrorDetails: cfg.ExposeErrorDetails,
	})

	return &App{
		config:  cfg,
		logger:  logger,
		stores:  st,
		handler: otelhttp.NewHandler(h.Routes(), serviceName),
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run serves HTTP until ctx is cancelled or a signal arrives, then drains
// in-flight requests for up to shutdownTimeout and closes the stores.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.initSignalHandler(cancelFunc)

	shutdownTelemetry := telemetry.Setup(ctx, serviceName, app.config, app.logger)

	srv := &http.Server{
		Addr:              app.config.ListenAddr,
		Handler:           app.handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		app.logger.Info(ctx, "Starting HTTP server", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	var runErr error
	select {
	case <-ctx.Done():
	case runErr = <-errCh:
	}

	app.logger.Info(ctx, "Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		app.logger.Error(shutdownCtx, "http shutdown error", "error", err)
	}
	if err := shutdownTelemetry(shutdownCtx); err != nil {
		app.logger.Warn(shutdownCtx, "telemetry shutdown error", "error", err)
	}
	if err := app.stores.Close(shutdownCtx); err != nil {
		app.logger.Warn(shutdownCtx, "store close error", "error", err)
	}

	return runErr
}
