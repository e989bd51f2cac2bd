package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/klokku/timesheet/internal/config"
	"github.com/klokku/timesheet/internal/database"
	log "github.com/sirupsen/logrus"
	"github.com/xlab/closer"
)

const shutdownTimeout = 5 * time.Second

// Application is the event store server: database, router and HTTP server.
type Application struct {
	cfg    config.Application
	deps   *Dependencies
	router *mux.Router
	srv    *http.Server
}

// NewApplication connects and migrates the database and builds the router.
func NewApplication(ctx context.Context, cfg config.Application) (*Application, error) {
	if err := database.Migrate(cfg.Database); err != nil {
		return nil, err
	}
	db, err := database.Open(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}
	closer.Bind(db.Close)

	store, err := NewSettingsStore(cfg)
	if err != nil {
		return nil, err
	}

	deps := BuildDependencies(ctx, db, store, cfg)
	return newApplication(cfg, deps), nil
}

func newApplication(cfg config.Application, deps *Dependencies) *Application {
	r := mux.NewRouter()
	SetupMiddleware(r)
	RegisterRoutes(r, deps)

	srv := &http.Server{
		Handler:      r,
		Addr:         cfg.Listen,
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return &Application{cfg: cfg, deps: deps, router: r, srv: srv}
}

// Run serves until the server fails or the process is asked to stop.
func (a *Application) Run() error {
	closer.Bind(func() {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := a.srv.Shutdown(ctx); err != nil {
			log.Errorf("Server shutdown failed: %v", err)
		}
	})

	log.Infof("Starting server on %s", a.srv.Addr)
	if err := a.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
