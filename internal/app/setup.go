// Package app contains the application setup for the store engine.
package app

import (
	"log/slog"
	"net/http"

	"github.com/abgdnv/storecore/internal/config"
	"github.com/abgdnv/storecore/internal/customerdb"
	"github.com/abgdnv/storecore/internal/service"
	"github.com/abgdnv/storecore/internal/snapshot"
	"github.com/abgdnv/storecore/internal/store"
	"github.com/abgdnv/storecore/internal/transport/rest"
	"github.com/abgdnv/storecore/pkg/server"
	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Dependencies struct {
	Store        *store.Store
	Snapshots    *snapshot.Manager
	StoreService *service.StoreService
	Logger       *slog.Logger
}

// SetupDependencies builds the engine: the collections store, the
// snapshot manager persisting to the configured path, and the service
// on top. dbPool may be nil; the customer database operations then
// report "not configured" instead of crashing.
func SetupDependencies(cfg *config.Config, dbPool *pgxpool.Pool, logger *slog.Logger) *Dependencies {
	st := store.New()
	snapshots := snapshot.NewManager(cfg.Snapshot.Path, st, logger)

	var customers customerdb.CustomerStore
	if dbPool != nil {
		customers = customerdb.NewPgStore(dbPool)
	}

	// The HTTP surface reports outcomes in its responses, so alerts
	// only need to reach the log, and a DELETE request is its own
	// confirmation.
	notifier := service.NotifierFunc(func(message string) {
		logger.Info("alert", "message", message)
	})
	svc := service.NewStoreService(st, snapshots, customers, notifier, service.AlwaysConfirm, logger)

	return &Dependencies{
		Store:        st,
		Snapshots:    snapshots,
		StoreService: svc,
		Logger:       logger,
	}
}

// SetupHttpHandler initializes the HTTP routes for the store engine.
// Used by tests to exercise the full surface without a listener.
func SetupHttpHandler(deps *Dependencies) http.Handler {
	mux := server.NewChiRouter(deps.Logger)
	wireRoutes(mux, deps)
	return mux
}

// wireRoutes sets up the HTTP routes for the store engine.
func wireRoutes(mux *chi.Mux, deps *Dependencies) {
	storeHandler := rest.NewHandler(deps.StoreService, deps.Logger)
	storeHandler.RegisterRoutes(mux)
}

// SetupHttpServer creates and configures an HTTP server for the store engine.
func SetupHttpServer(deps *Dependencies, cfg *config.Config) *http.Server {
	mux := SetupHttpHandler(deps)

	httpCfg := server.HTTPConfig{
		Addr:           cfg.HTTPServer.Addr(),
		MaxHeaderBytes: cfg.HTTPServer.MaxHeaderBytes,
		ReadTimeout:    cfg.HTTPServer.Timeout.Read,
		WriteTimeout:   cfg.HTTPServer.Timeout.Write,
		IdleTimeout:    cfg.HTTPServer.Timeout.Idle,
		ReadHeader:     cfg.HTTPServer.Timeout.ReadHeader,
	}

	return server.NewHTTPServer(httpCfg, mux)
}
