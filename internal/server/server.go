// Package server wires the Connect services, health and metrics endpoints
// into one HTTP handler.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"connectrpc.com/connect"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mmynk/payrecord/internal/auth"
	"github.com/mmynk/payrecord/internal/calculator"
	"github.com/mmynk/payrecord/internal/config"
	"github.com/mmynk/payrecord/internal/metrics"
	"github.com/mmynk/payrecord/internal/middleware"
	"github.com/mmynk/payrecord/internal/service"
	"github.com/mmynk/payrecord/internal/storage"
	"github.com/mmynk/payrecord/internal/storage/postgres"
	"github.com/mmynk/payrecord/internal/storage/sqlite"
	"github.com/mmynk/payrecord/pkg/api/apiconnect"
)

const shutdownTimeout = 10 * time.Second

// Server serves the payrecord API.
type Server struct {
	cfg     *config.Config
	router  *mux.Router
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// OpenStore opens the storage backend selected by cfg.
func OpenStore(ctx context.Context, cfg config.DatabaseConfig) (storage.Store, error) {
	switch cfg.Driver {
	case config.DriverSQLite:
		store, err := sqlite.New(cfg.Path)
		if err != nil {
			return nil, err
		}
		return store, nil
	case config.DriverPostgres:
		store, err := postgres.New(ctx, cfg.URL)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
}

// New builds a Server over store. The store is not closed by the server.
func New(cfg *config.Config, store storage.Store, logger *slog.Logger) *Server {
	s := &Server{
		cfg:     cfg,
		router:  mux.NewRouter(),
		logger:  logger,
		metrics: metrics.New(),
	}

	jwtManager := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	calc := calculator.New(calculator.WithEpsilon(cfg.Ledger.Epsilon))

	interceptors := connect.WithInterceptors(
		middleware.MetricsInterceptor(s.metrics),
		middleware.RequireAuth(jwtManager, apiconnect.AuthServiceLoginProcedure),
		middleware.LoggingInterceptor(logger),
	)

	s.mount(apiconnect.NewAuthServiceHandler(
		service.NewAuthService(auth.NewNameAuthenticator(), jwtManager, logger), interceptors))
	s.mount(apiconnect.NewGroupServiceHandler(service.NewGroupService(store, logger), interceptors))
	s.mount(apiconnect.NewExpenseServiceHandler(service.NewExpenseService(store, logger), interceptors))
	s.mount(apiconnect.NewLedgerServiceHandler(
		service.NewLedgerService(store, calc, s.metrics, logger), interceptors))

	s.router.HandleFunc("/healthz", handleHealth).Methods(http.MethodGet)
	s.router.Handle("/metrics", s.metrics.Handler()).Methods(http.MethodGet)
	s.router.Use(s.loggingMiddleware)
	return s
}

func (s *Server) mount(path string, handler http.Handler) {
	s.router.PathPrefix(path).Handler(handler)
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok\n"))
}

// Handler returns the full handler chain: CORS, then HTTP/2 without TLS.
func (s *Server) Handler() http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: s.cfg.Server.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{
			"Authorization",
			"Content-Type",
			"Connect-Protocol-Version",
			"Connect-Timeout-Ms",
		},
		ExposedHeaders: []string{"Connect-Protocol-Version", "Connect-Timeout-Ms"},
	})
	return h2c.NewHandler(c.Handler(s.router), &http2.Server{})
}

// Run listens on the configured address until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Server.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Connect server starting", "address", s.cfg.Server.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// loggingMiddleware logs all incoming requests.
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug("Request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}
