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

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	appRepos "github.com/yigit/greenfield/internal/app/repositories"
	"github.com/yigit/greenfield/internal/bootstrap"
	"github.com/yigit/greenfield/internal/config"
	"github.com/yigit/greenfield/internal/db"
	"github.com/yigit/greenfield/internal/pkg/helpers"
	"github.com/yigit/greenfield/internal/pkg/obs"
)

// Server holds the state for the HTTP server.
type Server struct {
	config         *config.Config
	router         *gin.Engine
	db             *db.PostgresDB
	infra          *bootstrap.Infrastructure
	shutdownTracer obs.ShutdownFunc
	logger         zerolog.Logger
	http           *http.Server
}

// NewServer creates and initializes a new server instance by calling bootstrap functions.
func NewServer(ctx context.Context) (*Server, error) {
	cfg, lgr, err := bootstrap.LoadConfigAndSetupLogger()
	if err != nil {
		return nil, fmt.Errorf("failed to load config or setup logger: %w", err)
	}

	shutdownTracer, err := obs.InitTracer(ctx, cfg.Tracing.ServiceName, cfg.Server.Mode, cfg.Tracing.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to setup tracing: %w", err)
	}

	pg, err := bootstrap.SetupDatabase(ctx, cfg, lgr)
	if err != nil {
		_ = shutdownTracer(ctx)
		return nil, fmt.Errorf("failed to setup database: %w", err)
	}

	infra, err := bootstrap.SetupInfrastructure(ctx, cfg, lgr)
	if err != nil {
		pg.Close()
		_ = shutdownTracer(ctx)
		return nil, fmt.Errorf("failed to setup infrastructure: %w", err)
	}
	infra.Ping = pg.Ping

	deps, err := bootstrap.BuildDependencies(cfg, appRepos.NewRepositories(pg), infra, lgr)
	if err != nil {
		_ = infra.Close()
		pg.Close()
		_ = shutdownTracer(ctx)
		return nil, fmt.Errorf("failed to setup dependencies: %w", err)
	}
	bootstrap.EnsureAdmin(ctx, cfg, deps)

	return &Server{
		config:         cfg,
		router:         bootstrap.SetupRouter(cfg, deps),
		db:             pg,
		infra:          infra,
		shutdownTracer: shutdownTracer,
		logger:         lgr,
	}, nil
}

// Run starts the HTTP server and handles graceful shutdown.
func (s *Server) Run() error {
	s.logger.Info().Str("port", s.config.Server.Port).Msg("Starting server...")

	s.http = &http.Server{
		Addr:         ":" + s.config.Server.Port,
		Handler:      otelhttp.NewHandler(s.router, s.config.Tracing.ServiceName),
		ReadTimeout:  helpers.ParseDuration(s.config.Server.ReadTimeout, 10*time.Second),
		WriteTimeout: helpers.ParseDuration(s.config.Server.WriteTimeout, 10*time.Second),
		IdleTimeout:  120 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", s.http.Addr).Msg("HTTP server listening")
		serverErrors <- s.http.ListenAndServe()
	}()

	osSignals := make(chan os.Signal, 1)
	signal.Notify(osSignals, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			_ = s.Shutdown(context.Background())
			return fmt.Errorf("error starting server: %w", err)
		}
	case sig := <-osSignals:
		s.logger.Info().Str("signal", sig.String()).Msg("Received OS signal, initiating shutdown...")
	}

	return s.Shutdown(context.Background())
}

// Shutdown gracefully stops the server and closes resources.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, helpers.ParseDuration(s.config.Server.ShutdownTimeout, 10*time.Second))
	defer cancel()

	var errs []error

	if s.http != nil {
		s.logger.Info().Msg("Shutting down HTTP server...")
		if err := s.http.Shutdown(ctx); err != nil {
			s.logger.Error().Err(err).Msg("HTTP server shutdown error")
			errs = append(errs, err)
		}
	}

	if s.infra != nil {
		if err := s.infra.Close(); err != nil {
			s.logger.Error().Err(err).Msg("Failed to close infrastructure adapters")
			errs = append(errs, err)
		}
	}

	if s.db != nil {
		s.db.Close()
		s.logger.Info().Msg("Database connection pool closed.")
	}

	if s.shutdownTracer != nil {
		if err := s.shutdownTracer(ctx); err != nil {
			s.logger.Error().Err(err).Msg("Tracer shutdown error")
			errs = append(errs, err)
		}
	}

	s.logger.Info().Msg("Server shutdown process complete.")
	return errors.Join(errs...)
}
