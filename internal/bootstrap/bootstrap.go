package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	appAuth "github.com/yigit/greenfield/internal/app/auth"
	appControllers "github.com/yigit/greenfield/internal/app/controllers"
	appMigrations "github.com/yigit/greenfield/internal/app/migrations"
	"github.com/yigit/greenfield/internal/app/models"
	appRepos "github.com/yigit/greenfield/internal/app/repositories"
	appRoutes "github.com/yigit/greenfield/internal/app/routes"
	appServices "github.com/yigit/greenfield/internal/app/services"
	"github.com/yigit/greenfield/internal/config"
	"github.com/yigit/greenfield/internal/db"
	appMiddleware "github.com/yigit/greenfield/internal/middleware"
	pkgAuth "github.com/yigit/greenfield/internal/pkg/auth"
	"github.com/yigit/greenfield/internal/pkg/cache"
	"github.com/yigit/greenfield/internal/pkg/email"
	"github.com/yigit/greenfield/internal/pkg/events"
	"github.com/yigit/greenfield/internal/pkg/filestorage"
	"github.com/yigit/greenfield/internal/pkg/helpers"
	"github.com/yigit/greenfield/internal/pkg/logger"
	"github.com/yigit/greenfield/internal/pkg/validation"
	"github.com/yigit/greenfield/internal/seed"
)

// Infrastructure holds the external adapters services are built on. Each
// one falls back to an in-process implementation when it is not configured.
type Infrastructure struct {
	Cache     cache.Store
	Publisher events.Publisher
	Mailer    email.EmailService
	Storage   *filestorage.LocalStorage
	// Ping reports database health; nil means always healthy
	Ping func(ctx context.Context) error

	closers []func() error
}

// Close releases every adapter that holds a connection.
func (i *Infrastructure) Close() error {
	var errs []error
	for _, c := range i.closers {
		errs = append(errs, c())
	}
	return errors.Join(errs...)
}

// Dependencies holds all the application dependencies
type Dependencies struct {
	Repos          *appRepos.Repositories
	JWTService     *pkgAuth.JWTService
	AuthzService   *appAuth.AuthorizationService
	AuthMiddleware *appMiddleware.AuthMiddleware

	AuthService        *appServices.AuthService
	UserService        *appServices.UserService
	CourseService      *appServices.CourseService
	CourseworkService  *appServices.CourseworkService
	ReportService      *appServices.ReportService
	ApplicationService *appServices.ApplicationService
	ContactService     *appServices.ContactService
	DashboardService   *appServices.DashboardService

	Controllers appRoutes.Controllers
	Infra       *Infrastructure
	Logger      zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		configPath = p
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	logger.Configure(logger.Config{
		Level:   logLevel,
		Pretty:  strings.EqualFold(cfg.Logging.Format, "text"),
		Service: cfg.Tracing.ServiceName,
	})

	lgr := logger.Logger()
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase connects to PostgreSQL and applies pending migrations when
// auto-migrate is enabled.
func SetupDatabase(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (*db.PostgresDB, error) {
	lgr.Info().Msg("Establishing database connection...")
	pg, err := db.NewPostgresDB(ctx, cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}

	if !cfg.Database.AutoMigrate {
		lgr.Info().Msg("Auto-migrate disabled, skipping migrations")
		return pg, nil
	}

	migrator, err := appMigrations.NewMigrator(pg.Pool, lgr)
	if err != nil {
		pg.Close()
		return nil, err
	}
	defer migrator.Close()

	if err := migrator.Up(ctx); err != nil {
		pg.Close()
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	return pg, nil
}

// SetupInfrastructure connects the optional adapters: Redis for the shared
// cache, RabbitMQ for domain events and SendGrid for mail.
func SetupInfrastructure(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (*Infrastructure, error) {
	infra := &Infrastructure{}

	if cfg.Redis.Addr != "" {
		store, err := cache.NewRedisStore(ctx, cache.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return nil, err
		}
		infra.Cache = store
		infra.closers = append(infra.closers, store.Close)
		lgr.Info().Str("addr", cfg.Redis.Addr).Msg("Using Redis cache")
	} else {
		infra.Cache = cache.NewMemoryStore()
		lgr.Warn().Msg("Redis not configured - using in-memory cache, token revocations are not shared between instances")
	}

	if cfg.AMQP.URL != "" {
		pub, err := events.NewAMQPPublisher(cfg.AMQP.URL, cfg.AMQP.Exchange)
		if err != nil {
			_ = infra.Close()
			return nil, err
		}
		infra.Publisher = pub
		infra.closers = append(infra.closers, pub.Close)
		lgr.Info().Str("exchange", cfg.AMQP.Exchange).Msg("Publishing events to RabbitMQ")
	} else {
		infra.Publisher = events.LogPublisher{Logger: lgr}
	}

	infra.Mailer = email.NewEmailService(email.Config{
		APIKey:     cfg.Email.APIKey,
		FromName:   cfg.Email.FromName,
		FromEmail:  cfg.Email.FromEmail,
		Admissions: cfg.Email.Admissions,
		PortalURL:  cfg.Server.PublicURL,
	}, lgr)

	storage, err := filestorage.NewLocalStorage(cfg.Server.StoragePath, strings.TrimRight(cfg.Server.PublicURL, "/")+"/uploads")
	if err != nil {
		_ = infra.Close()
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}
	infra.Storage = storage

	return infra, nil
}

// BuildDependencies initializes services and controllers on top of repos.
func BuildDependencies(cfg *config.Config, repos *appRepos.Repositories, infra *Infrastructure, lgr zerolog.Logger) (*Dependencies, error) {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := validation.RegisterCustomValidators(v); err != nil {
			return nil, fmt.Errorf("failed to register validators: %w", err)
		}
	}

	deps := &Dependencies{Repos: repos, Infra: infra, Logger: lgr}

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:   cfg.JWT.Secret,
		Expiration:  helpers.ParseDuration(cfg.JWT.Expiration, 24*time.Hour),
		TokenIssuer: cfg.JWT.Issuer,
	})
	deps.AuthzService = appAuth.NewAuthorizationService(repos.CourseRepository)

	deps.AuthService = appServices.NewAuthService(repos.UserRepository, deps.JWTService, infra.Cache, lgr)
	deps.UserService = appServices.NewUserService(repos.UserRepository, repos.CourseRepository, infra.Mailer, infra.Publisher, lgr)
	deps.CourseService = appServices.NewCourseService(repos.CourseRepository, repos.UserRepository, lgr)
	deps.CourseworkService = appServices.NewCourseworkService(repos.CourseworkRepository, repos.CourseRepository, deps.AuthzService, lgr)
	deps.ReportService = appServices.NewReportService(repos, infra.Publisher, lgr)
	deps.ApplicationService = appServices.NewApplicationService(repos.ApplicationRepository, infra.Storage, infra.Mailer, infra.Publisher, lgr)
	deps.ContactService = appServices.NewContactService(infra.Mailer, lgr)
	deps.DashboardService = appServices.NewDashboardService(repos, infra.Cache,
		helpers.ParseDuration(cfg.Redis.StatsTTL, 15*time.Second), lgr)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.AuthService)

	deps.Controllers = appRoutes.Controllers{
		Auth:        appControllers.NewAuthController(deps.AuthService, deps.UserService, cfg.IsProduction(), lgr),
		User:        appControllers.NewUserController(deps.UserService, lgr),
		Course:      appControllers.NewCourseController(deps.CourseService, lgr),
		Coursework:  appControllers.NewCourseworkController(deps.CourseworkService, lgr),
		Report:      appControllers.NewReportController(deps.ReportService, lgr),
		Application: appControllers.NewApplicationController(deps.ApplicationService, lgr),
		Contact:     appControllers.NewContactController(deps.ContactService, lgr),
		Dashboard:   appControllers.NewDashboardController(deps.DashboardService, lgr),
	}

	return deps, nil
}

// EnsureAdmin provisions the configured default admin account.
func EnsureAdmin(ctx context.Context, cfg *config.Config, deps *Dependencies) {
	if err := seed.EnsureDefaultAdmin(ctx, deps.UserService, cfg.DefaultAdmin, deps.Logger); err != nil {
		deps.Logger.Error().Err(err).Msg("Failed to create default admin, proceeding anyway...")
	}
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)
	deps.Logger.Info().Str("mode", gin.Mode()).Msg("Gin mode set")

	router := gin.New()
	router.Use(appMiddleware.Recovery(), appMiddleware.RequestLogger(), appMiddleware.Metrics())

	appRoutes.SetupSwagger(router)
	appRoutes.SetupRouter(router, deps.Controllers, deps.AuthMiddleware)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/health", func(c *gin.Context) {
		if ping := deps.Infra.Ping; ping != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := ping(ctx); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "database": err.Error()})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if deps.Infra.Storage != nil {
		// Uploaded application documents are for admissions review only.
		uploads := router.Group("/uploads", deps.AuthMiddleware.SessionGuard(), appMiddleware.RoleRequired(models.RoleAdmin))
		uploads.Static("/", cfg.Server.StoragePath)
	}

	return router
}
