package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appControllers "github.com/yigit/academia/internal/app/controllers"
	appMigrations "github.com/yigit/academia/internal/app/migrations"
	appRepos "github.com/yigit/academia/internal/app/repositories"
	appRoutes "github.com/yigit/academia/internal/app/routes"
	appServices "github.com/yigit/academia/internal/app/services"
	"github.com/yigit/academia/internal/config"
	"github.com/yigit/academia/internal/db"
	appMiddleware "github.com/yigit/academia/internal/middleware"
	pkgAuth "github.com/yigit/academia/internal/pkg/auth"
	"github.com/yigit/academia/internal/pkg/logger"
	"github.com/yigit/academia/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	LifecycleService    appServices.LifecycleService
	EnrollmentService   appServices.EnrollmentService
	PromotionAdvisor    appServices.PromotionAdvisor
	AnalyticsService    appServices.AnalyticsService
	SessionController   *appControllers.SessionController
	AnalyticsController *appControllers.AnalyticsController
	AuthMiddleware      *appMiddleware.AuthMiddleware
	Repos               *appRepos.Repositories
	JWTService          *pkgAuth.JWTService
	Logger              zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger(configPath string) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupStorage opens the configured store, applies migrations and seeds the
// directory when enabled.
func SetupStorage(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (*appRepos.Repositories, error) {
	driver := strings.ToLower(cfg.Database.Driver)
	lgr.Info().Str("driver", driver).Msg("Establishing storage...")

	var repos *appRepos.Repositories
	switch driver {
	case config.DriverPostgres:
		pool, err := db.NewPostgresPool(ctx, cfg)
		if err != nil {
			lgr.Error().Err(err).Msg("Failed to connect to database")
			return nil, err
		}
		if err := appMigrations.NewMigrator(pool, lgr).Migrate(ctx); err != nil {
			pool.Close()
			lgr.Error().Err(err).Msg("Database migration error")
			return nil, fmt.Errorf("database migrations failed: %w", err)
		}
		repos = appRepos.NewRepositories(pool)

	case config.DriverSQLite:
		database, err := db.NewSQLiteDB(cfg.Database.Path)
		if err != nil {
			lgr.Error().Err(err).Str("path", cfg.Database.Path).Msg("Failed to open sqlite database")
			return nil, err
		}
		if err := appMigrations.NewSQLiteMigrator(database, lgr).Migrate(ctx); err != nil {
			database.Close()
			lgr.Error().Err(err).Msg("Database migration error")
			return nil, fmt.Errorf("database migrations failed: %w", err)
		}
		repos = appRepos.NewSQLiteRepositories(database)

	case config.DriverMemory:
		lgr.Warn().Msg("Using in-memory storage; data is lost on shutdown")
		repos = appRepos.NewMemoryRepositories()

	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}
	lgr.Info().Msg("Storage ready.")

	if cfg.Seed.Enabled {
		if err := seed.CreateDefaultData(ctx, repos.Directory, repos.Departments, lgr); err != nil {
			// Log the error but don't fail the startup
			lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
		}
	}

	return repos, nil
}

// BuildDependencies initializes services and controllers over repos.
func BuildDependencies(cfg *config.Config, repos *appRepos.Repositories, lgr zerolog.Logger) *Dependencies {
	deps := &Dependencies{Repos: repos, Logger: lgr}
	clock := appServices.SystemClock

	deps.LifecycleService = appServices.NewLifecycleService(
		repos.Sessions,
		repos.Departments,
		appServices.LifecycleConfig{
			PromotionInterval: cfg.PromotionInterval(),
			MinStartYear:      cfg.Lifecycle.MinStartYear,
			MaxYearsAhead:     cfg.Lifecycle.MaxYearsAhead,
			Clock:             clock,
		},
		logger.Component("lifecycle"),
	)
	deps.EnrollmentService = appServices.NewEnrollmentService(
		repos.Sessions,
		clock,
		logger.Component("enrollment"),
	)
	deps.PromotionAdvisor = appServices.NewPromotionAdvisor(repos.Sessions, repos.Departments)
	deps.AnalyticsService = appServices.NewAnalyticsService(repos.Sessions, repos.Departments, clock)

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		AccessTokenExp: cfg.AccessTokenTTL(),
		TokenIssuer:    cfg.JWT.Issuer,
	})
	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)

	deps.SessionController = appControllers.NewSessionController(
		deps.LifecycleService,
		deps.EnrollmentService,
		deps.PromotionAdvisor,
		clock,
	)
	deps.AnalyticsController = appControllers.NewAnalyticsController(deps.AnalyticsService)

	return deps
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	switch strings.ToLower(cfg.Server.Mode) {
	case "production":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}
	lgr.Info().Str("mode", gin.Mode()).Msg("Gin mode set")

	appMiddleware.RegisterJSONTagNames()

	router := gin.New()
	router.Use(gin.Recovery(), appMiddleware.RequestLogger(lgr))

	appRoutes.SetupSwagger(router, cfg)
	appRoutes.SetupRouter(router,
		deps.SessionController,
		deps.AnalyticsController,
		deps.AuthMiddleware,
	)

	// Test endpoint
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})

	return router
}
