package bootstrap

import (
	"context"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	appControllers "github.com/yigit/curriculum/internal/app/controllers"
	appMigrations "github.com/yigit/curriculum/internal/app/migrations"
	appRepos "github.com/yigit/curriculum/internal/app/repositories"
	appRoutes "github.com/yigit/curriculum/internal/app/routes"
	appServices "github.com/yigit/curriculum/internal/app/services"
	"github.com/yigit/curriculum/internal/config"
	"github.com/yigit/curriculum/internal/db"
	appMiddleware "github.com/yigit/curriculum/internal/middleware"
	"github.com/yigit/curriculum/internal/pkg/logger"
	"github.com/yigit/curriculum/internal/pkg/metrics"
	"github.com/yigit/curriculum/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Repos               *appRepos.Repositories
	CurriculumService   appServices.CurriculumService
	CourseController    *appControllers.CourseController
	DashboardController *appControllers.DashboardController
	Metrics             *metrics.Metrics // nil when metrics are disabled
	Logger              zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger(configPath string) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Str("path", configPath).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.ParseLevel(cfg.Logging.Level)
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	lgr := logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase connects to Postgres and runs migrations when the postgres
// storage driver is selected. It returns nil for the file driver.
func SetupDatabase(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (*db.PostgresDB, error) {
	if cfg.Storage.Driver != config.StorageDriverPostgres {
		return nil, nil
	}

	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(ctx, cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(database.Pool, lgr)
	if err := migrator.Migrate(ctx); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		database.Close()
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	return database, nil
}

// SeedFactory returns the catalog factory selected by the configuration.
func SeedFactory(cfg *config.Config) seed.Factory {
	if cfg.Catalog.SeedFile != "" {
		return seed.FileFactory{Path: cfg.Catalog.SeedFile}
	}
	return seed.UniformFactory{
		Semesters:          cfg.Catalog.Semesters,
		CoursesPerSemester: cfg.Catalog.CoursesPerSemester,
		DefaultCredits:     cfg.Catalog.DefaultCredits,
	}
}

// OpenCatalog builds the catalog store and seeds it on first start.
// database may be nil for the file driver.
func OpenCatalog(ctx context.Context, cfg *config.Config, database *db.PostgresDB, lgr zerolog.Logger) (*appRepos.Repositories, error) {
	repos, err := appRepos.NewRepositories(cfg, database, lgr)
	if err != nil {
		return nil, err
	}

	if err := seed.EnsureInitialized(ctx, repos.Catalog, SeedFactory(cfg), lgr); err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize catalog")
		return nil, err
	}
	return repos, nil
}

// BuildDependencies initializes repositories, services and controllers.
// A catalog that cannot be loaded is fatal.
func BuildDependencies(ctx context.Context, cfg *config.Config, database *db.PostgresDB, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	var err error
	deps.Repos, err = OpenCatalog(ctx, cfg, database, lgr)
	if err != nil {
		return nil, err
	}

	if cfg.Metrics.Enabled {
		deps.Metrics = metrics.New()
	}

	deps.CurriculumService, err = appServices.NewCurriculumService(ctx, deps.Repos.Catalog, appServices.Options{
		MaxSemester: cfg.Catalog.Semesters,
		Metrics:     deps.Metrics,
		Logger:      lgr,
	})
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to load catalog")
		return nil, err
	}

	deps.CourseController = appControllers.NewCourseController(deps.CurriculumService)
	deps.DashboardController = appControllers.NewDashboardController(deps.CurriculumService)

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) (*gin.Engine, error) {
	switch {
	case cfg.IsProduction():
		gin.SetMode(gin.ReleaseMode)
	case cfg.Server.Mode == "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}
	lgr.Info().Str("mode", gin.Mode()).Msg("Gin mode set")

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(appMiddleware.RequestID())
	router.Use(appMiddleware.AccessLog(logger.Component("http")))
	if deps.Metrics != nil {
		router.Use(appMiddleware.Metrics(deps.Metrics))
		router.GET(cfg.Metrics.Path, gin.WrapH(deps.Metrics.Handler()))
	}

	tmpl, err := appControllers.Templates()
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	router.SetHTMLTemplate(tmpl)

	appRoutes.SetupRouter(router, deps.CourseController, deps.DashboardController)

	return router, nil
}
