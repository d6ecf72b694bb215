package bootstrap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	appControllers "github.com/yigit/resultdesk/internal/app/controllers"
	appForm "github.com/yigit/resultdesk/internal/app/form"
	appMigrations "github.com/yigit/resultdesk/internal/app/migrations"
	appRepos "github.com/yigit/resultdesk/internal/app/repositories"
	appRoutes "github.com/yigit/resultdesk/internal/app/routes"
	appServices "github.com/yigit/resultdesk/internal/app/services"
	"github.com/yigit/resultdesk/internal/app/templates"
	"github.com/yigit/resultdesk/internal/config"
	"github.com/yigit/resultdesk/internal/db"
	appMiddleware "github.com/yigit/resultdesk/internal/middleware"
	"github.com/yigit/resultdesk/internal/pkg/logger"
	"github.com/yigit/resultdesk/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	StudentService    appServices.StudentService
	FormService       appServices.FormService
	StudentController *appControllers.StudentController
	FormController    *appControllers.FormController
	PageController    *appControllers.PageController
	Repos             *appRepos.Repositories
	FormStore         appForm.Store
	Redis             *redis.Client // nil unless forms are kept in Redis
	Logger            zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = filepath.Join("configs", "config.yaml")
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	lgr := ConfigureLogger(cfg)
	lgr.Info().Str("logLevel", cfg.Logging.Level).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// ConfigureLogger applies the logging section of cfg
func ConfigureLogger(cfg *config.Config) zerolog.Logger {
	return logger.Configure(logger.Config{
		Level:  logger.LogLevel(strings.ToLower(cfg.Logging.Level)),
		Format: logger.Format(strings.ToLower(cfg.Logging.Format)),
	})
}

// SetupDatabase establishes the database connection, runs migrations and seeds demo data.
func SetupDatabase(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(ctx, cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	dbPool := database.Pool
	lgr.Info().Msg("Database connection successfully established.")

	if err := RunMigrations(ctx, cfg, dbPool, lgr); err != nil {
		dbPool.Close()
		return nil, err
	}

	if cfg.Seed.DemoStudents {
		if err := seed.CreateDemoStudents(ctx, dbPool, lgr); err != nil {
			lgr.Error().Err(err).Msg("Failed to create demo students, proceeding anyway...")
		}
	}

	return dbPool, nil
}

// RunMigrations applies pending migrations from the configured directory
func RunMigrations(ctx context.Context, cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) error {
	migrationsDir := cfg.Database.MigrationsDir
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		return fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	lgr.Info().Str("path", migrationsDir).Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(dbPool, lgr)
	if err := migrator.MigrateFromDirectory(ctx, migrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		return fmt.Errorf("database migrations failed: %w", err)
	}

	lgr.Info().Msg("Database migrations successfully applied.")
	return nil
}

// SetupFormStore builds the configured form session store
func SetupFormStore(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (appForm.Store, *redis.Client, error) {
	ttl := config.ParseDuration(cfg.Forms.SessionTTL, 30*time.Minute)

	switch cfg.Forms.Store {
	case config.FormStoreRedis:
		client, err := db.NewRedisClient(ctx, cfg)
		if err != nil {
			lgr.Error().Err(err).Msg("Failed to connect to redis")
			return nil, nil, err
		}
		lgr.Info().Str("addr", cfg.Redis.Addr).Dur("ttl", ttl).Msg("Form sessions stored in redis")
		return appForm.NewRedisStore(client, ttl), client, nil
	default:
		lgr.Info().Dur("ttl", ttl).Msg("Form sessions stored in memory")
		return appForm.NewMemoryStore(ttl), nil, nil
	}
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(store appForm.Store, students appRepos.StudentStore, lgr zerolog.Logger) *Dependencies {
	deps := &Dependencies{Logger: lgr, FormStore: store}

	deps.StudentService = appServices.NewStudentService(students, logger.WithComponent("students"))
	deps.FormService = appServices.NewFormService(store, deps.StudentService, logger.WithComponent("forms"))

	deps.StudentController = appControllers.NewStudentController(deps.StudentService)
	deps.FormController = appControllers.NewFormController(deps.FormService)
	deps.PageController = appControllers.NewPageController(deps.FormService, lgr)

	return deps
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.New()
	router.Use(gin.Recovery(), appMiddleware.RequestLogger(lgr))
	router.SetHTMLTemplate(templates.Must())

	appRoutes.SetupRouter(router,
		deps.StudentController,
		deps.FormController,
		deps.PageController,
	)
	if cfg.Server.Swagger {
		appRoutes.SetupSwagger(router)
	}

	return router
}
