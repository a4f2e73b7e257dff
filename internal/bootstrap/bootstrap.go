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

	appControllers "github.com/emrekoc/registrar/internal/app/controllers"
	appMigrations "github.com/emrekoc/registrar/internal/app/migrations"
	appRepos "github.com/emrekoc/registrar/internal/app/repositories"
	appRoutes "github.com/emrekoc/registrar/internal/app/routes"
	appServices "github.com/emrekoc/registrar/internal/app/services"
	"github.com/emrekoc/registrar/internal/config"
	"github.com/emrekoc/registrar/internal/db"
	"github.com/emrekoc/registrar/internal/middleware"
	"github.com/emrekoc/registrar/internal/pkg/logger"
	"github.com/emrekoc/registrar/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Repos    *appRepos.Repositories
	Services *appServices.Services

	StudentController    *appControllers.StudentController
	InstructorController *appControllers.InstructorController
	DepartmentController *appControllers.DepartmentController
	CourseController     *appControllers.CourseController
	EnrollmentController *appControllers.EnrollmentController
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	logger.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, nil
}

// SetupDatabase establishes the database connection, runs migrations and
// seeds the bootstrap dataset.
func SetupDatabase(cfg *config.Config) (*pgxpool.Pool, error) {
	logger.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	dbPool := database.Pool

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := dbPool.Ping(ctx); err != nil {
		logger.Error().Err(err).Msg("Failed to ping database")
		dbPool.Close()
		return nil, err
	}
	logger.Info().Msg("Database connection successfully established.")

	logger.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(dbPool)

	migrationsDir := "migrations"
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		logger.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		dbPool.Close()
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	if err := migrator.MigrateFromDirectory(context.Background(), migrationsDir); err != nil {
		logger.Error().Err(err).Msg("Database migration error")
		dbPool.Close()
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	logger.Info().Msg("Database migrations successfully applied.")

	if err := seed.CreateDefaultData(context.Background(), dbPool); err != nil {
		logger.Error().Err(err).Msg("Failed to seed bootstrap data")
		dbPool.Close()
		return nil, fmt.Errorf("seeding bootstrap data failed: %w", err)
	}

	return dbPool, nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool) *Dependencies {
	deps := &Dependencies{}

	deps.Repos = appRepos.NewRepositories(dbPool)
	deps.Services = appServices.NewServices(deps.Repos, cfg.Pagination.DefaultPageSize)

	pageSize := cfg.Pagination.DefaultPageSize
	deps.StudentController = appControllers.NewStudentController(deps.Services.Students, pageSize)
	deps.InstructorController = appControllers.NewInstructorController(deps.Services.Instructors, pageSize)
	deps.DepartmentController = appControllers.NewDepartmentController(deps.Services.Departments, pageSize)
	deps.CourseController = appControllers.NewCourseController(deps.Services.Courses, pageSize)
	deps.EnrollmentController = appControllers.NewEnrollmentController(deps.Services.Enrollments, pageSize)

	return deps
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		logger.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		logger.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.New()
	router.Use(middleware.RequestLogger(), gin.Recovery())

	appRoutes.SetupRouter(router,
		deps.StudentController,
		deps.InstructorController,
		deps.DepartmentController,
		deps.CourseController,
		deps.EnrollmentController,
	)

	return router
}
