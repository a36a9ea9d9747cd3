package bootstrap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	appControllers "github.com/yigit/buspass/internal/app/controllers"
	appMigrations "github.com/yigit/buspass/internal/app/migrations"
	appRepos "github.com/yigit/buspass/internal/app/repositories"
	appRoutes "github.com/yigit/buspass/internal/app/routes"
	appServices "github.com/yigit/buspass/internal/app/services"
	"github.com/yigit/buspass/internal/config"
	"github.com/yigit/buspass/internal/db"
	appMiddleware "github.com/yigit/buspass/internal/middleware"
	pkgAuth "github.com/yigit/buspass/internal/pkg/auth"
	"github.com/yigit/buspass/internal/pkg/cache"
	"github.com/yigit/buspass/internal/pkg/helpers"
	"github.com/yigit/buspass/internal/pkg/logger"
	"github.com/yigit/buspass/internal/pkg/passdoc"
	"github.com/yigit/buspass/internal/seed"
	"github.com/yigit/buspass/internal/web"
)

// DefaultConfigPath is read relative to the working directory
var DefaultConfigPath = filepath.Join("configs", "config.yaml")

// Dependencies holds all the application dependencies
type Dependencies struct {
	Services       *appServices.Services
	Controllers    appRoutes.Controllers
	AuthMiddleware *appMiddleware.AuthMiddleware
	Repos          *appRepos.Repositories
	JWTService     *pkgAuth.JWTService
	Sessions       appRepos.SessionStore
	Redis          *redis.Client
	Logger         zerolog.Logger
}

// Close releases connections owned by the dependencies
func (d *Dependencies) Close() {
	if d.Redis != nil {
		if err := d.Redis.Close(); err != nil {
			d.Logger.Warn().Err(err).Msg("Error closing redis client")
		}
	}
}

// LoadConfigAndSetupLogger loads .env, then the configuration, and
// initializes the logger from it.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logger.Warn().Err(err).Msg("Could not read .env file")
	}

	configPath := config.GetEnv("CONFIG_PATH", DefaultConfigPath)
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	lgr := logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase connects, applies migrations and seeds the admin account
func SetupDatabase(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (*db.PostgresDB, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(ctx, cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	if err := RunMigrations(ctx, database, lgr); err != nil {
		database.Close()
		return nil, err
	}

	users := appRepos.NewUserRepository(database.Pool)
	if err := seed.EnsureAdminUser(ctx, users, cfg.Admin.Username, cfg.Admin.Password, lgr); err != nil {
		// Startup continues; an operator can still create accounts with transportctl.
		lgr.Error().Err(err).Msg("Failed to seed admin account, proceeding anyway...")
	}

	return database, nil
}

// RunMigrations applies the embedded schema migrations
func RunMigrations(ctx context.Context, database *db.PostgresDB, lgr zerolog.Logger) error {
	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(database.Pool)
	if err := migrator.Migrate(ctx, appMigrations.Files()); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		return fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")
	return nil
}

// BuildDependencies initializes repositories, services, middleware and controllers
func BuildDependencies(ctx context.Context, cfg *config.Config, database *db.PostgresDB, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(database.Pool)

	deps.Sessions = deps.Repos.SessionRepository
	if cfg.Session.RedisURL != "" {
		client, err := cache.NewRedisClient(ctx, cfg.Session.RedisURL)
		if err != nil {
			lgr.Error().Err(err).Msg("Failed to connect to redis session store")
			return nil, err
		}
		deps.Redis = client
		deps.Sessions = cache.NewRedisSessionStore(client)
		lgr.Info().Msg("Using redis session store")
	} else {
		lgr.Info().Msg("Using postgres session store")
	}

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:   cfg.Session.Secret,
		SessionTTL:  helpers.ParseDuration(cfg.Session.TTL, 12*time.Hour),
		TokenIssuer: cfg.Session.Issuer,
	})

	deps.Services = appServices.NewServices(appServices.Dependencies{
		Repositories: deps.Repos,
		Sessions:     deps.Sessions,
		JWTService:   deps.JWTService,
		CSRFSecret:   cfg.Session.Secret,
		Clock:        helpers.SystemClock(cfg.Location()),
		Receipt: passdoc.Options{
			InstitutionName: cfg.App.InstitutionName,
			Title:           cfg.App.PassTitle,
			Footer:          cfg.App.ReceiptFooter,
			Compress:        true,
		},
	})

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.Services.AuthService, cfg.Session.CookieName, cfg.Session.Secret)

	deps.Controllers = appRoutes.Controllers{
		Auth: appControllers.NewAuthController(deps.Services.AuthService, appControllers.CookieConfig{
			Name:   cfg.Session.CookieName,
			Secure: cfg.Session.Secure,
		}),
		Student: appControllers.NewStudentController(deps.Services.StudentService, deps.Services.RouteService),
		BusPass: appControllers.NewBusPassController(deps.Services.BusPassService, deps.Services.StudentService, deps.Services.ReceiptService),
		Route:   appControllers.NewRouteController(deps.Services.RouteService),
		Health:  appControllers.NewHealthController(database),
	}

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) (*gin.Engine, error) {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	templates, err := web.Templates()
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	router := gin.New()
	router.SetHTMLTemplate(templates)
	router.Use(
		appMiddleware.Recovery(),
		appMiddleware.RequestLogger(),
		appMiddleware.Metrics(),
		appMiddleware.SecurityHeaders(),
	)

	appRoutes.SetupRouter(router, deps.Controllers, deps.AuthMiddleware)
	return router, nil
}
