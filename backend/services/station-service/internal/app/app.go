package app

import (
	"context"
	"database/sql"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	libdb "chargehub/backend/libs/db"
	libredis "chargehub/backend/libs/redis"
	"chargehub/backend/services/station-service/internal/cache"
	appconfig "chargehub/backend/services/station-service/internal/config"
	"chargehub/backend/services/station-service/internal/db"
	"chargehub/backend/services/station-service/internal/federated"
	httpserver "chargehub/backend/services/station-service/internal/http"
	"chargehub/backend/services/station-service/internal/http/handlers"
	"chargehub/backend/services/station-service/internal/http/middleware"
	"chargehub/backend/services/station-service/internal/live"
	"chargehub/backend/services/station-service/internal/password"
	"chargehub/backend/services/station-service/internal/repository"
	"chargehub/backend/services/station-service/internal/service"
)

// App wires dependencies for the station service.
type App struct {
	server *httpserver.Server
	db     *sql.DB
	redis  *goredis.Client
	hub    *live.Hub
	logger *zap.Logger
}

// New builds application graph.
func New(ctx context.Context, cfg *appconfig.Config, logger *zap.Logger) (*App, error) {
	sqlDB, err := db.NewPostgres(cfg.Database.DSN, libdb.PoolOptions{
		MaxOpenConns: cfg.Database.MaxOpenConns,
		MaxIdleConns: cfg.Database.MaxIdleConns,
		ConnLifetime: cfg.Database.ConnMaxLifetime,
	})
	if err != nil {
		return nil, err
	}
	if cfg.Database.Migrate {
		migrateCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		err := db.Migrate(migrateCtx, sqlDB, logger)
		cancel()
		if err != nil {
			sqlDB.Close()
			return nil, err
		}
	}

	redisClient, err := libredis.NewRedisClient(libredis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		sqlDB.Close()
		return nil, err
	}

	store := cache.NewStore(redisClient, cfg.CacheTTL())
	hub := live.NewHub(cfg.Live.PingInterval, cfg.Live.WriteTimeout, logger.Named("live"))

	stationRepo := repository.NewStationRepository(sqlDB)
	userRepo := repository.NewUserRepository(sqlDB)
	reviewRepo := repository.NewReviewRepository(sqlDB)
	reportRepo := repository.NewReportRepository(sqlDB)
	evRepo := repository.NewEVRepository(sqlDB)

	tokenSvc := service.NewTokenService(cfg.JWT.Secret, cfg.JWTExpiration())
	verifier := federated.NewFirebaseVerifier(cfg.Firebase.ProjectID, cfg.Firebase.CertsURL, nil)
	authSvc := service.NewAuthService(userRepo, password.NewBcryptHasher(0), tokenSvc, verifier, logger)
	stationSvc := service.NewStationService(stationRepo, userRepo, store, service.NewEstimator(evRepo), hub, logger)
	reviewSvc := service.NewReviewService(reviewRepo, stationRepo, store, logger)
	reportSvc := service.NewReportService(reportRepo, stationRepo, store, logger)
	evSvc := service.NewEVService(evRepo)

	router := httpserver.NewRouter(httpserver.RouterDeps{
		Auth: handlers.NewAuthHandlers(authSvc, handlers.CookieOptions{
			Name:     cfg.Cookie.Name,
			Secure:   cfg.Cookie.Secure,
			SameSite: cfg.CookieSameSite(),
			MaxAge:   tokenSvc.ExpiresIn(),
		}, logger),
		Stations: handlers.NewStationHandlers(stationSvc, logger),
		Reviews:  handlers.NewReviewHandlers(reviewSvc, logger),
		Reports:  handlers.NewReportHandlers(reportSvc, logger),
		EVs:      handlers.NewEVListHandler(evSvc),
		Live:     hub,
		Health:   handlers.NewHealthHandler(),
		Logger:   logger,
	}, middleware.AuthMiddleware(tokenSvc, cfg.Cookie.Name))

	server := httpserver.NewServer(
		cfg.HTTPAddress(),
		router,
		logger,
		middleware.RecoveryMiddleware(logger),
		middleware.LoggingMiddleware(logger),
		middleware.CORSMiddleware(cfg.HTTP.CORSOrigins),
	)

	return &App{
		server: server,
		db:     sqlDB,
		redis:  redisClient,
		hub:    hub,
		logger: logger,
	}, nil
}

// Run starts serving HTTP traffic until context cancellation.
func (a *App) Run(ctx context.Context) error {
	return a.server.Run(ctx)
}

// Close releases acquired resources.
func (a *App) Close() {
	if a.hub != nil {
		a.hub.Close()
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Warn("failed to close redis", zap.Error(err))
		}
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Warn("failed to close db", zap.Error(err))
		}
	}
}
