package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/gin-gonic/gin"

	"cinelog/internal/api/handler"
	"cinelog/internal/api/middleware"
	"cinelog/internal/api/models"
	"cinelog/internal/api/repository"
	"cinelog/internal/api/service"
	"cinelog/internal/catalog"
	"cinelog/internal/catalog/omdb"
	"cinelog/internal/catalog/tmdb"
	"cinelog/internal/config"
	"cinelog/internal/database"
	"cinelog/internal/realtime"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not load config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	db, err := database.ConnectDB(cfg, logger)
	if err != nil {
		logger.Error("database connection failed", "error", err)
		os.Exit(1)
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	refreshTokenRepo := repository.NewRefreshTokenRepository(db)
	mediaRepo := repository.NewMediaRepository(db)
	friendRepo := repository.NewFriendshipRepository(db)
	notifRepo := repository.NewNotificationRepository(db)
	privacyRepo := repository.NewPrivacyRepository(db)
	achievementRepo := repository.NewAchievementRepository(db)
	listRepo := repository.NewListRepository(db)
	accountRepo := repository.NewAccountRepository(db)

	// Realtime hub. Connected clients receive cache-invalidation events;
	// everything still works over plain polling when nobody is connected.
	hub := realtime.NewHub(logger)
	go hub.Run()

	// Services
	authService := service.NewAuthService(userRepo, refreshTokenRepo, cfg)
	achievementService := service.NewAchievementService(achievementRepo, mediaRepo, friendRepo, notifRepo, hub)
	mediaService := service.NewMediaService(mediaRepo, achievementService)
	friendService := service.NewFriendService(friendRepo, userRepo, notifRepo, privacyRepo, mediaRepo, achievementService, hub)
	notificationService := service.NewNotificationService(notifRepo, hub)
	statsService := service.NewStatsService(mediaRepo)
	accountService := service.NewAccountService(accountRepo, privacyRepo, userRepo)
	listService := service.NewListService(listRepo, mediaRepo)

	provider := buildCatalogProvider(cfg, logger)

	// Stale refresh tokens pile up as users log in from new devices; sweep
	// them hourly.
	go func() {
		for range time.Tick(time.Hour) {
			if err := refreshTokenRepo.DeleteExpired(); err != nil {
				logger.Warn("refresh token sweep failed", "error", err)
			}
		}
	}()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	v1 := r.Group("/api/v1")

	handler.NewAuthHandler(authService).RegisterRoutes(v1.Group("/auth"))

	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(authService))

	handler.NewMediaHandler(mediaService, models.KindMovie).RegisterRoutes(protected.Group("/movies"))
	handler.NewMediaHandler(mediaService, models.KindTV).RegisterRoutes(protected.Group("/tvshows"))
	handler.NewFriendHandler(friendService).RegisterRoutes(protected.Group("/friends"))
	handler.NewNotificationHandler(notificationService).RegisterRoutes(protected.Group("/notifications"))
	handler.NewStatsHandler(statsService).RegisterRoutes(protected.Group("/stats"))
	handler.NewAccountHandler(accountService).RegisterRoutes(protected.Group("/account"))
	handler.NewListHandler(listService).RegisterRoutes(protected.Group("/lists"))
	handler.NewAchievementHandler(achievementService).RegisterRoutes(protected.Group("/achievements"))
	handler.NewCatalogHandler(provider).RegisterRoutes(protected.Group("/catalog"))
	protected.GET("/ws", realtime.HandleWebSocket(hub))

	addr := fmt.Sprintf(":%d", cfg.HTTPPort)
	logger.Info("server starting", "addr", addr, "env", cfg.GoEnv, "catalog", provider.Name())
	if err := r.Run(addr); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func newLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}

// buildCatalogProvider picks the configured metadata provider and wraps it in
// the redis cache when redis is reachable. A missing redis just means cold
// lookups every time.
func buildCatalogProvider(cfg *config.Config, logger *slog.Logger) catalog.Provider {
	var base catalog.Provider
	switch cfg.CatalogProvider {
	case "omdb":
		base = omdb.NewClient(cfg.OMDBAPIKey)
	default:
		base = tmdb.NewClient(cfg.TMDBAPIKey)
	}

	redisClient, err := catalog.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword)
	if err != nil {
		logger.Warn("redis unavailable, catalog responses will not be cached", "error", err)
		redisClient = nil
	}

	return catalog.NewCachedProvider(base, redisClient, time.Duration(cfg.CacheTTL)*time.Second, logger)
}
