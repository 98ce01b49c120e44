package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"stocktrack/api/internal/cache"
	"stocktrack/api/internal/config"
	"stocktrack/api/internal/middleware"
	"stocktrack/api/internal/repository"
	"stocktrack/api/internal/service"
)

type HandlerSet struct {
	log          zerolog.Logger
	cfg          *config.AppConfig
	authService  *service.AuthService
	stockService *service.StockService
	google       *GoogleAuth
	db           *pgxpool.Pool
	cache        *redis.Client
}

func NewHandlerSet(log zerolog.Logger, db *pgxpool.Pool, redisClient *redis.Client, cfg *config.AppConfig) HandlerSet {
	userRepo := repository.NewUserRepository(db)
	stockRepo := repository.NewStockRepository(db)

	stockCache := cache.NewStockCache(redisClient, 0)
	stateStore := cache.NewStateStore(redisClient, cfg.Google.StateTTL)

	auth := service.NewAuthService(userRepo, cfg, log)
	stocks := service.NewStockService(stockRepo, stockCache, log)
	google := NewGoogleAuth(cfg, auth, stateStore, log)

	return HandlerSet{
		log:          log,
		cfg:          cfg,
		authService:  auth,
		stockService: stocks,
		google:       google,
		db:           db,
		cache:        redisClient,
	}
}

func (h HandlerSet) Register(router *gin.RouterGroup) {
	router.GET("/healthz", h.Health)

	auth := router.Group("/auth")
	auth.POST("/register", h.RegisterUser)
	auth.POST("/login", h.Login)
	auth.GET("/me", middleware.Auth(h.cfg.Security.JWTSecret), h.Me)
	auth.GET("/google", h.google.Start)
	auth.GET("/google/callback", h.google.Callback)

	stocks := router.Group("/stocks")
	stocks.Use(middleware.Auth(h.cfg.Security.JWTSecret))
	stocks.GET("", h.ListStocks)
	stocks.POST("", middleware.RequireAdmin(), h.CreateStock)
	stocks.PUT("/:id", h.UpdateStock)
	stocks.DELETE("/:id", middleware.RequireAdmin(), h.DeleteStock)
}
