package main

import (
	"context"
	"time"

	_ "gestaomv/api/swagger" // swagger docs

	"gestaomv/internal/cache"
	"gestaomv/internal/config"
	"gestaomv/internal/database"
	"gestaomv/internal/handler"
	"gestaomv/internal/logger"
	"gestaomv/internal/middleware"
	"gestaomv/internal/repository"
	"gestaomv/internal/service"
	"gestaomv/internal/storage"
	"gestaomv/internal/websocket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// @title           Gestão MV Almoxarifado API
// @version         1.0
// @description     Material catalog and request lifecycle back office.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	_ = godotenv.Load("configs/.env")

	cfg := config.Load()
	log := logger.New(cfg.GinMode)
	defer func() { _ = log.Sync() }()

	db, err := database.NewConnection(cfg.Database.DSN())
	if err != nil {
		log.Fatal("database connection failed", zap.Error(err))
	}
	log.Info("connected to PostgreSQL")

	if err := database.Seed(db, log); err != nil {
		log.Fatal("database seed failed", zap.Error(err))
	}

	// Optional collaborators: photo storage and reference cache. Either may be
	// absent; the services degrade gracefully.
	var photos service.PhotoStore
	if cfg.MinIO.Enabled {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		store, err := storage.New(ctx, cfg.MinIO)
		cancel()
		if err != nil {
			log.Fatal("minio connection failed", zap.Error(err))
		}
		photos = store
		log.Info("connected to MinIO", zap.String("bucket", cfg.MinIO.Bucket))
	}

	var refs *cache.ReferenceCache
	if cfg.Redis.Enabled {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		client, err := cache.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		cancel()
		if err != nil {
			log.Fatal("redis connection failed", zap.Error(err))
		}
		refs = cache.New(client)
		log.Info("connected to Redis", zap.String("addr", cfg.Redis.Addr))
	}

	wsHub := websocket.NewHub(log)
	go wsHub.Run()

	// Repository -> Service -> Handler
	txm := repository.NewTransactionManager(db)
	userRepo := repository.NewUserRepository(db)
	unitRepo := repository.NewUnitRepository(db)
	materialRepo := repository.NewMaterialRepository(db)
	requestRepo := repository.NewRequestRepository(db)
	auditRepo := repository.NewAuditRepository(db)

	userService := service.NewUserService(userRepo, middleware.GetJWTSecret())
	unitService := service.NewUnitService(unitRepo)
	materialService := service.NewMaterialService(materialRepo, auditRepo, photos, refs, log)
	requestService := service.NewRequestService(requestRepo, materialRepo, unitRepo, auditRepo, txm, wsHub, log)
	auditService := service.NewAuditService(auditRepo)
	statsService := service.NewStatsService(db)

	userHandler := handler.NewUserHandler(userService)
	unitHandler := handler.NewUnitHandler(unitService)
	materialHandler := handler.NewMaterialHandler(materialService)
	requestHandler := handler.NewRequestHandler(requestService)
	auditHandler := handler.NewAuditHandler(auditService)
	statsHandler := handler.NewStatsHandler(statsService)

	gin.SetMode(cfg.GinMode)
	router := gin.New()
	router.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CORSOrigins
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "OK"})
	})

	router.GET("/ws", func(c *gin.Context) {
		websocket.ServeWs(wsHub, c, middleware.GetJWTSecret())
	})

	userHandler.RegisterRoutes(router.Group(""))
	unitHandler.RegisterRoutes(router.Group(""))
	materialHandler.RegisterRoutes(router.Group(""))
	requestHandler.RegisterRoutes(router.Group(""))
	auditHandler.RegisterRoutes(router.Group(""))
	statsHandler.RegisterRoutes(router.Group(""))

	log.Info("server listening", zap.String("port", cfg.Port))
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatal("server failed", zap.Error(err))
	}
}
