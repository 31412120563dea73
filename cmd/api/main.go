package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"megapost/internal/caption"
	"megapost/internal/client"
	"megapost/internal/config"
	"megapost/internal/database"
	"megapost/internal/handler"
	"megapost/internal/middleware"
	"megapost/internal/repository"
	"megapost/internal/service/reconcile"
	"megapost/internal/service/sweep"
	"megapost/pkg/log"
	"megapost/pkg/utils"
)

func main() {
	cfg, err := config.LoadConfig("")
	if err != nil {
		log.WithFields(map[string]interface{}{
			"error": err.Error(),
		}).Fatal("Failed to load config")
	}

	if err := log.Init(log.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		Filename:   cfg.Log.Filename,
		MaxSize:    cfg.Log.MaxSize,
		MaxAge:     cfg.Log.MaxAge,
		MaxBackups: cfg.Log.MaxBackups,
		Compress:   cfg.Log.Compress,
	}); err != nil {
		log.WithFields(map[string]interface{}{
			"error": err.Error(),
		}).Fatal("Failed to initialize logger")
	}

	if err := database.Init(cfg); err != nil {
		log.WithFields(map[string]interface{}{
			"error": err.Error(),
		}).Fatal("Failed to initialize database")
	}
	defer database.Close()

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := setupRouter(cfg)

	server := &http.Server{
		Addr:         cfg.Server.GetAddr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.WithFields(map[string]interface{}{
			"addr": server.Addr,
			"mode": cfg.Server.Mode,
		}).Info("Starting HTTP server")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithFields(map[string]interface{}{
				"error": err.Error(),
			}).Fatal("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.WithFields(map[string]interface{}{
			"error": err.Error(),
		}).Fatal("Server forced to shutdown")
	}

	log.Info("Server exited")
}

func setupRouter(cfg *config.Config) *gin.Engine {
	router := gin.New()

	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"POST", "OPTIONS"},
		AllowHeaders: []string{"Content-Type", "Authorization"},
	}))

	router.GET("/health", healthCheck)

	db := database.GetDB()
	settingsRepo := repository.NewSettingsRepository(db)
	productRepo := repository.NewProductRepository(db)

	catalogClient := client.NewCatalogClient(cfg.Amazon, nil)
	telegramClient := client.NewTelegramClient(cfg.Telegram, nil)
	facebookClient := client.NewFacebookClient(cfg.Facebook, nil)
	bannerStore := client.NewBannerStore(cfg.Storage, nil)
	captions := caption.NewBuilder()

	reconcileService := reconcile.NewService(
		settingsRepo, productRepo, catalogClient, telegramClient, facebookClient,
		captions, cfg.Reconcile,
	)
	sweepService := sweep.NewService(
		settingsRepo, productRepo, telegramClient, facebookClient, bannerStore,
		captions, cfg.Sweep,
	)

	reconcileHandler := handler.NewReconcileHandler(reconcileService)
	sweepHandler := handler.NewSweepHandler(sweepService)

	api := router.Group("/api/v1")
	{
		api.POST("/update-products", reconcileHandler.Run)
		api.POST("/clean-products", sweepHandler.Run)
	}

	return router
}

func healthCheck(c *gin.Context) {
	if err := database.Health(); err != nil {
		utils.ErrorResponse(c, http.StatusServiceUnavailable, err.Error())
		return
	}
	utils.SuccessResponse(c, gin.H{"status": "ok"})
}
