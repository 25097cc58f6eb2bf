// cmd/events/main.go
package main

import (
	"log"
	"os"
	"path/filepath"

	"events-service/internal/api/handlers"
	"events-service/internal/api/middleware"
	"events-service/internal/api/responses"
	"events-service/internal/config"
	"events-service/internal/core/events"
	"events-service/internal/observability"
	"events-service/internal/storage"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		log.Fatal("Falha ao carregar configuração: ", err)
	}

	logger := responses.InitLogger(cfg.Development())
	defer logger.Sync()

	for _, path := range []string{cfg.DBPath, cfg.OverridesPath} {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			logger.Fatal("falha ao criar diretório de dados", zap.String("path", path), zap.Error(err))
		}
	}

	sink, err := storage.OpenSink(cfg.DBPath)
	if err != nil {
		logger.Fatal("falha ao abrir banco de eventos", zap.Error(err))
	}
	defer sink.Close()

	overrides, err := storage.OpenOverrides(cfg.OverridesPath, nil)
	if err != nil {
		logger.Fatal("falha ao abrir dados manuais", zap.Error(err))
	}
	defer overrides.Close()

	metrics := observability.NewMetrics()
	eventsService := events.NewService(logger,
		events.WithSink(sink),
		events.WithOverrides(overrides),
		events.WithMetrics(metrics),
	)
	eventsHandler := handlers.NewEventsHandler(eventsService)

	if !cfg.Development() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	router.MaxMultipartMemory = cfg.MaxUploadBytes()
	router.Use(middleware.RequestID(), metrics.Middleware())

	apiV1 := router.Group("/api/v1")
	eventsHandler.Register(apiV1)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "UP", "service": "events-service"})
	})
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	logger.Info("🚀 Events Service (Go) iniciado", zap.String("port", cfg.Port), zap.String("env", cfg.Env))
	if err := router.Run(":" + cfg.Port); err != nil {
		logger.Fatal("Falha ao iniciar o servidor de eventos", zap.Error(err))
	}
}
