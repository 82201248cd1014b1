package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/data443/doctagger/pkg/config"
	handlers "github.com/data443/doctagger/pkg/handlers/http"
	"github.com/data443/doctagger/pkg/infra/classifier"
	"github.com/data443/doctagger/pkg/infra/httpx"
	infraLogger "github.com/data443/doctagger/pkg/infra/logger"
	"github.com/data443/doctagger/pkg/infra/prometheus"
	"github.com/data443/doctagger/pkg/middleware"
	"github.com/data443/doctagger/pkg/processor"
	"github.com/data443/doctagger/pkg/server"
	"github.com/data443/doctagger/pkg/storage"
	"github.com/data443/doctagger/pkg/templates"
	"github.com/joho/godotenv"
)

func main() {
	envFile := os.Getenv("ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil {
		log.Println("no .env file found, using system environment variables")
	}

	logger := infraLogger.NewLogger()

	if err := config.Load("./config"); err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}
	cfg := config.GetConfig()

	prometheus.Config = prometheus.MetricsConfig{
		EnableLatency: cfg.Metrics.EnableLatency,
	}

	store, err := storage.NewStore(cfg.Processing.UploadDir, cfg.Processing.ProcessedDir)
	if err != nil {
		logger.Fatalf("Failed to initialize storage: %v", err)
	}

	views, err := templates.New()
	if err != nil {
		logger.Fatalf("Failed to load templates: %v", err)
	}

	// classification API client
	httpClient := httpx.NewFastHTTPClient(
		httpx.WithTimeout(time.Duration(cfg.Classifier.TimeoutSeconds)*time.Second),
		httpx.WithMaxResponseBodySize(cfg.Server.BodyLimitMB*1024*1024),
	)
	breaker := httpx.NewCircuitBreaker(
		"classifier",
		time.Duration(cfg.Classifier.BreakerTimeoutSec)*time.Second,
		cfg.Classifier.BreakerMaxFails,
	)
	classifierClient := classifier.NewClient(classifier.Options{
		BaseURL:           cfg.Classifier.BaseURL,
		RequestsPerMinute: cfg.Classifier.RequestsPerMinute,
	}, httpClient, breaker, logger)

	proc := processor.New(classifierClient, store, logger, processor.Options{
		TagName:       cfg.Processing.TagName,
		MaxWorkers:    cfg.Processing.MaxWorkers,
		SkipTagging:   cfg.Processing.SkipTagging,
		UseFirstMatch: cfg.Processing.UseFirstMatch,
	})

	middlewareTransport := middleware.Transport{
		MetricsMiddleware: middleware.NewMetricsMiddleware(logger),
		RecoverMiddleware: middleware.NewPanicRecoverMiddleware(logger),
	}

	handlerTransport := handlers.HandlerTransport{
		IndexHandler:        handlers.NewIndexHandler(),
		UploadHandler:       handlers.NewUploadHandler(logger, store, proc, cfg.Processing.TagName),
		BatchUploadHandler:  handlers.NewBatchUploadHandler(logger, store, proc),
		DownloadHandler:     handlers.NewDownloadHandler(logger, store),
		ListPoliciesHandler: handlers.NewListPoliciesHandler(logger, classifierClient),
		GetPolicyHandler:    handlers.NewGetPolicyHandler(logger, classifierClient),
	}

	srv := server.NewWebServer(server.WebServerDI{
		MiddlewareTransport: middlewareTransport,
		HandlerTransport:    handlerTransport,
		Config:              cfg,
		Logger:              logger,
		Views:               views,
	})

	go func() {
		if err := srv.Run(); err != nil {
			logger.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	fmt.Println("shutting down server...")
	if err := srv.Shutdown(); err != nil {
		fmt.Println("error shutting down server:", err)
		os.Exit(1)
	}
	fmt.Println("server gracefully stopped")
}
