// launching the server, DB, kafka, redis
package appServer

import (
	"context"
	"crypto/tls"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/autoinspect/inspection-service/config"
	repository "github.com/autoinspect/inspection-service/internal/database/postgres"
	"github.com/autoinspect/inspection-service/internal/pkg/analyzer"
	"github.com/autoinspect/inspection-service/internal/pkg/annotator"
	"github.com/autoinspect/inspection-service/internal/pkg/kafka"
	"github.com/autoinspect/inspection-service/internal/pkg/storage"
	"github.com/autoinspect/inspection-service/internal/service"
	"github.com/autoinspect/inspection-service/internal/transport"
	"github.com/autoinspect/inspection-service/internal/worker"
	"github.com/autoinspect/inspection-service/pkg/cache"
	"github.com/autoinspect/inspection-service/pkg/postgres"
	"github.com/autoinspect/inspection-service/pkg/redis"
	"github.com/autoinspect/inspection-service/pkg/telegram"
)

type Server struct {
	httpServer *http.Server
}

func (s *Server) Run(cfg *config.Config, handler http.Handler) error {
	s.httpServer = &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           handler,
		MaxHeaderBytes:    1 << 20,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       cfg.Server.Idle_timeout,
		ReadHeaderTimeout: 3 * time.Second,
		TLSConfig:         &tls.Config{MinVersion: tls.VersionTLS12},
		ErrorLog:          log.New(os.Stderr, "SERVER ERROR: ", log.LstdFlags),
	}
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func NewServer(cfg *config.Config) {

	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetOutput(os.Stdout)
	logrus.SetLevel(logrus.InfoLevel)

	// Initialize database
	db, err := postgres.NewPostgresDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	if err := postgres.RunMigrations(db); err != nil {
		logrus.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize repositories
	inspectionRepo := repository.NewInspectionRepository(db)
	photoRepo := repository.NewPhotoRepository(db)
	issueRepo := repository.NewIssueRepository(db)

	photoStorage := storage.NewPhotoStorage(cfg.Storage.BasePath)

	// Report cache is optional: without Redis every fetch hits postgres
	reportCache := cache.NewNoopCache()
	if cfg.Redis.Host != "" {
		redisClient := redis.NewRedisClient(&cfg.Redis)
		defer redisClient.Close()
		reportCache = cache.NewReportCache(redisClient, cfg.App.ReportTTL)
		logrus.Info("Report cache initialized")
	}

	// External analyzer backend
	var backend analyzer.Client
	if cfg.Analyzer.BaseURL != "" {
		backend = analyzer.NewClient(&cfg.Analyzer)
	} else {
		backend = analyzer.NewMockClient()
	}

	// Initialize Telegram bot
	var telegramBot *telegram.Bot
	if cfg.Telegram.Enabled && cfg.Telegram.BotToken != "" {
		telegramBot = telegram.NewBot(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
		logrus.Info("Telegram bot initialized")
	} else {
		logrus.Warn("Telegram bot not configured, notifications disabled")
	}

	kafkaProducer := kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
	defer kafkaProducer.Close()

	// Initialize services
	inspectionService := service.NewInspectionService(
		inspectionRepo, photoRepo, issueRepo, photoStorage, reportCache, cfg.App.BaseURL,
	)
	photoService := service.NewPhotoService(
		photoRepo, inspectionRepo, photoStorage, annotator.New(),
		cfg.Annotator.ThumbnailWidth, cfg.Annotator.ThumbnailHeight, cfg.App.MaxPhotoSize,
	)
	analysisService := service.NewAnalysisService(
		inspectionRepo, photoRepo, issueRepo, photoStorage,
		backend, kafkaProducer, cfg.Kafka.Topic, reportCache, telegramBot,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize stale analysis worker
	staleWorker := worker.NewStaleAnalysisWorker(
		inspectionService,
		time.Duration(cfg.Worker.StaleInterval)*time.Minute,
		time.Duration(cfg.Worker.StaleAfter)*time.Minute,
	)
	go staleWorker.Start(ctx)
	logrus.Info("Stale analysis worker started")

	// Initialize handlers
	inspectionHandler := transport.NewInspectionHandler(inspectionService)
	photoHandler := transport.NewPhotoHandler(photoService)
	analysisHandler := transport.NewAnalysisHandler(analysisService)

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	srv := new(Server)
	go func() {
		if err := srv.Run(cfg, transport.InitRoutes(inspectionHandler, photoHandler, analysisHandler)); err != nil {
			logrus.Fatalf("error occured while running http server: %s", err.Error())
		}
	}()

	logrus.Print("App Started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)
	<-quit

	logrus.Print("App Shutting Down")

	if err := srv.Shutdown(context.Background()); err != nil {
		logrus.Errorf("error occured on server shutting down: %s", err.Error())
	}
}
