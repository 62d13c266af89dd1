package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/autoinspect/inspection-service/config"
	repository "github.com/autoinspect/inspection-service/internal/database/postgres"
	"github.com/autoinspect/inspection-service/internal/pkg/annotator"
	"github.com/autoinspect/inspection-service/internal/pkg/storage"
	"github.com/autoinspect/inspection-service/pkg/postgres"
)

func main() {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetOutput(os.Stdout)

	viperInstance, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Cannot load config: %v", err)
	}

	cfg, err := config.ParseConfig(viperInstance)
	if err != nil {
		log.Fatalf("Cannot parse config: %v", err)
	}

	db, err := postgres.NewPostgresDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	photoRepo := repository.NewPhotoRepository(db)
	photoStorage := storage.NewPhotoStorage(cfg.Storage.BasePath)

	worker := annotator.NewWorker(annotator.New(), photoStorage, photoRepo)

	ctx, cancel := context.WithCancel(context.Background())

	go worker.StartConsumer(
		ctx,
		strings.Split(config.GetEnv("KAFKA_BROKERS", cfg.Kafka.Brokers), ","),
		config.GetEnv("KAFKA_TOPIC", cfg.Kafka.Topic),
		config.GetEnv("KAFKA_GROUP_ID", cfg.Kafka.GroupID),
	)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)
	<-quit

	logrus.Print("Annotator Shutting Down")
	cancel()
}
