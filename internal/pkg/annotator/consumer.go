package annotator

import (
	"bytes"
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"

	repository "github.com/autoinspect/inspection-service/internal/database/postgres"
	"github.com/autoinspect/inspection-service/internal/entity"
	"github.com/autoinspect/inspection-service/internal/pkg/storage"
)

// Worker потребляет задачи на аннотацию и пишет готовые рендеры обратно
// в хранилище фото. Каждая задача трогает только файлы своего фото,
// поэтому задачи обрабатываются параллельно без координации.
type Worker struct {
	annotator Annotator
	storage   storage.PhotoStorage
	photoRepo repository.PhotoRepository
}

func NewWorker(a Annotator, store storage.PhotoStorage, photoRepo repository.PhotoRepository) *Worker {
	return &Worker{
		annotator: a,
		storage:   store,
		photoRepo: photoRepo,
	}
}

// Handle отрисовывает одну задачу
func (w *Worker) Handle(ctx context.Context, task entity.AnnotationTask) error {
	original, err := w.storage.Get(w.storage.OriginalPath(task.PhotoID))
	if err != nil {
		return err
	}
	defer original.Close()

	photo, err := w.photoRepo.GetByID(ctx, task.PhotoID)
	if err != nil {
		return err
	}

	annotated, format, err := w.annotator.Annotate(original, photo.Filename, task.Regions)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := w.annotator.Encode(&buf, annotated, format); err != nil {
		return err
	}

	if err := w.storage.Save(w.storage.AnnotatedPath(task.PhotoID), &buf); err != nil {
		return err
	}

	return w.photoRepo.MarkAnnotated(ctx, task.PhotoID)
}

// StartConsumer runs the Kafka consumer loop until the context ends.
func (w *Worker) StartConsumer(ctx context.Context, brokers []string, topic, groupID string) {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		Topic:          topic,
		GroupID:        groupID,
		MinBytes:       10e3, // 10KB
		MaxBytes:       10e6, // 10MB
		CommitInterval: time.Second,
		StartOffset:    kafka.FirstOffset,
	})
	defer reader.Close()

	logrus.Info("Annotation consumer started")
	logrus.Infof("Connected to Kafka brokers: %s", brokers)

	for {
		msg, err := reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				logrus.Info("Annotation consumer stopped")
				return
			}
			logrus.Errorf("Error reading message from Kafka: %v", err)
			continue
		}

		var task entity.AnnotationTask
		if err := json.Unmarshal(msg.Value, &task); err != nil {
			logrus.Errorf("Failed to parse annotation task: %v", err)
			continue
		}

		go func(t entity.AnnotationTask) {
			if err := w.Handle(ctx, t); err != nil {
				logrus.WithFields(describe(t)).Errorf("Annotation failed: %v", err)
			} else {
				logrus.WithFields(describe(t)).Info("Photo annotated")
			}
		}(task)
	}
}
