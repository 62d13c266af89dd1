package worker

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/autoinspect/inspection-service/internal/service"
)

// StaleAnalysisWorker помечает зависшие в статусе analyzing осмотры как
// failed. Анализ, переживший таймаут бэкенда, означает падение сервера
// посреди цикла; иначе статус навсегда заблокирует повторный запуск.
type StaleAnalysisWorker struct {
	inspectionService service.InspectionService
	interval          time.Duration
	staleAfter        time.Duration
}

func NewStaleAnalysisWorker(inspectionService service.InspectionService, interval, staleAfter time.Duration) *StaleAnalysisWorker {
	return &StaleAnalysisWorker{
		inspectionService: inspectionService,
		interval:          interval,
		staleAfter:        staleAfter,
	}
}

func (w *StaleAnalysisWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	logrus.Info("Stale analysis worker started")

	for {
		select {
		case <-ctx.Done():
			logrus.Info("Stale analysis worker stopped")
			return
		case <-ticker.C:
			w.failStaleAnalyses(ctx)
		}
	}
}

func (w *StaleAnalysisWorker) failStaleAnalyses(ctx context.Context) {
	failed, err := w.inspectionService.FailStaleAnalyses(ctx, w.staleAfter)
	if err != nil {
		logrus.Errorf("Failed to check stale analyses: %v", err)
		return
	}

	if failed > 0 {
		logrus.Infof("Marked %d stale analyses as failed", failed)
	}
}
