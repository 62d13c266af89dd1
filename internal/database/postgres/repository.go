package repository

import (
	"context"
	"time"

	"github.com/autoinspect/inspection-service/internal/entity"
)

type InspectionRepository interface {
	Create(ctx context.Context, inspection *entity.Inspection) error
	GetByID(ctx context.Context, id string) (*entity.Inspection, error)
	GetAll(ctx context.Context, limit, offset int) ([]*entity.Inspection, error)
	UpdateStatus(ctx context.Context, id string, status entity.InspectionStatus) error
	Delete(ctx context.Context, id string) error

	// ClaimAnalysis атомарно переводит осмотр в статус analyzing.
	// Условный UPDATE гарантирует, что из конкурентных запросов на
	// анализ выигрывает ровно один; остальные получают
	// ErrAnalysisInProgress.
	ClaimAnalysis(ctx context.Context, id string) error

	// CompleteAnalysis завершает анализ: статус completed плюс итоговая
	// оценка из отчёта бэкенда (nil, если сводка не возвращалась).
	CompleteAnalysis(ctx context.Context, id string, totalCost *float64) error

	// Stale analysis recovery
	GetStale(ctx context.Context, status entity.InspectionStatus, before time.Time) ([]*entity.Inspection, error)
}

type PhotoRepository interface {
	Create(ctx context.Context, photo *entity.Photo) error
	GetByID(ctx context.Context, id string) (*entity.Photo, error)
	GetByInspectionID(ctx context.Context, inspectionID string) ([]*entity.Photo, error)
	MarkAnnotated(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

type IssueRepository interface {
	// ReplaceForInspection удаляет прежние результаты и сохраняет новый
	// набор в одной транзакции, чтобы повторный анализ не оставлял
	// смешанный отчёт.
	ReplaceForInspection(ctx context.Context, inspectionID string, issues []*entity.Issue) error
	GetByPhotoID(ctx context.Context, photoID string) ([]*entity.Issue, error)
	GetByInspectionID(ctx context.Context, inspectionID string) ([]*entity.Issue, error)
}
