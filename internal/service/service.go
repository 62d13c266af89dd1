package service

import (
	"context"
	"io"
	"mime/multipart"
	"time"

	"github.com/autoinspect/inspection-service/internal/entity"
)

// CreateInspectionRequest представляет данные для создания осмотра
type CreateInspectionRequest struct {
	VehiclePlate string             `json:"vehicle_plate" binding:"max=20"`
	Notes        string             `json:"notes" binding:"max=2000"`
	ScheduledAt  *entity.CustomTime `json:"scheduled_at,omitempty"`
}

// UploadPhotoRequest представляет поля multipart-загрузки фото
type UploadPhotoRequest struct {
	InspectionID string
	Side         entity.PhotoSide
	Stage        entity.PhotoStage
	File         *multipart.FileHeader
}

type InspectionService interface {
	CreateInspection(ctx context.Context, req *CreateInspectionRequest) (*entity.Inspection, error)
	GetInspection(ctx context.Context, id string) (*entity.InspectionDetails, error)
	GetAllInspections(ctx context.Context, limit, offset int) ([]*entity.Inspection, error)
	DeleteInspection(ctx context.Context, id string) error

	// FailStaleAnalyses помечает зависшие в analyzing осмотры как failed
	FailStaleAnalyses(ctx context.Context, olderThan time.Duration) (int, error)
}

type PhotoService interface {
	UploadPhoto(ctx context.Context, req *UploadPhotoRequest) (*entity.Photo, error)
	GetPhoto(ctx context.Context, id string) (*entity.Photo, error)
	GetOriginalFile(ctx context.Context, id string) (io.ReadCloser, *entity.Photo, error)
	GetThumbnailFile(ctx context.Context, id string) (io.ReadCloser, *entity.Photo, error)
	GetAnnotatedFile(ctx context.Context, id string) (io.ReadCloser, *entity.Photo, error)
	DeletePhoto(ctx context.Context, id string) error
}

type AnalysisService interface {
	// StartAnalysis выполняет полный цикл с бэкендом: загрузка фото,
	// запуск анализа, получение и сохранение результатов, постановка
	// задач на отрисовку. Не более одного цикла на осмотр одновременно.
	StartAnalysis(ctx context.Context, inspectionID string) (*entity.DamageReport, error)
	GetReport(ctx context.Context, inspectionID string) (*entity.DamageReport, error)
}
