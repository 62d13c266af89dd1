package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	repository "github.com/autoinspect/inspection-service/internal/database/postgres"
	"github.com/autoinspect/inspection-service/internal/entity"
	"github.com/autoinspect/inspection-service/internal/pkg/storage"
	"github.com/autoinspect/inspection-service/pkg/cache"
)

type inspectionService struct {
	inspectionRepo repository.InspectionRepository
	photoRepo      repository.PhotoRepository
	issueRepo      repository.IssueRepository
	storage        storage.PhotoStorage
	reportCache    cache.ReportCache
	baseURL        string
}

func NewInspectionService(
	inspectionRepo repository.InspectionRepository,
	photoRepo repository.PhotoRepository,
	issueRepo repository.IssueRepository,
	store storage.PhotoStorage,
	reportCache cache.ReportCache,
	baseURL string,
) InspectionService {
	return &inspectionService{
		inspectionRepo: inspectionRepo,
		photoRepo:      photoRepo,
		issueRepo:      issueRepo,
		storage:        store,
		reportCache:    reportCache,
		baseURL:        baseURL,
	}
}

func (s *inspectionService) CreateInspection(ctx context.Context, req *CreateInspectionRequest) (*entity.Inspection, error) {
	inspection := &entity.Inspection{
		ID:           uuid.New().String(),
		VehiclePlate: req.VehiclePlate,
		Notes:        req.Notes,
		Status:       entity.InspectionStatusCreated,
		ScheduledAt:  req.ScheduledAt,
	}

	if err := s.inspectionRepo.Create(ctx, inspection); err != nil {
		return nil, fmt.Errorf("не удалось создать осмотр: %w", err)
	}

	return inspection, nil
}

func (s *inspectionService) GetInspection(ctx context.Context, id string) (*entity.InspectionDetails, error) {
	inspection, err := s.inspectionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	photos, err := s.photoRepo.GetByInspectionID(ctx, id)
	if err != nil {
		return nil, err
	}

	issues, err := s.issueRepo.GetByInspectionID(ctx, id)
	if err != nil {
		return nil, err
	}

	// Слияние: каждому фото — повреждения с совпадающим photo_id
	byPhoto := make(map[string][]*entity.Issue)
	for _, issue := range issues {
		byPhoto[issue.PhotoID] = append(byPhoto[issue.PhotoID], issue)
	}

	// Сводка бэкенда авторитетна; сумма оценок — запасной вариант.
	var totalCost float64
	for _, issue := range issues {
		if issue.EstimatedCost != nil {
			totalCost += *issue.EstimatedCost
		}
	}
	if inspection.TotalCost != nil {
		totalCost = *inspection.TotalCost
	}

	for _, photo := range photos {
		photo.Issues = byPhoto[photo.ID]
		s.fillPhotoURLs(photo)
	}

	return &entity.InspectionDetails{
		Inspection: *inspection,
		Photos:     photos,
		IssueCount: len(issues),
		TotalCost:  totalCost,
	}, nil
}

func (s *inspectionService) GetAllInspections(ctx context.Context, limit, offset int) ([]*entity.Inspection, error) {
	return s.inspectionRepo.GetAll(ctx, limit, offset)
}

func (s *inspectionService) DeleteInspection(ctx context.Context, id string) error {
	photos, err := s.photoRepo.GetByInspectionID(ctx, id)
	if err != nil {
		return err
	}

	// Удаление строки каскадом затирает фото и повреждения; файлы — здесь
	if err := s.inspectionRepo.Delete(ctx, id); err != nil {
		return err
	}

	for _, photo := range photos {
		for _, path := range []string{
			s.storage.OriginalPath(photo.ID),
			s.storage.ThumbnailPath(photo.ID),
			s.storage.AnnotatedPath(photo.ID),
		} {
			if err := s.storage.Delete(path); err != nil && s.storage.Exists(path) {
				logrus.Errorf("Failed to delete photo file %s: %v", path, err)
			}
		}
	}

	s.reportCache.Invalidate(ctx, id)
	return nil
}

func (s *inspectionService) FailStaleAnalyses(ctx context.Context, olderThan time.Duration) (int, error) {
	stale, err := s.inspectionRepo.GetStale(ctx, entity.InspectionStatusAnalyzing, time.Now().Add(-olderThan))
	if err != nil {
		return 0, err
	}

	var failed int
	for _, inspection := range stale {
		if err := s.inspectionRepo.UpdateStatus(ctx, inspection.ID, entity.InspectionStatusFailed); err != nil {
			logrus.Errorf("Failed to mark stale inspection %s: %v", inspection.ID, err)
			continue
		}
		s.reportCache.Invalidate(ctx, inspection.ID)
		failed++
	}

	return failed, nil
}

func (s *inspectionService) fillPhotoURLs(photo *entity.Photo) {
	photo.URL = fmt.Sprintf("%s/api/v1/photos/%s/file", s.baseURL, photo.ID)
	photo.ThumbnailURL = fmt.Sprintf("%s/api/v1/photos/%s/thumbnail", s.baseURL, photo.ID)
	if photo.Annotated {
		photo.AnnotatedURL = fmt.Sprintf("%s/api/v1/photos/%s/annotated", s.baseURL, photo.ID)
	}
}
