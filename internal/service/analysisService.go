package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	repository "github.com/autoinspect/inspection-service/internal/database/postgres"
	"github.com/autoinspect/inspection-service/internal/entity"
	"github.com/autoinspect/inspection-service/internal/pkg/analyzer"
	"github.com/autoinspect/inspection-service/internal/pkg/kafka"
	"github.com/autoinspect/inspection-service/internal/pkg/storage"
	"github.com/autoinspect/inspection-service/pkg/cache"
	"github.com/autoinspect/inspection-service/pkg/telegram"
)

type analysisService struct {
	inspectionRepo repository.InspectionRepository
	photoRepo      repository.PhotoRepository
	issueRepo      repository.IssueRepository
	storage        storage.PhotoStorage
	backend        analyzer.Client
	producer       kafka.Producer
	topic          string
	reportCache    cache.ReportCache
	telegramBot    *telegram.Bot
}

func NewAnalysisService(
	inspectionRepo repository.InspectionRepository,
	photoRepo repository.PhotoRepository,
	issueRepo repository.IssueRepository,
	store storage.PhotoStorage,
	backend analyzer.Client,
	producer kafka.Producer,
	topic string,
	reportCache cache.ReportCache,
	telegramBot *telegram.Bot,
) AnalysisService {
	return &analysisService{
		inspectionRepo: inspectionRepo,
		photoRepo:      photoRepo,
		issueRepo:      issueRepo,
		storage:        store,
		backend:        backend,
		producer:       producer,
		topic:          topic,
		reportCache:    reportCache,
		telegramBot:    telegramBot,
	}
}

func (s *analysisService) StartAnalysis(ctx context.Context, inspectionID string) (*entity.DamageReport, error) {
	inspection, err := s.inspectionRepo.GetByID(ctx, inspectionID)
	if err != nil {
		return nil, err
	}

	if !inspection.CanAnalyze() {
		return nil, entity.ErrAnalysisInProgress
	}

	photos, err := s.photoRepo.GetByInspectionID(ctx, inspectionID)
	if err != nil {
		return nil, err
	}
	if len(photos) == 0 {
		return nil, entity.ErrInspectionNoPhotos
	}

	// Атомарный захват: из конкурентных запросов цикл выполняет
	// только тот, чей условный UPDATE прошёл.
	if err := s.inspectionRepo.ClaimAnalysis(ctx, inspectionID); err != nil {
		return nil, err
	}

	report, err := s.runAnalysis(ctx, inspectionID, photos)
	if err != nil {
		if statusErr := s.inspectionRepo.UpdateStatus(ctx, inspectionID, entity.InspectionStatusFailed); statusErr != nil {
			logrus.Errorf("Failed to mark inspection %s failed: %v", inspectionID, statusErr)
		}
		s.notifyFailed(inspectionID, err)
		return nil, err
	}

	if err := s.inspectionRepo.CompleteAnalysis(ctx, inspectionID, report.TotalCost); err != nil {
		return nil, err
	}

	s.reportCache.Set(ctx, report)
	s.queueAnnotations(report, photos)

	if s.telegramBot != nil {
		if err := s.telegramBot.NotifyAnalysisComplete(report); err != nil {
			logrus.Errorf("Telegram notification failed: %v", err)
		}
	}

	return report, nil
}

func (s *analysisService) notifyFailed(inspectionID string, cause error) {
	if s.telegramBot == nil {
		return
	}
	if err := s.telegramBot.NotifyAnalysisFailed(inspectionID, cause); err != nil {
		logrus.Errorf("Telegram notification failed: %v", err)
	}
}

// runAnalysis выполняет последовательный цикл запросов: загрузка всех
// фото, запуск анализа, получение результатов, сохранение повреждений.
func (s *analysisService) runAnalysis(ctx context.Context, inspectionID string, photos []*entity.Photo) (*entity.DamageReport, error) {
	for _, photo := range photos {
		file, err := s.storage.Get(s.storage.OriginalPath(photo.ID))
		if err != nil {
			return nil, fmt.Errorf("не удалось открыть фото %s: %w", photo.ID, err)
		}

		_, err = s.backend.UploadPhoto(ctx, &analyzer.UploadRequest{
			InspectionID: inspectionID,
			PhotoID:      photo.ID,
			Side:         photo.Side,
			Stage:        photo.Stage,
			Filename:     photo.Filename,
			Data:         file,
		})
		file.Close()
		if err != nil {
			return nil, fmt.Errorf("загрузка фото %s не удалась: %w", photo.ID, err)
		}
	}

	if err := s.backend.Analyze(ctx, inspectionID); err != nil {
		return nil, fmt.Errorf("запуск анализа не удался: %w", err)
	}

	results, err := s.backend.FetchResults(ctx, inspectionID)
	if err != nil {
		return nil, fmt.Errorf("получение результатов не удалось: %w", err)
	}

	issues := mapIssues(results, photos)

	if err := s.issueRepo.ReplaceForInspection(ctx, inspectionID, issues); err != nil {
		return nil, fmt.Errorf("сохранение результатов не удалось: %w", err)
	}

	return &entity.DamageReport{
		InspectionID: inspectionID,
		Issues:       issues,
		TotalCost:    results.TotalCost,
		AnalyzedAt:   time.Now(),
	}, nil
}

// mapIssues оставляет только повреждения с известным photo id; бэкенд
// может вернуть регионы для фото, которых у осмотра уже нет.
func mapIssues(results *analyzer.AnalysisResults, photos []*entity.Photo) []*entity.Issue {
	known := make(map[string]bool, len(photos))
	for _, photo := range photos {
		known[photo.ID] = true
	}

	var issues []*entity.Issue
	for _, result := range results.Issues {
		if !known[result.PhotoID] {
			logrus.Warnf("Backend returned issue for unknown photo %s, skipping", result.PhotoID)
			continue
		}

		issue := &entity.Issue{
			ID:            result.ID,
			PhotoID:       result.PhotoID,
			Label:         result.Label,
			Confidence:    result.Confidence,
			Severity:      entity.IssueSeverity(result.Severity),
			EstimatedCost: result.EstimatedCost,
		}
		if issue.ID == "" {
			issue.ID = uuid.New().String()
		}
		if result.XMin != nil && result.YMin != nil && result.XMax != nil && result.YMax != nil {
			issue.Box = &entity.BoundingBox{
				XMin: *result.XMin,
				YMin: *result.YMin,
				XMax: *result.XMax,
				YMax: *result.YMax,
			}
		}

		issues = append(issues, issue)
	}

	return issues
}

// queueAnnotations публикует по задаче на каждое фото с регионами для
// отрисовки. Рендеринг асинхронный, фото завершаются независимо.
func (s *analysisService) queueAnnotations(report *entity.DamageReport, photos []*entity.Photo) {
	for _, photo := range photos {
		var regions []entity.AnnotationRegion
		for _, issue := range report.IssuesForPhoto(photo.ID) {
			if !issue.HasBox() {
				continue
			}
			regions = append(regions, entity.AnnotationRegion{
				Box:      *issue.Box,
				Severity: issue.Severity,
			})
		}
		if len(regions) == 0 {
			continue
		}

		task := entity.AnnotationTask{
			PhotoID:      photo.ID,
			InspectionID: report.InspectionID,
			Regions:      regions,
		}
		if err := s.producer.SendMessage(s.topic, task); err != nil {
			logrus.Errorf("Failed to queue annotation for photo %s: %v", photo.ID, err)
		}
	}
}

func (s *analysisService) GetReport(ctx context.Context, inspectionID string) (*entity.DamageReport, error) {
	if report, ok := s.reportCache.Get(ctx, inspectionID); ok {
		return report, nil
	}

	inspection, err := s.inspectionRepo.GetByID(ctx, inspectionID)
	if err != nil {
		return nil, err
	}
	if inspection.Status != entity.InspectionStatusCompleted {
		return nil, entity.ErrReportNotFound
	}

	issues, err := s.issueRepo.GetByInspectionID(ctx, inspectionID)
	if err != nil {
		return nil, err
	}

	report := &entity.DamageReport{
		InspectionID: inspectionID,
		Issues:       issues,
		TotalCost:    inspection.TotalCost,
		AnalyzedAt:   inspection.UpdatedAt,
	}
	s.reportCache.Set(ctx, report)

	return report, nil
}
