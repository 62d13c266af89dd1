package service

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	repository "github.com/autoinspect/inspection-service/internal/database/postgres"
	"github.com/autoinspect/inspection-service/internal/entity"
	"github.com/autoinspect/inspection-service/internal/pkg/annotator"
	"github.com/autoinspect/inspection-service/internal/pkg/storage"
)

type photoService struct {
	photoRepo      repository.PhotoRepository
	inspectionRepo repository.InspectionRepository
	storage        storage.PhotoStorage
	annotator      annotator.Annotator
	thumbWidth     int
	thumbHeight    int
	maxPhotoSize   int64
}

func NewPhotoService(
	photoRepo repository.PhotoRepository,
	inspectionRepo repository.InspectionRepository,
	store storage.PhotoStorage,
	a annotator.Annotator,
	thumbWidth, thumbHeight int,
	maxPhotoSize int64,
) PhotoService {
	if thumbWidth == 0 {
		thumbWidth = 320
	}
	if thumbHeight == 0 {
		thumbHeight = 240
	}

	return &photoService{
		photoRepo:      photoRepo,
		inspectionRepo: inspectionRepo,
		storage:        store,
		annotator:      a,
		thumbWidth:     thumbWidth,
		thumbHeight:    thumbHeight,
		maxPhotoSize:   maxPhotoSize,
	}
}

func (s *photoService) UploadPhoto(ctx context.Context, req *UploadPhotoRequest) (*entity.Photo, error) {
	if !req.Side.IsValid() {
		return nil, entity.ErrInvalidPhotoSide
	}
	if !req.Stage.IsValid() {
		return nil, entity.ErrInvalidPhotoStage
	}
	if s.maxPhotoSize > 0 && req.File.Size > s.maxPhotoSize {
		return nil, entity.ErrPhotoTooLarge
	}

	// Осмотр должен существовать до загрузки фото
	if _, err := s.inspectionRepo.GetByID(ctx, req.InspectionID); err != nil {
		return nil, err
	}

	src, err := req.File.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return nil, err
	}

	photo := &entity.Photo{
		ID:           uuid.New().String(),
		InspectionID: req.InspectionID,
		Side:         req.Side,
		Stage:        req.Stage,
		Filename:     req.File.Filename,
	}

	if err := s.storage.Save(s.storage.OriginalPath(photo.ID), bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("не удалось сохранить файл: %w", err)
	}

	if err := s.photoRepo.Create(ctx, photo); err != nil {
		// Храним файлы согласованно с базой
		if delErr := s.storage.Delete(s.storage.OriginalPath(photo.ID)); delErr != nil {
			logrus.Errorf("Failed to remove orphaned photo file: %v", delErr)
		}
		return nil, err
	}

	s.generateThumbnail(photo, data)

	return photo, nil
}

// generateThumbnail работает по принципу best effort: фото без
// миниатюры остаётся рабочим, дашборд берёт оригинал.
func (s *photoService) generateThumbnail(photo *entity.Photo, data []byte) {
	thumb, format, err := s.annotator.Thumbnail(bytes.NewReader(data), photo.Filename, s.thumbWidth, s.thumbHeight)
	if err != nil {
		logrus.Errorf("Failed to generate thumbnail for %s: %v", photo.ID, err)
		return
	}

	var buf bytes.Buffer
	if err := s.annotator.Encode(&buf, thumb, format); err != nil {
		logrus.Errorf("Failed to encode thumbnail for %s: %v", photo.ID, err)
		return
	}

	if err := s.storage.Save(s.storage.ThumbnailPath(photo.ID), &buf); err != nil {
		logrus.Errorf("Failed to save thumbnail for %s: %v", photo.ID, err)
	}
}

func (s *photoService) GetPhoto(ctx context.Context, id string) (*entity.Photo, error) {
	return s.photoRepo.GetByID(ctx, id)
}

func (s *photoService) GetOriginalFile(ctx context.Context, id string) (io.ReadCloser, *entity.Photo, error) {
	return s.openFile(ctx, id, s.storage.OriginalPath(id), false)
}

func (s *photoService) GetThumbnailFile(ctx context.Context, id string) (io.ReadCloser, *entity.Photo, error) {
	// Миниатюры best effort: при отсутствии отдаём оригинал
	if !s.storage.Exists(s.storage.ThumbnailPath(id)) {
		return s.openFile(ctx, id, s.storage.OriginalPath(id), false)
	}
	return s.openFile(ctx, id, s.storage.ThumbnailPath(id), false)
}

func (s *photoService) GetAnnotatedFile(ctx context.Context, id string) (io.ReadCloser, *entity.Photo, error) {
	return s.openFile(ctx, id, s.storage.AnnotatedPath(id), true)
}

func (s *photoService) openFile(ctx context.Context, id, path string, annotated bool) (io.ReadCloser, *entity.Photo, error) {
	photo, err := s.photoRepo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	if annotated && !photo.Annotated {
		return nil, nil, entity.ErrNotAnnotated
	}

	reader, err := s.storage.Get(path)
	if err != nil {
		return nil, nil, entity.ErrPhotoNotFound
	}

	return reader, photo, nil
}

func (s *photoService) DeletePhoto(ctx context.Context, id string) error {
	if err := s.photoRepo.Delete(ctx, id); err != nil {
		return err
	}

	for _, path := range []string{
		s.storage.OriginalPath(id),
		s.storage.ThumbnailPath(id),
		s.storage.AnnotatedPath(id),
	} {
		if err := s.storage.Delete(path); err != nil && s.storage.Exists(path) {
			logrus.Errorf("Failed to delete photo file %s: %v", path, err)
		}
	}

	return nil
}
