package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/autoinspect/inspection-service/internal/entity"
)

type photoRepository struct {
	db *sql.DB
}

func NewPhotoRepository(db *sql.DB) PhotoRepository {
	return &photoRepository{db: db}
}

func (r *photoRepository) Create(ctx context.Context, photo *entity.Photo) error {
	query := `
		INSERT INTO photos (id, inspection_id, side, stage, filename, annotated, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	photo.CreatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		photo.ID,
		photo.InspectionID,
		photo.Side,
		photo.Stage,
		photo.Filename,
		photo.Annotated,
		photo.CreatedAt,
	)
	return err
}

func (r *photoRepository) GetByID(ctx context.Context, id string) (*entity.Photo, error) {
	query := `
		SELECT id, inspection_id, side, stage, filename, annotated, created_at
		FROM photos
		WHERE id = $1
	`

	var photo entity.Photo
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&photo.ID,
		&photo.InspectionID,
		&photo.Side,
		&photo.Stage,
		&photo.Filename,
		&photo.Annotated,
		&photo.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entity.ErrPhotoNotFound
		}
		return nil, err
	}

	return &photo, nil
}

func (r *photoRepository) GetByInspectionID(ctx context.Context, inspectionID string) ([]*entity.Photo, error) {
	query := `
		SELECT id, inspection_id, side, stage, filename, annotated, created_at
		FROM photos
		WHERE inspection_id = $1
		ORDER BY created_at
	`

	rows, err := r.db.QueryContext(ctx, query, inspectionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var photos []*entity.Photo
	for rows.Next() {
		var photo entity.Photo
		err := rows.Scan(
			&photo.ID,
			&photo.InspectionID,
			&photo.Side,
			&photo.Stage,
			&photo.Filename,
			&photo.Annotated,
			&photo.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		photos = append(photos, &photo)
	}

	return photos, rows.Err()
}

func (r *photoRepository) MarkAnnotated(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE photos SET annotated = TRUE WHERE id = $1`, id)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return entity.ErrPhotoNotFound
	}

	return nil
}

func (r *photoRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM photos WHERE id = $1`, id)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return entity.ErrPhotoNotFound
	}

	return nil
}
