package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/autoinspect/inspection-service/internal/entity"
)

type inspectionRepository struct {
	db *sql.DB
}

func NewInspectionRepository(db *sql.DB) InspectionRepository {
	return &inspectionRepository{db: db}
}

func (r *inspectionRepository) Create(ctx context.Context, inspection *entity.Inspection) error {
	query := `
		INSERT INTO inspections (id, vehicle_plate, notes, status, scheduled_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	now := time.Now()
	inspection.CreatedAt = now
	inspection.UpdatedAt = now

	var scheduledAt interface{}
	if inspection.ScheduledAt != nil {
		scheduledAt = inspection.ScheduledAt.Time
	}

	_, err := r.db.ExecContext(ctx, query,
		inspection.ID,
		inspection.VehiclePlate,
		inspection.Notes,
		inspection.Status,
		scheduledAt,
		inspection.CreatedAt,
		inspection.UpdatedAt,
	)
	return err
}

func (r *inspectionRepository) GetByID(ctx context.Context, id string) (*entity.Inspection, error) {
	query := `
		SELECT id, vehicle_plate, notes, status, total_cost, scheduled_at, created_at, updated_at
		FROM inspections
		WHERE id = $1
	`

	var inspection entity.Inspection
	var scheduledAt sql.NullTime
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&inspection.ID,
		&inspection.VehiclePlate,
		&inspection.Notes,
		&inspection.Status,
		&inspection.TotalCost,
		&scheduledAt,
		&inspection.CreatedAt,
		&inspection.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entity.ErrInspectionNotFound
		}
		return nil, err
	}

	if scheduledAt.Valid {
		inspection.ScheduledAt = &entity.CustomTime{Time: scheduledAt.Time}
	}

	return &inspection, nil
}

func (r *inspectionRepository) GetAll(ctx context.Context, limit, offset int) ([]*entity.Inspection, error) {
	query := `
		SELECT id, vehicle_plate, notes, status, total_cost, scheduled_at, created_at, updated_at
		FROM inspections
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var inspections []*entity.Inspection
	for rows.Next() {
		var inspection entity.Inspection
		var scheduledAt sql.NullTime
		err := rows.Scan(
			&inspection.ID,
			&inspection.VehiclePlate,
			&inspection.Notes,
			&inspection.Status,
			&inspection.TotalCost,
			&scheduledAt,
			&inspection.CreatedAt,
			&inspection.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		if scheduledAt.Valid {
			inspection.ScheduledAt = &entity.CustomTime{Time: scheduledAt.Time}
		}
		inspections = append(inspections, &inspection)
	}

	return inspections, rows.Err()
}

func (r *inspectionRepository) UpdateStatus(ctx context.Context, id string, status entity.InspectionStatus) error {
	query := `
		UPDATE inspections
		SET status = $1, updated_at = $2
		WHERE id = $3
	`

	result, err := r.db.ExecContext(ctx, query, status, time.Now(), id)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return entity.ErrInspectionNotFound
	}

	return nil
}

func (r *inspectionRepository) ClaimAnalysis(ctx context.Context, id string) error {
	query := `
		UPDATE inspections
		SET status = $1, updated_at = $2
		WHERE id = $3 AND status <> $1
	`

	result, err := r.db.ExecContext(ctx, query, entity.InspectionStatusAnalyzing, time.Now(), id)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		// Строка либо отсутствует, либо уже в статусе analyzing
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
		return entity.ErrAnalysisInProgress
	}

	return nil
}

func (r *inspectionRepository) CompleteAnalysis(ctx context.Context, id string, totalCost *float64) error {
	query := `
		UPDATE inspections
		SET status = $1, total_cost = $2, updated_at = $3
		WHERE id = $4
	`

	result, err := r.db.ExecContext(ctx, query, entity.InspectionStatusCompleted, totalCost, time.Now(), id)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return entity.ErrInspectionNotFound
	}

	return nil
}

func (r *inspectionRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM inspections WHERE id = $1`, id)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return entity.ErrInspectionNotFound
	}

	return nil
}

func (r *inspectionRepository) GetStale(ctx context.Context, status entity.InspectionStatus, before time.Time) ([]*entity.Inspection, error) {
	query := `
		SELECT id, vehicle_plate, notes, status, total_cost, scheduled_at, created_at, updated_at
		FROM inspections
		WHERE status = $1 AND updated_at < $2
		ORDER BY updated_at
	`

	rows, err := r.db.QueryContext(ctx, query, status, before)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var inspections []*entity.Inspection
	for rows.Next() {
		var inspection entity.Inspection
		var scheduledAt sql.NullTime
		err := rows.Scan(
			&inspection.ID,
			&inspection.VehiclePlate,
			&inspection.Notes,
			&inspection.Status,
			&inspection.TotalCost,
			&scheduledAt,
			&inspection.CreatedAt,
			&inspection.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		if scheduledAt.Valid {
			inspection.ScheduledAt = &entity.CustomTime{Time: scheduledAt.Time}
		}
		inspections = append(inspections, &inspection)
	}

	return inspections, rows.Err()
}
