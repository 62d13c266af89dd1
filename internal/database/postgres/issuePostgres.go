package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/autoinspect/inspection-service/internal/entity"
)

type issueRepository struct {
	db *sql.DB
}

func NewIssueRepository(db *sql.DB) IssueRepository {
	return &issueRepository{db: db}
}

func (r *issueRepository) ReplaceForInspection(ctx context.Context, inspectionID string, issues []*entity.Issue) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	deleteQuery := `
		DELETE FROM issues
		WHERE photo_id IN (SELECT id FROM photos WHERE inspection_id = $1)
	`
	if _, err := tx.ExecContext(ctx, deleteQuery, inspectionID); err != nil {
		return err
	}

	insertQuery := `
		INSERT INTO issues (id, photo_id, label, confidence, severity, estimated_cost, xmin, ymin, xmax, ymax, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	now := time.Now()
	for _, issue := range issues {
		issue.CreatedAt = now

		var xmin, ymin, xmax, ymax interface{}
		if issue.Box != nil {
			xmin, ymin, xmax, ymax = issue.Box.XMin, issue.Box.YMin, issue.Box.XMax, issue.Box.YMax
		}

		_, err := tx.ExecContext(ctx, insertQuery,
			issue.ID,
			issue.PhotoID,
			issue.Label,
			issue.Confidence,
			issue.Severity,
			issue.EstimatedCost,
			xmin, ymin, xmax, ymax,
			issue.CreatedAt,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *issueRepository) GetByPhotoID(ctx context.Context, photoID string) ([]*entity.Issue, error) {
	query := `
		SELECT id, photo_id, label, confidence, severity, estimated_cost, xmin, ymin, xmax, ymax, created_at
		FROM issues
		WHERE photo_id = $1
		ORDER BY created_at, id
	`

	rows, err := r.db.QueryContext(ctx, query, photoID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanIssues(rows)
}

func (r *issueRepository) GetByInspectionID(ctx context.Context, inspectionID string) ([]*entity.Issue, error) {
	query := `
		SELECT i.id, i.photo_id, i.label, i.confidence, i.severity, i.estimated_cost,
			i.xmin, i.ymin, i.xmax, i.ymax, i.created_at
		FROM issues i
		JOIN photos p ON i.photo_id = p.id
		WHERE p.inspection_id = $1
		ORDER BY i.created_at, i.id
	`

	rows, err := r.db.QueryContext(ctx, query, inspectionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanIssues(rows)
}

func scanIssues(rows *sql.Rows) ([]*entity.Issue, error) {
	var issues []*entity.Issue
	for rows.Next() {
		var issue entity.Issue
		var severity sql.NullString
		var xmin, ymin, xmax, ymax sql.NullFloat64

		err := rows.Scan(
			&issue.ID,
			&issue.PhotoID,
			&issue.Label,
			&issue.Confidence,
			&severity,
			&issue.EstimatedCost,
			&xmin, &ymin, &xmax, &ymax,
			&issue.CreatedAt,
		)
		if err != nil {
			return nil, err
		}

		if severity.Valid {
			issue.Severity = entity.IssueSeverity(severity.String)
		}
		if xmin.Valid && ymin.Valid && xmax.Valid && ymax.Valid {
			issue.Box = &entity.BoundingBox{
				XMin: xmin.Float64,
				YMin: ymin.Float64,
				XMax: xmax.Float64,
				YMax: ymax.Float64,
			}
		}

		issues = append(issues, &issue)
	}

	return issues, rows.Err()
}
