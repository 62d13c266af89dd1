package postgres

import (
	"database/sql"
	"fmt"
	"log"

	"github.com/autoinspect/inspection-service/config"

	_ "github.com/lib/pq"
)

func NewPostgresDB(cfg *config.DatabaseConfig) (*sql.DB, error) {
	connStr := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode,
	)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Println("Successfully connected to PostgreSQL")
	return db, nil
}

func RunMigrations(db *sql.DB) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS inspections (
			id UUID PRIMARY KEY,
			vehicle_plate VARCHAR(20) NOT NULL DEFAULT '',
			notes TEXT NOT NULL DEFAULT '',
			status VARCHAR(20) NOT NULL DEFAULT 'created',
			total_cost DOUBLE PRECISION,
			scheduled_at TIMESTAMP,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS photos (
			id UUID PRIMARY KEY,
			inspection_id UUID REFERENCES inspections(id) ON DELETE CASCADE,
			side VARCHAR(20) NOT NULL,
			stage VARCHAR(10) NOT NULL,
			filename VARCHAR(255) NOT NULL,
			annotated BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS issues (
			id UUID PRIMARY KEY,
			photo_id UUID REFERENCES photos(id) ON DELETE CASCADE,
			label VARCHAR(100) NOT NULL,
			confidence DOUBLE PRECISION,
			severity VARCHAR(20) NOT NULL DEFAULT '',
			estimated_cost DOUBLE PRECISION,
			xmin DOUBLE PRECISION,
			ymin DOUBLE PRECISION,
			xmax DOUBLE PRECISION,
			ymax DOUBLE PRECISION,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,

		// Indexes
		`CREATE INDEX IF NOT EXISTS idx_photos_inspection_id ON photos(inspection_id)`,
		`CREATE INDEX IF NOT EXISTS idx_issues_photo_id ON issues(photo_id)`,
		`CREATE INDEX IF NOT EXISTS idx_inspections_status ON inspections(status)`,
		`CREATE INDEX IF NOT EXISTS idx_inspections_updated_at ON inspections(updated_at)`,
	}

	for _, migration := range migrations {
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("failed to execute migration: %v", err)
		}
	}

	log.Println("Database migrations completed successfully")
	return nil
}
