package entity

import "errors"

var (
	// Inspection errors
	ErrInspectionNotFound      = errors.New("inspection not found")
	ErrAnalysisInProgress      = errors.New("analysis is already in progress")
	ErrInspectionNoPhotos      = errors.New("inspection has no photos to analyze")
	ErrInvalidInspectionStatus = errors.New("invalid inspection status")

	// Photo errors
	ErrPhotoNotFound     = errors.New("photo not found")
	ErrInvalidPhotoType  = errors.New("invalid photo type")
	ErrInvalidPhotoSide  = errors.New("invalid photo side")
	ErrInvalidPhotoStage = errors.New("invalid photo stage")
	ErrPhotoTooLarge     = errors.New("photo exceeds maximum size")
	ErrNotAnnotated      = errors.New("annotated photo is not ready")

	// Analysis errors
	ErrReportNotFound      = errors.New("damage report not found")
	ErrAnalyzerUnavailable = errors.New("analyzer backend unavailable")

	// General errors
	ErrInvalidInput  = errors.New("invalid input")
	ErrDatabaseError = errors.New("database error")
)
