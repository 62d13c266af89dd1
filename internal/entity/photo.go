package entity

import (
	"time"
)

type PhotoSide string

const (
	PhotoSideFront    PhotoSide = "front"
	PhotoSideRear     PhotoSide = "rear"
	PhotoSideLeft     PhotoSide = "left"
	PhotoSideRight    PhotoSide = "right"
	PhotoSideInterior PhotoSide = "interior"
)

func (s PhotoSide) IsValid() bool {
	switch s {
	case PhotoSideFront, PhotoSideRear, PhotoSideLeft, PhotoSideRight, PhotoSideInterior:
		return true
	}
	return false
}

type PhotoStage string

const (
	PhotoStagePickup PhotoStage = "pickup"
	PhotoStageReturn PhotoStage = "return"
)

func (s PhotoStage) IsValid() bool {
	return s == PhotoStagePickup || s == PhotoStageReturn
}

type Photo struct {
	ID           string     `json:"id" db:"id"`
	InspectionID string     `json:"inspection_id" db:"inspection_id"`
	Side         PhotoSide  `json:"side" db:"side"`
	Stage        PhotoStage `json:"stage" db:"stage"`
	Filename     string     `json:"filename" db:"filename"`
	URL          string     `json:"url"`
	ThumbnailURL string     `json:"thumbnail_url,omitempty"`
	AnnotatedURL string     `json:"annotated_url,omitempty"`
	Annotated    bool       `json:"annotated" db:"annotated"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`

	// Повреждения этого фото; привязываются по photo id при сборке отчёта
	Issues []*Issue `json:"issues"`
}

type UploadPhotoResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}
