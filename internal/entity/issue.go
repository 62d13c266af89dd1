package entity

import (
	"time"
)

// BoundingBox представляет регион повреждения в нормализованных
// координатах изображения, каждая компонента в [0,1].
type BoundingBox struct {
	XMin float64 `json:"xmin"`
	YMin float64 `json:"ymin"`
	XMax float64 `json:"xmax"`
	YMax float64 `json:"ymax"`
}

func (b BoundingBox) Width() float64 {
	return b.XMax - b.XMin
}

func (b BoundingBox) Height() float64 {
	return b.YMax - b.YMin
}

// Circle возвращает круг, аппроксимирующий регион: центр — середина
// рамки, радиус — половина большей стороны. Значения остаются
// нормализованными, при отрисовке они масштабируются размером фото.
func (b BoundingBox) Circle() (cx, cy, r float64) {
	cx = (b.XMin + b.XMax) / 2
	cy = (b.YMin + b.YMax) / 2
	w, h := b.Width(), b.Height()
	if w > h {
		r = w / 2
	} else {
		r = h / 2
	}
	return cx, cy, r
}

type IssueSeverity string

const (
	IssueSeverityMinor    IssueSeverity = "minor"
	IssueSeverityModerate IssueSeverity = "moderate"
	IssueSeveritySevere   IssueSeverity = "severe"
)

type Issue struct {
	ID            string        `json:"id" db:"id"`
	PhotoID       string        `json:"photo_id" db:"photo_id"`
	Label         string        `json:"label" db:"label"`
	Confidence    *float64      `json:"confidence,omitempty" db:"confidence"`
	Severity      IssueSeverity `json:"severity,omitempty" db:"severity"`
	EstimatedCost *float64      `json:"estimated_cost,omitempty" db:"estimated_cost"`
	Box           *BoundingBox  `json:"box,omitempty"`
	CreatedAt     time.Time     `json:"created_at" db:"created_at"`
}

// HasBox сообщает, есть ли у повреждения регион для отрисовки.
// Повреждение без региона попадает в отчёт, но не даёт оверлея.
func (i *Issue) HasBox() bool {
	return i.Box != nil
}
