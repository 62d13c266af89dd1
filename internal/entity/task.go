package entity

// AnnotationRegion представляет один регион для выделения на фото
type AnnotationRegion struct {
	Box      BoundingBox   `json:"box"`
	Severity IssueSeverity `json:"severity,omitempty"`
}

// AnnotationTask представляет задачу на отрисовку оверлея для одного
// фото. Задачи независимы: каждая читает и пишет только файлы своего
// фото.
type AnnotationTask struct {
	PhotoID      string             `json:"photo_id"`
	InspectionID string             `json:"inspection_id"`
	Regions      []AnnotationRegion `json:"regions"`
}
