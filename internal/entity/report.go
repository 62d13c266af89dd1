package entity

import "time"

// DamageReport представляет объединённый результат анализа осмотра:
// все найденные бэкендом повреждения плюс сводка по стоимости.
type DamageReport struct {
	InspectionID string    `json:"inspection_id"`
	Issues       []*Issue  `json:"issues"`
	TotalCost    *float64  `json:"total_estimated_cost,omitempty"`
	AnalyzedAt   time.Time `json:"analyzed_at"`
}

// Total возвращает итоговую стоимость из сводки; если бэкенд её не
// вернул — сумму оценок по отдельным повреждениям.
func (r *DamageReport) Total() float64 {
	if r.TotalCost != nil {
		return *r.TotalCost
	}
	var sum float64
	for _, issue := range r.Issues {
		if issue.EstimatedCost != nil {
			sum += *issue.EstimatedCost
		}
	}
	return sum
}

// IssuesForPhoto возвращает повреждения одного фото
func (r *DamageReport) IssuesForPhoto(photoID string) []*Issue {
	var out []*Issue
	for _, issue := range r.Issues {
		if issue.PhotoID == photoID {
			out = append(out, issue)
		}
	}
	return out
}
