package entity

import (
	"time"
)

type InspectionStatus string

const (
	InspectionStatusCreated   InspectionStatus = "created"
	InspectionStatusAnalyzing InspectionStatus = "analyzing"
	InspectionStatusCompleted InspectionStatus = "completed"
	InspectionStatusFailed    InspectionStatus = "failed"
)

func (s InspectionStatus) IsValid() bool {
	switch s {
	case InspectionStatusCreated, InspectionStatusAnalyzing,
		InspectionStatusCompleted, InspectionStatusFailed:
		return true
	}
	return false
}

type Inspection struct {
	ID           string           `json:"id" db:"id"`
	VehiclePlate string           `json:"vehicle_plate" db:"vehicle_plate"`
	Notes        string           `json:"notes" db:"notes"`
	Status       InspectionStatus `json:"status" db:"status"`
	ScheduledAt  *CustomTime      `json:"scheduled_at,omitempty" db:"scheduled_at"`
	CreatedAt    time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at" db:"updated_at"`

	// TotalCost хранит итоговую оценку из отчёта бэкенда; nil, пока
	// анализ не завершён или бэкенд не вернул сводку.
	TotalCost *float64 `json:"-" db:"total_cost"`
}

// InspectionDetails представляет осмотр для дашборда: запись, фото с
// привязанными повреждениями и итоговые суммы.
type InspectionDetails struct {
	Inspection
	Photos     []*Photo `json:"photos"`
	IssueCount int      `json:"issue_count"`
	TotalCost  float64  `json:"total_cost"`
}

// CanAnalyze сообщает, можно ли запускать новый анализ. Идущий анализ
// блокирует повторный запуск: конкурентные запросы отклоняются, а не
// ставятся в очередь. Атомарность перехода обеспечивает репозиторий.
func (i *Inspection) CanAnalyze() bool {
	return i.Status != InspectionStatusAnalyzing
}
