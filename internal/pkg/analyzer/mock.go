package analyzer

import (
	"context"
	"sync"

	"github.com/autoinspect/inspection-service/internal/entity"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Mock client для работы без analyzer backend. It fabricates one issue
// per uploaded photo so the dashboard flow stays usable in development.
type mockClient struct {
	mu     sync.Mutex
	photos map[string][]string // inspection id -> photo ids
}

func NewMockClient() Client {
	logrus.Warn("Analyzer base URL not configured, using mock analyzer")
	return &mockClient{photos: make(map[string][]string)}
}

func (m *mockClient) UploadPhoto(ctx context.Context, req *UploadRequest) (*UploadResult, error) {
	m.mu.Lock()
	m.photos[req.InspectionID] = append(m.photos[req.InspectionID], req.PhotoID)
	m.mu.Unlock()

	return &UploadResult{RemoteID: req.PhotoID, Status: "received"}, nil
}

func (m *mockClient) Analyze(ctx context.Context, inspectionID string) error {
	return nil
}

func (m *mockClient) FetchResults(ctx context.Context, inspectionID string) (*AnalysisResults, error) {
	m.mu.Lock()
	photoIDs := m.photos[inspectionID]
	m.mu.Unlock()

	confidence := 0.87
	cost := 120.0
	box := entity.BoundingBox{XMin: 0.35, YMin: 0.45, XMax: 0.55, YMax: 0.6}

	results := &AnalysisResults{}
	for _, photoID := range photoIDs {
		results.Issues = append(results.Issues, ResultIssue{
			ID:            uuid.New().String(),
			PhotoID:       photoID,
			Label:         "scratch",
			Confidence:    &confidence,
			Severity:      string(entity.IssueSeverityMinor),
			EstimatedCost: &cost,
			XMin:          &box.XMin,
			YMin:          &box.YMin,
			XMax:          &box.XMax,
			YMax:          &box.YMax,
		})
	}

	return results, nil
}
