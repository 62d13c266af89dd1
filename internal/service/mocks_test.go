package service

import (
	"context"
	"sync"
	"time"

	"github.com/autoinspect/inspection-service/internal/entity"
	"github.com/autoinspect/inspection-service/internal/pkg/analyzer"
)

type fakeInspectionRepo struct {
	mu    sync.Mutex
	items map[string]*entity.Inspection
}

func newFakeInspectionRepo() *fakeInspectionRepo {
	return &fakeInspectionRepo{items: make(map[string]*entity.Inspection)}
}

func (r *fakeInspectionRepo) Create(ctx context.Context, inspection *entity.Inspection) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	inspection.CreatedAt = now
	inspection.UpdatedAt = now
	copied := *inspection
	r.items[inspection.ID] = &copied
	return nil
}

func (r *fakeInspectionRepo) GetByID(ctx context.Context, id string) (*entity.Inspection, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	inspection, ok := r.items[id]
	if !ok {
		return nil, entity.ErrInspectionNotFound
	}
	copied := *inspection
	return &copied, nil
}

func (r *fakeInspectionRepo) GetAll(ctx context.Context, limit, offset int) ([]*entity.Inspection, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Inspection
	for _, inspection := range r.items {
		copied := *inspection
		out = append(out, &copied)
	}
	return out, nil
}

func (r *fakeInspectionRepo) UpdateStatus(ctx context.Context, id string, status entity.InspectionStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	inspection, ok := r.items[id]
	if !ok {
		return entity.ErrInspectionNotFound
	}
	inspection.Status = status
	inspection.UpdatedAt = time.Now()
	return nil
}

func (r *fakeInspectionRepo) ClaimAnalysis(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	inspection, ok := r.items[id]
	if !ok {
		return entity.ErrInspectionNotFound
	}
	if inspection.Status == entity.InspectionStatusAnalyzing {
		return entity.ErrAnalysisInProgress
	}
	inspection.Status = entity.InspectionStatusAnalyzing
	inspection.UpdatedAt = time.Now()
	return nil
}

func (r *fakeInspectionRepo) CompleteAnalysis(ctx context.Context, id string, totalCost *float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	inspection, ok := r.items[id]
	if !ok {
		return entity.ErrInspectionNotFound
	}
	inspection.Status = entity.InspectionStatusCompleted
	inspection.TotalCost = totalCost
	inspection.UpdatedAt = time.Now()
	return nil
}

func (r *fakeInspectionRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return entity.ErrInspectionNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *fakeInspectionRepo) GetStale(ctx context.Context, status entity.InspectionStatus, before time.Time) ([]*entity.Inspection, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Inspection
	for _, inspection := range r.items {
		if inspection.Status == status && inspection.UpdatedAt.Before(before) {
			copied := *inspection
			out = append(out, &copied)
		}
	}
	return out, nil
}

type fakePhotoRepo struct {
	mu    sync.Mutex
	items map[string]*entity.Photo
}

func newFakePhotoRepo() *fakePhotoRepo {
	return &fakePhotoRepo{items: make(map[string]*entity.Photo)}
}

func (r *fakePhotoRepo) Create(ctx context.Context, photo *entity.Photo) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	photo.CreatedAt = time.Now()
	copied := *photo
	r.items[photo.ID] = &copied
	return nil
}

func (r *fakePhotoRepo) GetByID(ctx context.Context, id string) (*entity.Photo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	photo, ok := r.items[id]
	if !ok {
		return nil, entity.ErrPhotoNotFound
	}
	copied := *photo
	return &copied, nil
}

func (r *fakePhotoRepo) GetByInspectionID(ctx context.Context, inspectionID string) ([]*entity.Photo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Photo
	for _, photo := range r.items {
		if photo.InspectionID == inspectionID {
			copied := *photo
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakePhotoRepo) MarkAnnotated(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	photo, ok := r.items[id]
	if !ok {
		return entity.ErrPhotoNotFound
	}
	photo.Annotated = true
	return nil
}

func (r *fakePhotoRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return entity.ErrPhotoNotFound
	}
	delete(r.items, id)
	return nil
}

type fakeIssueRepo struct {
	mu     sync.Mutex
	issues map[string][]*entity.Issue // inspection id -> issues
}

func newFakeIssueRepo() *fakeIssueRepo {
	return &fakeIssueRepo{issues: make(map[string][]*entity.Issue)}
}

func (r *fakeIssueRepo) ReplaceForInspection(ctx context.Context, inspectionID string, issues []*entity.Issue) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.issues[inspectionID] = issues
	return nil
}

func (r *fakeIssueRepo) GetByPhotoID(ctx context.Context, photoID string) ([]*entity.Issue, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Issue
	for _, issues := range r.issues {
		for _, issue := range issues {
			if issue.PhotoID == photoID {
				out = append(out, issue)
			}
		}
	}
	return out, nil
}

func (r *fakeIssueRepo) GetByInspectionID(ctx context.Context, inspectionID string) ([]*entity.Issue, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.issues[inspectionID], nil
}

// fakeBackend records calls and replays configured results.
type fakeBackend struct {
	mu         sync.Mutex
	uploads    []*analyzer.UploadRequest
	analyzed   []string
	results    *analyzer.AnalysisResults
	uploadErr  error
	analyzeErr error
	fetchErr   error
}

func (b *fakeBackend) UploadPhoto(ctx context.Context, req *analyzer.UploadRequest) (*analyzer.UploadResult, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.uploadErr != nil {
		return nil, b.uploadErr
	}
	b.uploads = append(b.uploads, req)
	return &analyzer.UploadResult{RemoteID: req.PhotoID, Status: "received"}, nil
}

func (b *fakeBackend) Analyze(ctx context.Context, inspectionID string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.analyzeErr != nil {
		return b.analyzeErr
	}
	b.analyzed = append(b.analyzed, inspectionID)
	return nil
}

func (b *fakeBackend) FetchResults(ctx context.Context, inspectionID string) (*analyzer.AnalysisResults, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.fetchErr != nil {
		return nil, b.fetchErr
	}
	if b.results == nil {
		return &analyzer.AnalysisResults{}, nil
	}
	return b.results, nil
}

type fakeProducer struct {
	mu       sync.Mutex
	messages []interface{}
}

func (p *fakeProducer) SendMessage(topic string, message interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.messages = append(p.messages, message)
	return nil
}

func (p *fakeProducer) Close() error { return nil }
