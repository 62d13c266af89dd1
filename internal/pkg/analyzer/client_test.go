package analyzer

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/autoinspect/inspection-service/config"
	"github.com/autoinspect/inspection-service/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewClient(&config.AnalyzerConfig{
		BaseURL: server.URL,
		APIKey:  "test-key",
		Timeout: 5 * time.Second,
	})
	return client, server
}

func TestUploadPhoto(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/inspections/insp-1/photos", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "photo-1", r.FormValue("photo_id"))
		assert.Equal(t, "front", r.FormValue("side"))
		assert.Equal(t, "pickup", r.FormValue("type"))

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "front.jpg", header.Filename)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"remote-1","status":"received"}`))
	})

	result, err := client.UploadPhoto(context.Background(), &UploadRequest{
		InspectionID: "insp-1",
		PhotoID:      "photo-1",
		Side:         entity.PhotoSideFront,
		Stage:        entity.PhotoStagePickup,
		Filename:     "front.jpg",
		Data:         strings.NewReader("fake jpeg"),
	})

	require.NoError(t, err)
	assert.Equal(t, "remote-1", result.RemoteID)
	assert.Equal(t, "received", result.Status)
}

func TestAnalyze(t *testing.T) {
	var called bool
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/inspections/insp-1/analyze", r.URL.Path)
		w.WriteHeader(http.StatusAccepted)
	})

	require.NoError(t, client.Analyze(context.Background(), "insp-1"))
	assert.True(t, called)
}

func TestFetchResults(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/inspections/insp-1/results", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"issues": [
				{"id":"i1","photo_id":"p1","label":"scratch","confidence":0.91,
				 "severity":"minor","estimated_cost":120.5,
				 "xmin":0.1,"ymin":0.2,"xmax":0.3,"ymax":0.4},
				{"id":"i2","photo_id":"p2","label":"dent"}
			],
			"total_estimated_cost": 350.0
		}`))
	})

	results, err := client.FetchResults(context.Background(), "insp-1")
	require.NoError(t, err)
	require.Len(t, results.Issues, 2)

	first := results.Issues[0]
	assert.Equal(t, "scratch", first.Label)
	require.NotNil(t, first.Confidence)
	assert.InDelta(t, 0.91, *first.Confidence, 1e-9)
	require.NotNil(t, first.XMin)
	assert.InDelta(t, 0.1, *first.XMin, 1e-9)

	// optional fields stay nil when the backend omits them
	second := results.Issues[1]
	assert.Nil(t, second.Confidence)
	assert.Nil(t, second.XMin)

	require.NotNil(t, results.TotalCost)
	assert.InDelta(t, 350.0, *results.TotalCost, 1e-9)
}

func TestErrorStatus(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "inspection unknown", http.StatusNotFound)
	})

	_, err := client.FetchResults(context.Background(), "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 404")
}

func TestUnreachableBackend(t *testing.T) {
	client := NewClient(&config.AnalyzerConfig{
		BaseURL: "http://127.0.0.1:1",
		Timeout: 500 * time.Millisecond,
	})

	err := client.Analyze(context.Background(), "insp-1")
	require.Error(t, err)
	assert.ErrorIs(t, err, entity.ErrAnalyzerUnavailable)
}

func TestMockClientFabricatesIssues(t *testing.T) {
	client := NewMockClient()

	_, err := client.UploadPhoto(context.Background(), &UploadRequest{
		InspectionID: "insp-1",
		PhotoID:      "p1",
		Side:         entity.PhotoSideLeft,
		Stage:        entity.PhotoStageReturn,
		Filename:     "left.jpg",
		Data:         strings.NewReader("data"),
	})
	require.NoError(t, err)

	require.NoError(t, client.Analyze(context.Background(), "insp-1"))

	results, err := client.FetchResults(context.Background(), "insp-1")
	require.NoError(t, err)
	require.Len(t, results.Issues, 1)
	assert.Equal(t, "p1", results.Issues[0].PhotoID)
	assert.NotNil(t, results.Issues[0].XMin)
}
