// Package analyzer is the HTTP client for the external damage-analysis
// backend. The backend owns the actual detection and cost estimation;
// this client only uploads photos, triggers a run and fetches results.
package analyzer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/autoinspect/inspection-service/config"
	"github.com/autoinspect/inspection-service/internal/entity"
)

type Client interface {
	UploadPhoto(ctx context.Context, req *UploadRequest) (*UploadResult, error)
	Analyze(ctx context.Context, inspectionID string) error
	FetchResults(ctx context.Context, inspectionID string) (*AnalysisResults, error)
}

// UploadRequest carries one photo to the backend, tagged with the
// inspection it belongs to and how it was taken.
type UploadRequest struct {
	InspectionID string
	PhotoID      string
	Side         entity.PhotoSide
	Stage        entity.PhotoStage
	Filename     string
	Data         io.Reader
}

type UploadResult struct {
	RemoteID string `json:"id"`
	Status   string `json:"status"`
}

// AnalysisResults mirrors the backend results payload: one issue per
// detected damage region plus an optional cost summary.
type AnalysisResults struct {
	Issues    []ResultIssue `json:"issues"`
	TotalCost *float64      `json:"total_estimated_cost,omitempty"`
}

type ResultIssue struct {
	ID            string   `json:"id"`
	PhotoID       string   `json:"photo_id"`
	Label         string   `json:"label"`
	Confidence    *float64 `json:"confidence,omitempty"`
	Severity      string   `json:"severity,omitempty"`
	EstimatedCost *float64 `json:"estimated_cost,omitempty"`
	XMin          *float64 `json:"xmin,omitempty"`
	YMin          *float64 `json:"ymin,omitempty"`
	XMax          *float64 `json:"xmax,omitempty"`
	YMax          *float64 `json:"ymax,omitempty"`
}

type httpClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewClient(cfg *config.AnalyzerConfig) Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}

	return &httpClient{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				ResponseHeaderTimeout: timeout * 2 / 3,
				TLSHandshakeTimeout:   timeout / 3,
				MaxIdleConns:          100,
				MaxIdleConnsPerHost:   100,
			},
		},
	}
}

func (c *httpClient) UploadPhoto(ctx context.Context, req *UploadRequest) (*UploadResult, error) {
	var requestBody bytes.Buffer
	multipartWriter := multipart.NewWriter(&requestBody)

	if err := multipartWriter.WriteField("photo_id", req.PhotoID); err != nil {
		return nil, fmt.Errorf("error writing photo_id field: %v", err)
	}
	if err := multipartWriter.WriteField("side", string(req.Side)); err != nil {
		return nil, fmt.Errorf("error writing side field: %v", err)
	}
	if err := multipartWriter.WriteField("type", string(req.Stage)); err != nil {
		return nil, fmt.Errorf("error writing type field: %v", err)
	}

	filePart, err := multipartWriter.CreateFormFile("file", req.Filename)
	if err != nil {
		return nil, fmt.Errorf("error creating form file: %v", err)
	}

	if _, err := io.Copy(filePart, req.Data); err != nil {
		return nil, fmt.Errorf("error writing photo data: %v", err)
	}

	if err := multipartWriter.Close(); err != nil {
		return nil, fmt.Errorf("error closing multipart writer: %v", err)
	}

	url := fmt.Sprintf("%s/inspections/%s/photos", c.baseURL, req.InspectionID)
	request, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &requestBody)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %v", err)
	}
	request.Header.Set("Content-Type", multipartWriter.FormDataContentType())

	var result UploadResult
	if err := c.do(request, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *httpClient) Analyze(ctx context.Context, inspectionID string) error {
	url := fmt.Sprintf("%s/inspections/%s/analyze", c.baseURL, inspectionID)
	request, err := http.NewRequestWithContext(ctx, http.MethodPost, url, nil)
	if err != nil {
		return fmt.Errorf("error creating request: %v", err)
	}

	return c.do(request, nil)
}

func (c *httpClient) FetchResults(ctx context.Context, inspectionID string) (*AnalysisResults, error) {
	url := fmt.Sprintf("%s/inspections/%s/results", c.baseURL, inspectionID)
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %v", err)
	}

	var results AnalysisResults
	if err := c.do(request, &results); err != nil {
		return nil, err
	}
	return &results, nil
}

func (c *httpClient) do(request *http.Request, out interface{}) error {
	request.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		request.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	response, err := c.client.Do(request)
	if err != nil {
		return fmt.Errorf("%w: %v", entity.ErrAnalyzerUnavailable, err)
	}
	defer response.Body.Close()

	responseBody, err := io.ReadAll(response.Body)
	if err != nil {
		return fmt.Errorf("error reading response: %v", err)
	}

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return fmt.Errorf("analyzer error (status %d): %s", response.StatusCode, string(responseBody))
	}

	if out == nil {
		return nil
	}
	return json.Unmarshal(responseBody, out)
}
