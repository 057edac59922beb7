package docai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"invoscan/internal/config"
	"invoscan/internal/port"
)

const defaultMaxDocTypes = 5

// Client calls the document-AI service over HTTP. It is constructed once
// and injected wherever analysis is needed; tests substitute a fake via
// port.DocumentAnalyzer.
type Client struct {
	endpoint    string
	apiKey      string
	maxDocTypes int
	client      *http.Client
}

// NewClient creates a document-AI client from config.
func NewClient(cfg *config.DocAIConfig) *Client {
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	maxDocTypes := cfg.MaxDocTypes
	if maxDocTypes <= 0 {
		maxDocTypes = defaultMaxDocTypes
	}
	return &Client{
		endpoint:    cfg.Endpoint,
		apiKey:      cfg.APIKey,
		maxDocTypes: maxDocTypes,
		client:      &http.Client{Timeout: timeout},
	}
}

// Analyze submits the document for key-value extraction and classification
// and decodes the hierarchical result. A single call, no retry; transport
// and non-2xx failures surface to the caller unchanged.
func (c *Client) Analyze(ctx context.Context, input port.AnalyzeInput) (*port.AnalysisResult, error) {
	reqBody := buildAnalyzeRequest(input.FileBytes, c.maxDocTypes)

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshaling analyze request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling document-AI service: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &ServiceError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	result, err := decodeAnalysisResult(respBody)
	if err != nil {
		return nil, fmt.Errorf("decoding analysis result: %w", err)
	}
	return result, nil
}
