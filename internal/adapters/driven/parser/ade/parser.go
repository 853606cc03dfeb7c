// Package ade provides a document parser adapter using the LandingAI
// ADE document-extraction API.
package ade

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/time/rate"

	"github.com/probity-labs/diligence-cli/internal/core/ports/driven"
)

// Ensure Parser implements the interface.
var _ driven.DocumentParser = (*Parser)(nil)

// Default configuration values.
const (
	DefaultBaseURL = "https://api.va.landing.ai"
	DefaultModel   = "dpt-2-latest"
	DefaultTimeout = 120 * time.Second

	// DefaultRequestsPerSecond throttles calls to the parsing service.
	DefaultRequestsPerSecond = 1.0
)

// Config holds configuration for the ADE parser.
type Config struct {
	// APIKey is the ADE API key (required).
	APIKey string

	// BaseURL is the API base URL (default: https://api.va.landing.ai).
	BaseURL string

	// Model is the extraction model to use (default: dpt-2-latest).
	Model string

	// Timeout is the per-call timeout (default: 120s).
	Timeout time.Duration

	// RequestsPerSecond is the proactive throttle rate (default: 1).
	RequestsPerSecond float64
}

// Parser parses documents through the ADE HTTP API. Every call is
// bounded by the configured timeout and throttled, so a slow service
// degrades to a recoverable per-document failure rather than stalling
// an ingestion batch.
type Parser struct {
	client  *http.Client
	limiter *rate.Limiter
	baseURL string
	apiKey  string
	model   string
}

// parseResponse is the ADE parse response format. Page and chunk type
// are optional in the wire format; mapping them into the typed
// ParsedChunk happens here, once, at the boundary.
type parseResponse struct {
	Chunks []struct {
		Text      string `json:"text"`
		PageIndex *int   `json:"page_index,omitempty"`
		Type      string `json:"type,omitempty"`
	} `json:"chunks"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// NewParser creates a new ADE parser.
func NewParser(cfg Config) (*Parser, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("ade: API key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.RequestsPerSecond == 0 {
		cfg.RequestsPerSecond = DefaultRequestsPerSecond
	}

	return &Parser{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1),
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
	}, nil
}

// Parse extracts ordered chunks from the file at path.
func (p *Parser) Parse(ctx context.Context, path string) ([]driven.ParsedChunk, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	body, contentType, err := buildUpload(path, p.model)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/v1/ade/parse", body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var parsed parseResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	if parsed.Error != nil {
		return nil, fmt.Errorf("ade error: %s", parsed.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ade error (status %d): %s", resp.StatusCode, string(respBody))
	}

	chunks := make([]driven.ParsedChunk, 0, len(parsed.Chunks))
	for _, chunk := range parsed.Chunks {
		chunks = append(chunks, driven.ParsedChunk{
			Text: chunk.Text,
			Page: chunk.PageIndex,
			Type: chunk.Type,
		})
	}
	return chunks, nil
}

// buildUpload builds the multipart request body for a document upload.
func buildUpload(path, model string) (*bytes.Buffer, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("open document: %w", err)
	}
	defer f.Close()

	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)

	part, err := w.CreateFormFile("document", filepath.Base(path))
	if err != nil {
		return nil, "", fmt.Errorf("build upload: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, "", fmt.Errorf("read document: %w", err)
	}
	if err := w.WriteField("model", model); err != nil {
		return nil, "", fmt.Errorf("build upload: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("build upload: %w", err)
	}

	return body, w.FormDataContentType(), nil
}
