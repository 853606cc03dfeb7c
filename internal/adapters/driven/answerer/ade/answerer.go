// Package ade provides a grounded answerer adapter using the LandingAI
// ADE question-answering API. The service parses the document and
// answers in one shot, returning citations with page references.
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
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/probity-labs/diligence-cli/internal/core/ports/driven"
)

// Ensure Answerer implements the interface.
var _ driven.GroundedAnswerer = (*Answerer)(nil)

// Default configuration values.
const (
	DefaultBaseURL = "https://api.va.landing.ai"
	DefaultModel   = "dpt-2-latest"
	DefaultTimeout = 120 * time.Second

	// DefaultRequestsPerSecond throttles calls to the answering service.
	DefaultRequestsPerSecond = 1.0
)

// Config holds configuration for the ADE answerer.
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

// Answerer answers questions against a single document through the ADE
// HTTP API. Failures are recoverable: EvidenceQA falls back to local
// ranking when a call errors.
type Answerer struct {
	client  *http.Client
	limiter *rate.Limiter
	baseURL string
	apiKey  string
	model   string
}

// answerResponse is the ADE answer response format.
type answerResponse struct {
	AnswerText string `json:"answer"`
	Citations  []struct {
		Text      string   `json:"text"`
		PageIndex *int     `json:"page_index,omitempty"`
		Score     *float64 `json:"score,omitempty"`
	} `json:"citations"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// NewAnswerer creates a new ADE answerer.
func NewAnswerer(cfg Config) (*Answerer, error) {
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

	return &Answerer{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1),
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
	}, nil
}

// Answer parses the document at docPath and answers the question
// against it, considering at most topK chunks.
func (a *Answerer) Answer(
	ctx context.Context, question, docPath string, topK int,
) (*driven.GroundedAnswer, error) {
	if err := a.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	body, contentType, err := buildAnswerUpload(docPath, a.model, question, topK)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/v1/ade/answer", body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+a.apiKey)

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var answered answerResponse
	if err := json.Unmarshal(respBody, &answered); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	if answered.Error != nil {
		return nil, fmt.Errorf("ade error: %s", answered.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ade error (status %d): %s", resp.StatusCode, string(respBody))
	}

	grounded := &driven.GroundedAnswer{
		AnswerText: answered.AnswerText,
		Citations:  make([]driven.AnswerCitation, 0, len(answered.Citations)),
	}
	for _, cite := range answered.Citations {
		grounded.Citations = append(grounded.Citations, driven.AnswerCitation{
			Page:  cite.PageIndex,
			Score: cite.Score,
			Text:  cite.Text,
		})
	}
	return grounded, nil
}

// buildAnswerUpload builds the multipart body for a question request.
func buildAnswerUpload(path, model, question string, topK int) (*bytes.Buffer, string, error) {
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

	fields := map[string]string{
		"model":    model,
		"question": question,
		"top_k":    strconv.Itoa(topK),
	}
	for name, value := range fields {
		if err := w.WriteField(name, value); err != nil {
			return nil, "", fmt.Errorf("build upload: %w", err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("build upload: %w", err)
	}

	return body, w.FormDataContentType(), nil
}
