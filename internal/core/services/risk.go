package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/probity-labs/diligence-cli/internal/core/domain"
	"github.com/probity-labs/diligence-cli/internal/core/ports/driven"
	"github.com/probity-labs/diligence-cli/internal/core/ports/driving"
	"github.com/probity-labs/diligence-cli/internal/logger"
)

// Ensure RiskScanner implements the interface.
var _ driving.RiskService = (*RiskScanner)(nil)

// minRiskAnswerLength is the shortest answer accepted as a finding.
const minRiskAnswerLength = 10

// negativeAnswer matches trivially-negative answers on word boundaries,
// so "normal" or "nonetheless" do not suppress a genuine finding.
var negativeAnswer = regexp.MustCompile(`(?i)\b(no|none|not found)\b`)

// RiskScanner runs a fixed battery of risk-keyword questions across the
// indexed documents and flags the ones whose answers suggest risk
// language.
type RiskScanner struct {
	store driven.ChunkStore
	qa    driving.AnswerService
}

// NewRiskScanner creates the risk scanner.
func NewRiskScanner(store driven.ChunkStore, qa driving.AnswerService) *RiskScanner {
	return &RiskScanner{store: store, qa: qa}
}

// ScanRisks checks every matching document for each keyword. keywords
// defaults to domain.DefaultRiskKeywords when empty. Per-keyword
// failures are logged and skipped; they never abort the scan.
func (s *RiskScanner) ScanRisks(
	ctx context.Context, docFilter string, keywords []string,
) (*domain.RiskScanReport, error) {
	logger.Section("Risk Scan")

	if len(keywords) == 0 {
		keywords = domain.DefaultRiskKeywords
	}

	docs, err := s.store.Documents(ctx)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}

	if docFilter != "" {
		filterLower := strings.ToLower(docFilter)
		kept := docs[:0]
		for _, doc := range docs {
			if strings.Contains(strings.ToLower(doc.DocName), filterLower) {
				kept = append(kept, doc)
			}
		}
		docs = kept
		logger.Debug("After document filter: %d documents", len(docs))
	}

	report := &domain.RiskScanReport{
		ScanID:           uuid.New().String(),
		DocumentsScanned: len(docs),
		Findings:         make(map[string][]domain.RiskFinding),
	}

	for _, doc := range docs {
		logger.Info("Scanning %s for risks", doc.DocName)
		findings := s.scanDocument(ctx, doc.DocName, keywords)
		if len(findings) > 0 {
			report.Findings[doc.DocName] = findings
		}
	}

	report.DocumentsWithRisk = len(report.Findings)
	report.Timestamp = domain.NowTimestamp()

	logger.Info("Risk scan complete: %d/%d documents flagged",
		report.DocumentsWithRisk, report.DocumentsScanned)
	return report, nil
}

// scanDocument asks one question per keyword against a single document.
// At most one finding per keyword is produced.
func (s *RiskScanner) scanDocument(ctx context.Context, docName string, keywords []string) []domain.RiskFinding {
	var findings []domain.RiskFinding

	for _, keyword := range keywords {
		question := fmt.Sprintf(
			"Are there any clauses related to %s? If yes, provide the specific text.", keyword)

		answer, err := s.qa.Answer(ctx, question, docName)
		if err != nil {
			logger.Warn("Could not check %s for %q: %v", docName, keyword, err)
			continue
		}

		if !s.isRiskAnswer(answer.AnswerText) {
			continue
		}

		findings = append(findings, domain.RiskFinding{
			RiskType:  keyword,
			Answer:    answer.AnswerText,
			Citations: answer.Citations,
			DocName:   docName,
		})
	}

	return findings
}

// isRiskAnswer accepts an answer as a finding when it has substance and
// is not a trivially-negative response.
func (s *RiskScanner) isRiskAnswer(text string) bool {
	if len(text) <= minRiskAnswerLength {
		return false
	}
	return !negativeAnswer.MatchString(text)
}
