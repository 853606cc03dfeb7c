package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/probity-labs/diligence-cli/internal/core/domain"
)

var (
	riskDoc      string
	riskKeywords []string
)

var riskCmd = &cobra.Command{
	Use:   "risk",
	Short: "Scan documents for risk clauses",
	Long: `Runs the risk-keyword battery (indemnity, liability, breach, ...)
against every indexed document and reports which documents contain
risk-relevant language. The scan is recorded in the audit trail.`,
	Args: cobra.NoArgs,
	RunE: runRisk,
}

func init() {
	riskCmd.Flags().StringVar(&riskDoc, "doc", "", "only scan documents whose name contains this")
	riskCmd.Flags().StringSliceVar(&riskKeywords, "keywords", nil, "risk keywords to check (default battery when empty)")
	rootCmd.AddCommand(riskCmd)
}

func runRisk(cmd *cobra.Command, _ []string) error {
	if err := loadIndex(cmd); err != nil {
		return err
	}

	report, err := riskService.ScanRisks(cmd.Context(), riskDoc, riskKeywords)
	if err != nil {
		return fmt.Errorf("risk scan failed: %w", err)
	}

	ctx := cmd.Context()
	if _, err := auditTrail.LogRiskScan(ctx, report, currentUser); err != nil {
		return fmt.Errorf("recording risk scan: %w", err)
	}
	keywords := riskKeywords
	if len(keywords) == 0 {
		keywords = domain.DefaultRiskKeywords
	}
	query := "risk scan: " + strings.Join(keywords, ", ")
	if _, err := auditTrail.LogQuery(ctx, query, report, domain.QueryTypeRiskScan, currentUser); err != nil {
		return fmt.Errorf("recording risk scan: %w", err)
	}

	cmd.Printf("Scan %s: %d documents scanned, %d with risks\n\n",
		report.ScanID, report.DocumentsScanned, report.DocumentsWithRisk)

	docs := make([]string, 0, len(report.Findings))
	for doc := range report.Findings {
		docs = append(docs, doc)
	}
	sort.Strings(docs)

	for _, doc := range docs {
		cmd.Printf("  %s\n", doc)
		findings := report.Findings[doc]
		for i := range findings {
			cmd.Printf("    [%s] %s\n", findings[i].RiskType, findings[i].Answer)
		}
		cmd.Println()
	}
	return nil
}
