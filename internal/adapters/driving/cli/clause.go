package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/probity-labs/diligence-cli/internal/core/domain"
)

var clauseDate string

var clauseCmd = &cobra.Command{
	Use:   "clause [type]",
	Short: "Find documents containing a clause type",
	Long: `Searches the index for a named clause type (e.g. "termination",
"indemnity") and groups the hits by document. Use --date to keep only
documents uploaded on a given day; "today" means the current date.`,
	Args: cobra.ExactArgs(1),
	RunE: runClause,
}

func init() {
	clauseCmd.Flags().StringVar(&clauseDate, "date", "", `upload date filter (YYYY-MM-DD or "today")`)
	rootCmd.AddCommand(clauseCmd)
}

func runClause(cmd *cobra.Command, args []string) error {
	if err := loadIndex(cmd); err != nil {
		return err
	}
	clauseType := args[0]

	docs, err := clauseService.FindClauses(cmd.Context(), clauseType, clauseDate)
	if err != nil {
		return fmt.Errorf("clause search failed: %w", err)
	}

	query := clauseType + " clause"
	if _, err := auditTrail.LogQuery(cmd.Context(), query, docs, domain.QueryTypeClauseSearch, currentUser); err != nil {
		return fmt.Errorf("recording query: %w", err)
	}

	if len(docs) == 0 {
		cmd.Printf("No documents with %q clauses found.\n", clauseType)
		return nil
	}

	cmd.Printf("Documents with %q clauses:\n\n", clauseType)
	for i := range docs {
		cmd.Printf("  %s (uploaded %s)\n", docs[i].DocName, docs[i].UploadTimestamp)
		for j := range docs[i].Matches {
			page := "?"
			if docs[i].Matches[j].Page != nil {
				page = fmt.Sprintf("%d", *docs[i].Matches[j].Page)
			}
			cmd.Printf("    p.%s: %s\n", page, docs[i].Matches[j].Text)
		}
		cmd.Println()
	}
	return nil
}
