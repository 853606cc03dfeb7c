package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/probity-labs/diligence-cli/internal/core/domain"
)

var askDoc string

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question with cited evidence",
	Long: `Answers a question from the indexed documents. Every answer carries
citations back to the exact chunks it was drawn from; when no evidence
is found the answer says so explicitly. The query is recorded in the
audit trail.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringVar(&askDoc, "doc", "", "only consider documents whose name contains this")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if err := loadIndex(cmd); err != nil {
		return err
	}
	question := args[0]

	var answer *domain.Answer
	var err error
	if askDoc != "" {
		answer, err = answerService.Answer(cmd.Context(), question, askDoc)
	} else {
		answer, err = answerService.AskWithEvidence(cmd.Context(), question)
	}
	if err != nil {
		return fmt.Errorf("answering failed: %w", err)
	}

	if _, err := auditTrail.LogQuery(cmd.Context(), question, answer, domain.QueryTypeGeneral, currentUser); err != nil {
		return fmt.Errorf("recording query: %w", err)
	}

	printAnswer(cmd, answer)
	return nil
}

func printAnswer(cmd *cobra.Command, answer *domain.Answer) {
	cmd.Println(answer.AnswerText)

	if answer.Warning != "" {
		cmd.Println()
		cmd.Printf("Warning: %s\n", answer.Warning)
	}

	if len(answer.Citations) > 0 {
		cmd.Println()
		cmd.Println("Citations:")
		for i := range answer.Citations {
			c := &answer.Citations[i]
			page := "N/A"
			if c.Page != nil {
				page = fmt.Sprintf("%d", *c.Page)
			}
			cmd.Printf("  [%d] %s (p.%s): %s\n", c.Number, c.DocName, page, c.Text)
		}
	}
}
