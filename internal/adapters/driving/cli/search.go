package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/probity-labs/diligence-cli/internal/core/domain"
)

var (
	searchLimit int
	searchDoc   string
	searchJSON  bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search indexed document chunks",
	Long: `Ranks indexed chunks by keyword overlap with the query and prints
the best matches with their source document and page.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 0, "maximum number of results")
	searchCmd.Flags().StringVar(&searchDoc, "doc", "", "only search documents whose name contains this")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	if err := loadIndex(cmd); err != nil {
		return err
	}

	limit := searchLimit
	if limit == 0 {
		limit = configuredTopK
	}
	opts := domain.SearchOptions{
		TopK:      limit,
		DocFilter: searchDoc,
	}
	results, err := searchService.Search(cmd.Context(), args[0], opts)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		data, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal results: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if len(results) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	cmd.Println("Results:")
	cmd.Println()
	for i := range results {
		page := "?"
		if results[i].Chunk.Page != nil {
			page = fmt.Sprintf("%d", *results[i].Chunk.Page)
		}
		cmd.Printf("  [%d] %s (p.%s, %.2f)\n", i+1, results[i].Chunk.DocName, page, results[i].RelevanceScore)
		cmd.Printf("      %s\n", results[i].Chunk.CitationText)
		cmd.Println()
	}
	return nil
}
