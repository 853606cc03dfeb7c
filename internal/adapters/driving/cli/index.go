package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	indexRefresh bool
	indexWatch   bool
)

var indexCmd = &cobra.Command{
	Use:   "index [dir]",
	Short: "Index documents for retrieval",
	Long: `Scans the documents directory, parses each supported file (.pdf,
.docx, .doc) into chunks and indexes them for search. Already-indexed
files whose content is unchanged are skipped.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runIndex,
}

func init() {
	indexCmd.Flags().BoolVar(&indexRefresh, "refresh", false, "re-scan and rewrite the snapshot")
	indexCmd.Flags().BoolVar(&indexWatch, "watch", false, "keep watching the directory for new documents")
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, args []string) error {
	dir := docsDir
	if len(args) == 1 {
		dir = args[0]
	}

	ctx := cmd.Context()

	// The default path restores the snapshot first so unchanged files
	// are skipped; --refresh re-parses everything from scratch.
	if !indexRefresh {
		if _, err := ingestService.LoadOrScan(ctx, snapshotPath, dir); err != nil {
			return fmt.Errorf("indexing failed: %w", err)
		}
	}
	count, err := ingestService.Refresh(ctx, snapshotPath, dir)
	if err != nil {
		return fmt.Errorf("indexing failed: %w", err)
	}

	overview, err := ingestService.Overview(ctx)
	if err != nil {
		return err
	}
	cmd.Printf("Index ready: %d documents, %d chunks\n", overview.TotalDocuments, count)
	for _, doc := range overview.Documents {
		cmd.Printf("  %s (%d chunks)\n", doc.DocName, doc.ChunkCount)
	}

	if indexWatch {
		cmd.Printf("Watching %s for new documents (Ctrl+C to stop)\n", dir)
		return ingestService.Watch(ctx, dir)
	}
	return nil
}
