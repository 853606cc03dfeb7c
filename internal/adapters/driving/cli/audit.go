package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

var (
	auditRecentLimit int
	auditExportStart string
	auditExportEnd   string
	auditExportOut   string
	auditPruneDays   int
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Inspect and maintain the audit trail",
}

var auditStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show query statistics",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		stats, err := auditTrail.Statistics(cmd.Context())
		if err != nil {
			return fmt.Errorf("reading audit log: %w", err)
		}

		cmd.Printf("Total queries: %d\n\n", stats.TotalQueries)

		cmd.Println("By type:")
		for _, t := range sortedKeys(stats.QueryTypes) {
			cmd.Printf("  %-20s %d\n", t, stats.QueryTypes[t])
		}
		cmd.Println()

		cmd.Println("By document:")
		for _, doc := range sortedKeys(stats.DocumentsAccessed) {
			cmd.Printf("  %-40s %d\n", doc, stats.DocumentsAccessed[doc])
		}
		cmd.Println()

		cmd.Println("By user:")
		for _, user := range sortedKeys(stats.Users) {
			cmd.Printf("  %-20s %d\n", user, stats.Users[user])
		}
		return nil
	},
}

// sortedKeys keeps stats output stable run to run.
func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

var auditRecentCmd = &cobra.Command{
	Use:   "recent",
	Short: "Show recent queries",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		entries, err := auditTrail.RecentQueries(cmd.Context(), auditRecentLimit)
		if err != nil {
			return fmt.Errorf("reading audit log: %w", err)
		}

		if len(entries) == 0 {
			cmd.Println("No queries recorded.")
			return nil
		}
		for i := range entries {
			cmd.Printf("%s  %-14s %-10s %s\n",
				entries[i].Timestamp, entries[i].QueryType, entries[i].User, entries[i].Query)
		}
		return nil
	},
}

var auditExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export audit entries to a JSON file",
	Long: `Writes audit entries to a JSON envelope. --start and --end filter
by timestamp (inclusive ISO string comparison); either bound may be
omitted.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		path, err := auditTrail.Export(cmd.Context(), auditExportOut, auditExportStart, auditExportEnd)
		if err != nil {
			return fmt.Errorf("export failed: %w", err)
		}
		cmd.Printf("Exported to %s\n", path)
		return nil
	},
}

var auditPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Drop audit entries older than N days",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		dropped, err := auditTrail.ClearOldLogs(cmd.Context(), auditPruneDays)
		if err != nil {
			return fmt.Errorf("prune failed: %w", err)
		}
		cmd.Printf("Dropped %d entries older than %d days\n", dropped, auditPruneDays)
		return nil
	},
}

func init() {
	auditRecentCmd.Flags().IntVarP(&auditRecentLimit, "limit", "n", 10, "number of entries to show")
	auditExportCmd.Flags().StringVar(&auditExportStart, "start", "", "start timestamp (inclusive)")
	auditExportCmd.Flags().StringVar(&auditExportEnd, "end", "", "end timestamp (inclusive)")
	auditExportCmd.Flags().StringVar(&auditExportOut, "out", "", "output path (default audit_export_<id>.json)")
	auditPruneCmd.Flags().IntVar(&auditPruneDays, "days", 90, "retention window in days")

	auditCmd.AddCommand(auditStatsCmd)
	auditCmd.AddCommand(auditRecentCmd)
	auditCmd.AddCommand(auditExportCmd)
	auditCmd.AddCommand(auditPruneCmd)
	rootCmd.AddCommand(auditCmd)
}
