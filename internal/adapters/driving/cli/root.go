// Package cli provides the cobra-based command-line interface. Commands
// are registered in init functions and share services wired up once in
// the root command's PersistentPreRunE.
package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	answererade "github.com/probity-labs/diligence-cli/internal/adapters/driven/answerer/ade"
	auditfile "github.com/probity-labs/diligence-cli/internal/adapters/driven/audit/file"
	configfile "github.com/probity-labs/diligence-cli/internal/adapters/driven/config/file"
	parserade "github.com/probity-labs/diligence-cli/internal/adapters/driven/parser/ade"
	"github.com/probity-labs/diligence-cli/internal/adapters/driven/storage/memory"
	"github.com/probity-labs/diligence-cli/internal/core/ports/driven"
	"github.com/probity-labs/diligence-cli/internal/core/ports/driving"
	"github.com/probity-labs/diligence-cli/internal/core/services"
	"github.com/probity-labs/diligence-cli/internal/logger"
)

var version = "0.1.0"

var (
	verbose   bool
	configDir string
)

// Services shared by all commands, wired in setupServices.
var (
	ingestService driving.IngestService
	searchService driving.SearchService
	answerService driving.AnswerService
	clauseService driving.ClauseService
	riskService   driving.RiskService
	auditTrail    driven.AuditLog

	docsDir        string
	snapshotPath   string
	currentUser    string
	configuredTopK int
)

var rootCmd = &cobra.Command{
	Use:   "diligence",
	Short: "Due-diligence document retrieval and audit",
	Long: `Diligence indexes deal-room documents, answers questions with
citations back to the exact source passages, scans for risk clauses,
and keeps an append-only audit trail of every query.`,
	SilenceUsage:      true,
	PersistentPreRunE: setupServices,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&configDir, "config", "", "config directory (default ~/.diligence)")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// setupServices wires adapters and core services from configuration.
// Collaborator adapters are optional: without a parser API key, indexing
// is unavailable but search over a loaded snapshot still works.
func setupServices(_ *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)

	cfg, err := configfile.NewConfigStore(configDir)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	baseDir := filepath.Dir(cfg.Path())

	docsDir = cfg.GetString(configfile.KeyDocsDir)
	if docsDir == "" {
		docsDir = "documents"
	}

	indexDir := cfg.GetString(configfile.KeyIndexDir)
	if indexDir == "" {
		indexDir = baseDir
	}
	snapshotPath = filepath.Join(indexDir, "chunk_snapshot.json")

	auditDir := cfg.GetString(configfile.KeyAuditDir)
	if auditDir == "" {
		auditDir = filepath.Join(baseDir, "audit_logs")
	}

	configuredTopK = cfg.GetInt(configfile.KeyTopK)

	currentUser = cfg.GetString(configfile.KeyUser)
	if currentUser == "" {
		currentUser = os.Getenv("USER")
	}
	if currentUser == "" {
		currentUser = "analyst"
	}

	auditTrail, err = auditfile.NewAuditLog(auditDir)
	if err != nil {
		return fmt.Errorf("opening audit log: %w", err)
	}

	store := memory.NewChunkStore()

	var parser driven.DocumentParser
	if key := collaboratorKey(cfg, configfile.KeyParserAPIKey, "ADE_API_KEY"); key != "" {
		p, err := parserade.NewParser(parserade.Config{
			APIKey:            key,
			BaseURL:           cfg.GetString(configfile.KeyParserBaseURL),
			Model:             cfg.GetString(configfile.KeyParserModel),
			RequestsPerSecond: cfg.GetFloat(configfile.KeyParserRPS),
		})
		if err != nil {
			return fmt.Errorf("configuring parser: %w", err)
		}
		parser = p
	}

	var answerer driven.GroundedAnswerer
	if key := collaboratorKey(cfg, configfile.KeyAnswererAPIKey, "ADE_API_KEY"); key != "" {
		a, err := answererade.NewAnswerer(answererade.Config{
			APIKey:            key,
			BaseURL:           cfg.GetString(configfile.KeyAnswererBaseURL),
			Model:             cfg.GetString(configfile.KeyAnswererModel),
			RequestsPerSecond: cfg.GetFloat(configfile.KeyAnswererRPS),
		})
		if err != nil {
			return fmt.Errorf("configuring answerer: %w", err)
		}
		answerer = a
	}

	ingestOpts := []services.IngestOption{services.WithSnapshotPath(snapshotPath)}
	if workers := cfg.GetInt(configfile.KeyWorkers); workers > 0 {
		ingestOpts = append(ingestOpts, services.WithWorkers(workers))
	}

	ingestService = services.NewIngestionPipeline(store, parser, auditTrail, ingestOpts...)
	searchService = services.NewSearchEngine(store)
	answerService = services.NewEvidenceQA(searchService, store, answerer)
	clauseService = services.NewClauseFinder(searchService)
	riskService = services.NewRiskScanner(store, answerService)

	return nil
}

// collaboratorKey reads an API key from config, falling back to the
// environment so keys never have to live in the config file.
func collaboratorKey(cfg driven.ConfigStore, key, envVar string) string {
	if v := cfg.GetString(key); v != "" {
		return v
	}
	return os.Getenv(envVar)
}

// loadIndex restores the snapshot (or scans the documents directory)
// before a command that reads the index.
func loadIndex(cmd *cobra.Command) error {
	start := time.Now()
	count, err := ingestService.LoadOrScan(cmd.Context(), snapshotPath, docsDir)
	if err != nil {
		return fmt.Errorf("loading index: %w", err)
	}
	logger.Debug("Index ready: %d chunks in %s", count, time.Since(start).Round(time.Millisecond))
	return nil
}
