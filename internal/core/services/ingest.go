package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/probity-labs/diligence-cli/internal/core/domain"
	"github.com/probity-labs/diligence-cli/internal/core/ports/driven"
	"github.com/probity-labs/diligence-cli/internal/core/ports/driving"
	"github.com/probity-labs/diligence-cli/internal/logger"
)

// Ensure IngestionPipeline implements the interface.
var _ driving.IngestService = (*IngestionPipeline)(nil)

const (
	// DefaultWorkers is the parser worker pool size.
	DefaultWorkers = 4

	// watchDebounce coalesces bursts of filesystem events into one
	// re-scan.
	watchDebounce = 500 * time.Millisecond
)

// IngestionPipeline scans a document directory, parses new and changed
// files through the external parser, and populates the chunk store.
//
// Files are deduplicated by content hash, not path, so a file edited in
// place and re-saved is reprocessed and its chunks replace the old set.
type IngestionPipeline struct {
	store   driven.ChunkStore
	parser  driven.DocumentParser
	audit   driven.AuditLog
	workers int

	// snapshotPath, when set, is refreshed after each watch-triggered
	// scan.
	snapshotPath string

	mu        sync.Mutex
	processed map[string]string // absolute path -> content hash
}

// IngestOption configures the pipeline.
type IngestOption func(*IngestionPipeline)

// WithWorkers sets the parser worker pool size.
func WithWorkers(n int) IngestOption {
	return func(p *IngestionPipeline) {
		if n > 0 {
			p.workers = n
		}
	}
}

// WithSnapshotPath sets the snapshot file refreshed by Watch.
func WithSnapshotPath(path string) IngestOption {
	return func(p *IngestionPipeline) {
		p.snapshotPath = path
	}
}

// NewIngestionPipeline creates the ingestion pipeline.
func NewIngestionPipeline(
	store driven.ChunkStore,
	parser driven.DocumentParser,
	audit driven.AuditLog,
	opts ...IngestOption,
) *IngestionPipeline {
	p := &IngestionPipeline{
		store:     store,
		parser:    parser,
		audit:     audit,
		workers:   DefaultWorkers,
		processed: make(map[string]string),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// parseJob is one file handed to the parser worker pool.
type parseJob struct {
	path string
	name string
	hash string
}

// parseOutcome is the result of parsing one file.
type parseOutcome struct {
	parseJob
	chunks []driven.ParsedChunk
	err    error
}

// Scan processes new and changed files under dir. Parsing runs on a
// bounded worker pool; store and audit writes happen on the calling
// goroutine so they stay serialized. One unparsable document never
// blocks the batch, but an audit write failure aborts the scan.
func (p *IngestionPipeline) Scan(ctx context.Context, dir string) (*driving.ScanReport, error) {
	logger.Section("Document Ingestion")
	logger.Info("Scanning directory: %s", dir)

	jobs, report, err := p.collectJobs(dir)
	if err != nil {
		return nil, err
	}

	if len(jobs) == 0 {
		logger.Info("No new or changed documents")
		return report, nil
	}
	logger.Info("Found %d documents to process", len(jobs))

	outcomes := p.parseAll(ctx, jobs)

	for _, outcome := range outcomes {
		if outcome.err != nil {
			report.FilesFailed++
			logger.Warn("Error processing %s: %v", outcome.name, outcome.err)
			if err := p.audit.LogDocumentProcessing(ctx, outcome.name, 0, "error", outcome.err.Error()); err != nil {
				return nil, fmt.Errorf("audit processing failure: %w", err)
			}
			continue
		}

		records := p.buildRecords(outcome)
		if err := p.store.UpsertDocument(ctx, outcome.name, records); err != nil {
			return nil, fmt.Errorf("index %s: %w", outcome.name, err)
		}
		if err := p.audit.LogDocumentProcessing(ctx, outcome.name, len(records), "success", ""); err != nil {
			return nil, fmt.Errorf("audit processing: %w", err)
		}

		p.markProcessed(outcome.path, outcome.hash)
		report.FilesProcessed++
		report.ChunksIndexed += len(records)
		logger.Debug("Extracted %d chunks from %s", len(records), outcome.name)
	}

	return report, nil
}

// LoadOrScan restores the index from a snapshot, falling back to a full
// directory scan when the snapshot is missing or corrupt.
func (p *IngestionPipeline) LoadOrScan(ctx context.Context, snapshotPath, dir string) (int, error) {
	err := p.store.LoadSnapshot(ctx, snapshotPath)
	if err == nil {
		count, err := p.store.Count(ctx)
		if err != nil {
			return 0, err
		}
		if count > 0 {
			logger.Info("Loaded %d records from snapshot", count)
			p.seedProcessedFromStore(ctx)
			return count, nil
		}
	} else if errors.Is(err, domain.ErrSnapshotCorrupt) {
		logger.Warn("Snapshot corrupt, re-scanning directory: %v", err)
	} else if !errors.Is(err, fs.ErrNotExist) && !errors.Is(err, domain.ErrNotFound) {
		return 0, fmt.Errorf("load snapshot: %w", err)
	}

	return p.Refresh(ctx, snapshotPath, dir)
}

// Refresh re-scans the directory and persists a fresh snapshot.
func (p *IngestionPipeline) Refresh(ctx context.Context, snapshotPath, dir string) (int, error) {
	if _, err := p.Scan(ctx, dir); err != nil {
		return 0, err
	}

	count, err := p.store.Count(ctx)
	if err != nil {
		return 0, err
	}
	if count > 0 && snapshotPath != "" {
		if err := p.store.SaveSnapshot(ctx, snapshotPath); err != nil {
			return 0, fmt.Errorf("save snapshot: %w", err)
		}
		logger.Info("Index saved to %s", snapshotPath)
	}
	return count, nil
}

// Watch re-scans the directory whenever a supported document is created
// or written, until the context is cancelled. Event bursts are
// debounced into a single scan.
func (p *IngestionPipeline) Watch(ctx context.Context, dir string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrWatchUnavailable, err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrWatchUnavailable, err)
	}
	logger.Info("Watching %s for document changes", dir)

	var debounce *time.Timer
	rescan := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Write) {
				continue
			}
			if !domain.IsSupportedDocument(event.Name) {
				continue
			}
			logger.Debug("Change detected: %s", event.Name)
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(watchDebounce, func() {
				select {
				case rescan <- struct{}{}:
				default:
				}
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watch error: %v", err)

		case <-rescan:
			if _, err := p.Scan(ctx, dir); err != nil {
				return err
			}
			if p.snapshotPath != "" {
				if err := p.store.SaveSnapshot(ctx, p.snapshotPath); err != nil {
					logger.Warn("Snapshot refresh failed: %v", err)
				}
			}
		}
	}
}

// DocumentSummary returns index statistics for one document.
func (p *IngestionPipeline) DocumentSummary(ctx context.Context, docName string) (*domain.DocumentSummary, error) {
	chunks, err := p.store.ByDocument(ctx, docName)
	if err != nil {
		return nil, err
	}

	pageSet := make(map[int]bool)
	chars := 0
	for i := range chunks {
		if chunks[i].Page != nil {
			pageSet[*chunks[i].Page] = true
		}
		chars += len(chunks[i].Content)
	}

	pages := make([]int, 0, len(pageSet))
	for page := range pageSet {
		pages = append(pages, page)
	}
	sort.Ints(pages)

	return &domain.DocumentSummary{
		DocName:         docName,
		TotalChunks:     len(chunks),
		TotalPages:      len(pages),
		TotalCharacters: chars,
		UploadTimestamp: chunks[0].UploadTimestamp,
		Pages:           pages,
	}, nil
}

// Overview returns index statistics across all documents.
func (p *IngestionPipeline) Overview(ctx context.Context) (*domain.IndexOverview, error) {
	records, err := p.store.All(ctx)
	if err != nil {
		return nil, err
	}

	order := make([]string, 0)
	counts := make(map[string]*domain.DocumentChunkInfo)
	for i := range records {
		info, ok := counts[records[i].DocName]
		if !ok {
			info = &domain.DocumentChunkInfo{
				DocName:         records[i].DocName,
				UploadTimestamp: records[i].UploadTimestamp,
			}
			counts[records[i].DocName] = info
			order = append(order, records[i].DocName)
		}
		info.ChunkCount++
	}

	overview := &domain.IndexOverview{
		TotalDocuments: len(order),
		TotalChunks:    len(records),
		Documents:      make([]domain.DocumentChunkInfo, 0, len(order)),
	}
	for _, name := range order {
		overview.Documents = append(overview.Documents, *counts[name])
	}
	return overview, nil
}

// collectJobs enumerates supported files and drops the unchanged ones.
func (p *IngestionPipeline) collectJobs(dir string) ([]parseJob, *driving.ScanReport, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("read directory %s: %w", dir, err)
	}

	report := &driving.ScanReport{}
	var jobs []parseJob

	for _, entry := range entries {
		if entry.IsDir() || !domain.IsSupportedDocument(entry.Name()) {
			continue
		}
		report.FilesSeen++

		path, err := filepath.Abs(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, nil, fmt.Errorf("resolve %s: %w", entry.Name(), err)
		}

		hash, err := hashFile(path)
		if err != nil {
			logger.Warn("Skipping unreadable file %s: %v", entry.Name(), err)
			report.FilesFailed++
			continue
		}

		if p.alreadyProcessed(path, hash) {
			report.FilesSkipped++
			continue
		}

		jobs = append(jobs, parseJob{path: path, name: entry.Name(), hash: hash})
	}

	return jobs, report, nil
}

// parseAll runs parser calls across the bounded worker pool. Outcomes
// come back in job order so ingestion stays deterministic. Without a
// configured parser every job fails individually, so a scan over a
// populated directory degrades to per-file errors instead of crashing.
func (p *IngestionPipeline) parseAll(ctx context.Context, jobs []parseJob) []parseOutcome {
	outcomes := make([]parseOutcome, len(jobs))

	if p.parser == nil {
		for i := range jobs {
			outcomes[i] = parseOutcome{
				parseJob: jobs[i],
				err:      fmt.Errorf("%w: document parser not configured", domain.ErrParseFailure),
			}
		}
		return outcomes
	}

	sem := make(chan struct{}, p.workers)
	var wg sync.WaitGroup

	for i := range jobs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			logger.Debug("Processing document: %s", jobs[i].name)
			chunks, err := p.parser.Parse(ctx, jobs[i].path)
			if err != nil {
				err = fmt.Errorf("%w: %w", domain.ErrParseFailure, err)
			}
			outcomes[i] = parseOutcome{parseJob: jobs[i], chunks: chunks, err: err}
		}(i)
	}
	wg.Wait()

	return outcomes
}

// buildRecords converts parser output into chunk records, assigning
// chunk_index as the 0-based position in parser output.
func (p *IngestionPipeline) buildRecords(outcome parseOutcome) []domain.ChunkRecord {
	timestamp := domain.NowTimestamp()
	records := make([]domain.ChunkRecord, 0, len(outcome.chunks))

	for idx, chunk := range outcome.chunks {
		chunkType := chunk.Type
		if chunkType == "" {
			chunkType = "text"
		}
		records = append(records, domain.ChunkRecord{
			DocName:         outcome.name,
			DocPath:         outcome.path,
			ChunkIndex:      uint(idx),
			Content:         chunk.Text,
			Page:            chunk.Page,
			CitationText:    domain.TruncateCitation(chunk.Text),
			UploadTimestamp: timestamp,
			Metadata: map[string]string{
				"chunk_type": chunkType,
			},
		})
	}

	return records
}

func (p *IngestionPipeline) alreadyProcessed(path, hash string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.processed[path] == hash
}

func (p *IngestionPipeline) markProcessed(path, hash string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.processed[path] = hash
}

// seedProcessedFromStore marks snapshot-restored documents as processed
// when their on-disk content still matches, so the next scan only picks
// up new or edited files.
func (p *IngestionPipeline) seedProcessedFromStore(ctx context.Context) {
	docs, err := p.store.Documents(ctx)
	if err != nil {
		return
	}
	for _, doc := range docs {
		hash, err := hashFile(doc.DocPath)
		if err != nil {
			continue
		}
		p.markProcessed(doc.DocPath, hash)
	}
}

// hashFile returns the hex sha256 of the file content.
func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
