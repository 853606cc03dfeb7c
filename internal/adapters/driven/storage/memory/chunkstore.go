// Package memory provides the in-memory chunk store with JSON snapshot
// persistence. A flat rebuildable snapshot is the designed granularity
// for this system; there is no transactional database behind it.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/probity-labs/diligence-cli/internal/core/domain"
	"github.com/probity-labs/diligence-cli/internal/core/ports/driven"
)

// Ensure ChunkStore implements the interface.
var _ driven.ChunkStore = (*ChunkStore)(nil)

// snapshotEnvelope is the JSON shape of an index snapshot file.
type snapshotEnvelope struct {
	Timestamp    string               `json:"timestamp"`
	TotalRecords int                  `json:"total_records"`
	Records      []domain.ChunkRecord `json:"records"`
}

// ChunkStore is an in-memory implementation of driven.ChunkStore.
// Writes are serialized by a mutex; reads return copies so concurrent
// searches never observe a store mid-mutation.
type ChunkStore struct {
	mu     sync.RWMutex
	order  []string // document names in first-upsert order
	chunks map[string][]domain.ChunkRecord
}

// NewChunkStore creates an empty chunk store.
func NewChunkStore() *ChunkStore {
	return &ChunkStore{
		chunks: make(map[string][]domain.ChunkRecord),
	}
}

// UpsertDocument replaces all chunks for a document in one step.
func (s *ChunkStore) UpsertDocument(_ context.Context, docName string, chunks []domain.ChunkRecord) error {
	if docName == "" {
		return fmt.Errorf("%w: document name is empty", domain.ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, existed := s.chunks[docName]
	if len(chunks) == 0 {
		// An empty parse removes the document from the index.
		if existed {
			delete(s.chunks, docName)
			s.dropFromOrder(docName)
		}
		return nil
	}

	s.chunks[docName] = append([]domain.ChunkRecord(nil), chunks...)
	if !existed {
		s.order = append(s.order, docName)
	}
	return nil
}

// All returns a copy of every chunk record in insertion order.
func (s *ChunkStore) All(_ context.Context) ([]domain.ChunkRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var records []domain.ChunkRecord
	for _, name := range s.order {
		records = append(records, s.chunks[name]...)
	}
	return records, nil
}

// ByDocument returns the chunks for one document.
func (s *ChunkStore) ByDocument(_ context.Context, docName string) ([]domain.ChunkRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	chunks, ok := s.chunks[docName]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return append([]domain.ChunkRecord(nil), chunks...), nil
}

// Documents lists one record per indexed document.
func (s *ChunkStore) Documents(_ context.Context) ([]domain.DocumentRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	docs := make([]domain.DocumentRecord, 0, len(s.order))
	for _, name := range s.order {
		first := s.chunks[name][0]
		docs = append(docs, domain.DocumentRecord{
			DocName:         first.DocName,
			DocPath:         first.DocPath,
			UploadTimestamp: first.UploadTimestamp,
		})
	}
	return docs, nil
}

// Count returns the number of chunk records.
func (s *ChunkStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	total := 0
	for _, name := range s.order {
		total += len(s.chunks[name])
	}
	return total, nil
}

// SaveSnapshot persists the full record set as a JSON envelope.
func (s *ChunkStore) SaveSnapshot(ctx context.Context, path string) error {
	records, err := s.All(ctx)
	if err != nil {
		return err
	}

	envelope := snapshotEnvelope{
		Timestamp:    domain.NowTimestamp(),
		TotalRecords: len(records),
		Records:      records,
	}

	data, err := json.MarshalIndent(envelope, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("create snapshot directory: %w", err)
	}

	// Write-then-rename keeps a crash from leaving a torn snapshot.
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}

// LoadSnapshot replaces the store contents from a snapshot file.
// A malformed file yields domain.ErrSnapshotCorrupt and leaves the
// store untouched.
func (s *ChunkStore) LoadSnapshot(_ context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var envelope snapshotEnvelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		return fmt.Errorf("%w: %s: %v", domain.ErrSnapshotCorrupt, path, err)
	}

	order := make([]string, 0)
	chunks := make(map[string][]domain.ChunkRecord)
	for i := range envelope.Records {
		name := envelope.Records[i].DocName
		if name == "" {
			return fmt.Errorf("%w: %s: record %d has no document name", domain.ErrSnapshotCorrupt, path, i)
		}
		if _, ok := chunks[name]; !ok {
			order = append(order, name)
		}
		chunks[name] = append(chunks[name], envelope.Records[i])
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.order = order
	s.chunks = chunks
	return nil
}

// dropFromOrder removes a document name from the insertion order.
// Caller must hold the write lock.
func (s *ChunkStore) dropFromOrder(docName string) {
	for i, name := range s.order {
		if name == docName {
			s.order = append(s.order[:i], s.order[i+1:]...)
			return
		}
	}
}
