package memory

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/probity-labs/diligence-cli/internal/core/domain"
)

func testRecords(docName string, n int) []domain.ChunkRecord {
	records := make([]domain.ChunkRecord, 0, n)
	for i := 0; i < n; i++ {
		records = append(records, domain.ChunkRecord{
			DocName:         docName,
			DocPath:         "/docs/" + docName,
			ChunkIndex:      uint(i),
			Content:         "content",
			CitationText:    "content",
			UploadTimestamp: "2026-08-30T10:00:00.000000000Z",
		})
	}
	return records
}

func TestChunkStore_UpsertDocument_EmptyName(t *testing.T) {
	store := NewChunkStore()

	err := store.UpsertDocument(context.Background(), "", testRecords("", 1))

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestChunkStore_UpsertDocument_Replaces(t *testing.T) {
	store := NewChunkStore()
	ctx := context.Background()

	require.NoError(t, store.UpsertDocument(ctx, "a.pdf", testRecords("a.pdf", 3)))
	require.NoError(t, store.UpsertDocument(ctx, "a.pdf", testRecords("a.pdf", 1)))

	chunks, err := store.ByDocument(ctx, "a.pdf")
	require.NoError(t, err)
	assert.Len(t, chunks, 1)

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestChunkStore_UpsertDocument_EmptySetRemoves(t *testing.T) {
	store := NewChunkStore()
	ctx := context.Background()

	require.NoError(t, store.UpsertDocument(ctx, "a.pdf", testRecords("a.pdf", 2)))
	require.NoError(t, store.UpsertDocument(ctx, "a.pdf", nil))

	_, err := store.ByDocument(ctx, "a.pdf")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	docs, err := store.Documents(ctx)
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestChunkStore_All_PreservesInsertionOrder(t *testing.T) {
	store := NewChunkStore()
	ctx := context.Background()

	require.NoError(t, store.UpsertDocument(ctx, "b.pdf", testRecords("b.pdf", 1)))
	require.NoError(t, store.UpsertDocument(ctx, "a.pdf", testRecords("a.pdf", 1)))

	records, err := store.All(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "b.pdf", records[0].DocName)
	assert.Equal(t, "a.pdf", records[1].DocName)
}

func TestChunkStore_All_ReturnsCopy(t *testing.T) {
	store := NewChunkStore()
	ctx := context.Background()
	require.NoError(t, store.UpsertDocument(ctx, "a.pdf", testRecords("a.pdf", 1)))

	records, err := store.All(ctx)
	require.NoError(t, err)
	records[0].Content = "mutated"

	again, err := store.All(ctx)
	require.NoError(t, err)
	assert.Equal(t, "content", again[0].Content)
}

func TestChunkStore_ByDocument_NotFound(t *testing.T) {
	store := NewChunkStore()

	_, err := store.ByDocument(context.Background(), "missing.pdf")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestChunkStore_Documents(t *testing.T) {
	store := NewChunkStore()
	ctx := context.Background()
	require.NoError(t, store.UpsertDocument(ctx, "a.pdf", testRecords("a.pdf", 3)))

	docs, err := store.Documents(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "a.pdf", docs[0].DocName)
	assert.Equal(t, "/docs/a.pdf", docs[0].DocPath)
	assert.NotEmpty(t, docs[0].UploadTimestamp)
}

func TestChunkStore_Snapshot_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "snapshot.json")
	ctx := context.Background()

	src := NewChunkStore()
	require.NoError(t, src.UpsertDocument(ctx, "b.pdf", testRecords("b.pdf", 2)))
	require.NoError(t, src.UpsertDocument(ctx, "a.pdf", testRecords("a.pdf", 1)))
	require.NoError(t, src.SaveSnapshot(ctx, path))

	dst := NewChunkStore()
	require.NoError(t, dst.LoadSnapshot(ctx, path))

	srcAll, err := src.All(ctx)
	require.NoError(t, err)
	dstAll, err := dst.All(ctx)
	require.NoError(t, err)
	assert.Equal(t, srcAll, dstAll)
}

func TestChunkStore_LoadSnapshot_MissingFile(t *testing.T) {
	store := NewChunkStore()

	err := store.LoadSnapshot(context.Background(), filepath.Join(t.TempDir(), "absent.json"))

	assert.True(t, os.IsNotExist(err))
}

func TestChunkStore_LoadSnapshot_MalformedJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot.json")
	require.NoError(t, os.WriteFile(path, []byte("{broken"), 0600))

	store := NewChunkStore()
	ctx := context.Background()
	require.NoError(t, store.UpsertDocument(ctx, "keep.pdf", testRecords("keep.pdf", 1)))

	err := store.LoadSnapshot(ctx, path)

	assert.ErrorIs(t, err, domain.ErrSnapshotCorrupt)

	// A failed load leaves the store untouched.
	count, countErr := store.Count(ctx)
	require.NoError(t, countErr)
	assert.Equal(t, 1, count)
}

func TestChunkStore_LoadSnapshot_RecordWithoutName(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot.json")
	payload := `{"timestamp":"x","total_records":1,"records":[{"doc_name":"","content":"y"}]}`
	require.NoError(t, os.WriteFile(path, []byte(payload), 0600))

	store := NewChunkStore()
	err := store.LoadSnapshot(context.Background(), path)

	assert.ErrorIs(t, err, domain.ErrSnapshotCorrupt)
}

func TestChunkStore_SaveSnapshot_CreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "deeper", "snapshot.json")
	store := NewChunkStore()
	ctx := context.Background()
	require.NoError(t, store.UpsertDocument(ctx, "a.pdf", testRecords("a.pdf", 1)))

	require.NoError(t, store.SaveSnapshot(ctx, path))

	_, err := os.Stat(path)
	assert.NoError(t, err)
}
