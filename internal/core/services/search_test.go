package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/probity-labs/diligence-cli/internal/adapters/driven/storage/memory"
	"github.com/probity-labs/diligence-cli/internal/core/domain"
)

// setupTestStore indexes a small corpus with known term distribution.
func setupTestStore(t *testing.T) *memory.ChunkStore {
	t.Helper()
	store := memory.NewChunkStore()
	ctx := context.Background()

	page0, page1 := 0, 1
	docs := map[string][]domain.ChunkRecord{
		"share_purchase.pdf": {
			{
				DocName: "share_purchase.pdf", DocPath: "/docs/share_purchase.pdf",
				ChunkIndex: 0, Page: &page0,
				Content:         "The indemnity obligations of the Seller survive termination of this Agreement.",
				CitationText:    "The indemnity obligations of the Seller survive termination of this Agreement.",
				UploadTimestamp: "2026-08-30T10:00:00.000000000Z",
			},
			{
				DocName: "share_purchase.pdf", DocPath: "/docs/share_purchase.pdf",
				ChunkIndex: 1, Page: &page1,
				Content:         "Liability of either party is capped at the purchase price.",
				CitationText:    "Liability of either party is capped at the purchase price.",
				UploadTimestamp: "2026-08-30T10:00:00.000000000Z",
			},
		},
		"employment.docx": {
			{
				DocName: "employment.docx", DocPath: "/docs/employment.docx",
				ChunkIndex: 0, Page: &page0,
				Content:         "Termination requires ninety days written notice.",
				CitationText:    "Termination requires ninety days written notice.",
				UploadTimestamp: "2026-08-29T09:00:00.000000000Z",
			},
		},
	}

	require.NoError(t, store.UpsertDocument(ctx, "share_purchase.pdf", docs["share_purchase.pdf"]))
	require.NoError(t, store.UpsertDocument(ctx, "employment.docx", docs["employment.docx"]))
	return store
}

func TestKeywordOverlapScorer_AllTokensMatch(t *testing.T) {
	scorer := KeywordOverlapScorer{}

	score := scorer.Score([]string{"indemnity", "seller"}, "The indemnity obligations of the Seller survive.")

	assert.Equal(t, 1.0, score)
}

func TestKeywordOverlapScorer_PartialMatch(t *testing.T) {
	scorer := KeywordOverlapScorer{}

	score := scorer.Score([]string{"indemnity", "penalty"}, "The indemnity obligations of the Seller survive.")

	assert.Equal(t, 0.5, score)
}

func TestKeywordOverlapScorer_NoMatch(t *testing.T) {
	scorer := KeywordOverlapScorer{}

	score := scorer.Score([]string{"penalty"}, "The indemnity obligations of the Seller survive.")

	assert.Equal(t, 0.0, score)
}

func TestKeywordOverlapScorer_EmptyTokens(t *testing.T) {
	scorer := KeywordOverlapScorer{}

	assert.Equal(t, 0.0, scorer.Score(nil, "any content"))
}

func TestSearchEngine_Search_RanksByOverlap(t *testing.T) {
	engine := NewSearchEngine(setupTestStore(t))
	ctx := context.Background()

	results, err := engine.Search(ctx, "indemnity termination", domain.SearchOptions{})

	require.NoError(t, err)
	require.Len(t, results, 2)
	// Both tokens appear in the first chunk, only one in the other.
	assert.Equal(t, "share_purchase.pdf", results[0].Chunk.DocName)
	assert.Equal(t, uint(0), results[0].Chunk.ChunkIndex)
	assert.Equal(t, 1.0, results[0].RelevanceScore)
	assert.Equal(t, 0.5, results[1].RelevanceScore)
}

func TestSearchEngine_Search_ScoresWithinUnitInterval(t *testing.T) {
	engine := NewSearchEngine(setupTestStore(t))
	ctx := context.Background()

	results, err := engine.Search(ctx, "termination notice liability purchase", domain.SearchOptions{})

	require.NoError(t, err)
	require.NotEmpty(t, results)
	for _, r := range results {
		assert.Greater(t, r.RelevanceScore, 0.0)
		assert.LessOrEqual(t, r.RelevanceScore, 1.0)
	}
}

func TestSearchEngine_Search_DropsZeroScores(t *testing.T) {
	engine := NewSearchEngine(setupTestStore(t))
	ctx := context.Background()

	results, err := engine.Search(ctx, "zebra", domain.SearchOptions{})

	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearchEngine_Search_EmptyQuery(t *testing.T) {
	engine := NewSearchEngine(setupTestStore(t))
	ctx := context.Background()

	results, err := engine.Search(ctx, "   \t ", domain.SearchOptions{})

	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearchEngine_Search_TopKLimits(t *testing.T) {
	engine := NewSearchEngine(setupTestStore(t))
	ctx := context.Background()

	results, err := engine.Search(ctx, "termination", domain.SearchOptions{TopK: 1})

	require.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestSearchEngine_Search_DocFilter(t *testing.T) {
	engine := NewSearchEngine(setupTestStore(t))
	ctx := context.Background()

	results, err := engine.Search(ctx, "termination", domain.SearchOptions{DocFilter: "EMPLOYMENT"})

	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "employment.docx", results[0].Chunk.DocName)
}

func TestSearchEngine_Search_DuplicateTokensScoreOnce(t *testing.T) {
	engine := NewSearchEngine(setupTestStore(t))
	ctx := context.Background()

	// "indemnity indemnity" must score the same as "indemnity".
	once, err := engine.Search(ctx, "indemnity", domain.SearchOptions{})
	require.NoError(t, err)
	twice, err := engine.Search(ctx, "indemnity indemnity", domain.SearchOptions{})
	require.NoError(t, err)

	require.Equal(t, len(once), len(twice))
	for i := range once {
		assert.Equal(t, once[i].RelevanceScore, twice[i].RelevanceScore)
	}
}

func TestSearchEngine_Search_StableTieOrder(t *testing.T) {
	store := memory.NewChunkStore()
	ctx := context.Background()
	records := []domain.ChunkRecord{
		{DocName: "a.pdf", DocPath: "/a.pdf", ChunkIndex: 0, Content: "alpha clause", CitationText: "alpha clause", UploadTimestamp: "2026-08-30T10:00:00.000000000Z"},
		{DocName: "a.pdf", DocPath: "/a.pdf", ChunkIndex: 1, Content: "alpha clause again", CitationText: "alpha clause again", UploadTimestamp: "2026-08-30T10:00:00.000000000Z"},
		{DocName: "a.pdf", DocPath: "/a.pdf", ChunkIndex: 2, Content: "alpha clause once more", CitationText: "alpha clause once more", UploadTimestamp: "2026-08-30T10:00:00.000000000Z"},
	}
	require.NoError(t, store.UpsertDocument(ctx, "a.pdf", records))
	engine := NewSearchEngine(store)

	results, err := engine.Search(ctx, "alpha", domain.SearchOptions{})

	require.NoError(t, err)
	require.Len(t, results, 3)
	// Equal scores keep record order.
	for i := range results {
		assert.Equal(t, uint(i), results[i].Chunk.ChunkIndex)
	}
}

func TestSearchEngine_WithScorer(t *testing.T) {
	store := setupTestStore(t)
	engine := NewSearchEngine(store, WithScorer(constantScorer{}))
	ctx := context.Background()

	results, err := engine.Search(ctx, "anything", domain.SearchOptions{TopK: 10})

	require.NoError(t, err)
	assert.Len(t, results, 3)
	for _, r := range results {
		assert.Equal(t, 0.25, r.RelevanceScore)
	}
}

// constantScorer gives every chunk the same nonzero score.
type constantScorer struct{}

func (constantScorer) Score(_ []string, _ string) float64 { return 0.25 }
