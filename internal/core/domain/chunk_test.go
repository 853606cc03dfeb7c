package domain

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestTruncateCitation(t *testing.T) {
	short := "Short clause."
	assert.Equal(t, short, TruncateCitation(short))

	exact := strings.Repeat("a", CitationTextLimit)
	assert.Equal(t, exact, TruncateCitation(exact))

	long := strings.Repeat("a", CitationTextLimit+50)
	assert.Equal(t, long[:CitationTextLimit], TruncateCitation(long))
}

func TestTruncateCitation_RuneBoundary(t *testing.T) {
	// Multi-byte content exceeds the limit in bytes but not in runes.
	wide := strings.Repeat("é", CitationTextLimit)
	assert.Equal(t, wide, TruncateCitation(wide))

	// Truncation counts runes, never splitting a multi-byte character.
	longer := strings.Repeat("é", CitationTextLimit+10)
	got := TruncateCitation(longer)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, CitationTextLimit, utf8.RuneCountInString(got))
}

func TestIsSupportedDocument(t *testing.T) {
	assert.True(t, IsSupportedDocument("deal.pdf"))
	assert.True(t, IsSupportedDocument("Deal.PDF"))
	assert.True(t, IsSupportedDocument("terms.docx"))
	assert.True(t, IsSupportedDocument("memo.doc"))
	assert.False(t, IsSupportedDocument("notes.txt"))
	assert.False(t, IsSupportedDocument("pdf"))
}
