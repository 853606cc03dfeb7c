package domain

import "strings"

// CitationTextLimit is the maximum length of the excerpt carried by a
// citation. Longer chunk content is truncated when the record is built.
const CitationTextLimit = 200

// SupportedExtensions lists the document file extensions the ingestion
// pipeline picks up from the documents directory.
var SupportedExtensions = []string{".pdf", ".docx", ".doc"}

// DocumentRecord identifies one ingested file.
// Created at the first successful parse of a path and never mutated.
type DocumentRecord struct {
	// DocName is the base file name, unique within the index.
	DocName string `json:"doc_name"`

	// DocPath is the absolute path the document was ingested from.
	DocPath string `json:"doc_path"`

	// UploadTimestamp is the ISO-8601 time of first successful parse.
	UploadTimestamp string `json:"upload_timestamp"`
}

// ChunkRecord is the unit of retrieval and citation. Records are
// immutable once created; re-ingesting a changed file replaces the
// whole set of chunks for that document.
type ChunkRecord struct {
	// DocName is the owning document's name.
	DocName string `json:"doc_name"`

	// DocPath is the owning document's path.
	DocPath string `json:"doc_path"`

	// ChunkIndex is the 0-based position in parser output,
	// unique within DocName.
	ChunkIndex uint `json:"chunk_index"`

	// Content is the full extracted text of the chunk.
	Content string `json:"content"`

	// Page is the 0-based page the chunk was extracted from,
	// nil when the parser did not report one.
	Page *int `json:"page,omitempty"`

	// CitationText is Content truncated to CitationTextLimit characters.
	CitationText string `json:"citation_text"`

	// UploadTimestamp is the ISO-8601 ingestion time.
	UploadTimestamp string `json:"upload_timestamp"`

	// Metadata carries parser-reported attributes such as chunk type.
	Metadata map[string]string `json:"metadata,omitempty"`
}

// TruncateCitation shortens chunk content to the citation excerpt
// length, counting runes so multi-byte characters are never split.
func TruncateCitation(content string) string {
	if len(content) <= CitationTextLimit {
		return content
	}
	runes := []rune(content)
	if len(runes) <= CitationTextLimit {
		return content
	}
	return string(runes[:CitationTextLimit])
}

// IsSupportedDocument reports whether the file name carries one of the
// supported document extensions.
func IsSupportedDocument(name string) bool {
	lower := strings.ToLower(name)
	for _, ext := range SupportedExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// DocumentSummary aggregates per-document index statistics.
type DocumentSummary struct {
	DocName         string `json:"doc_name"`
	TotalChunks     int    `json:"total_chunks"`
	TotalPages      int    `json:"total_pages"`
	TotalCharacters int    `json:"total_characters"`
	UploadTimestamp string `json:"upload_timestamp"`
	Pages           []int  `json:"pages"`
}

// IndexOverview summarises the whole index.
type IndexOverview struct {
	TotalDocuments int                 `json:"total_documents"`
	TotalChunks    int                 `json:"total_chunks"`
	Documents      []DocumentChunkInfo `json:"documents"`
}

// DocumentChunkInfo is one row of an IndexOverview.
type DocumentChunkInfo struct {
	DocName         string `json:"doc_name"`
	ChunkCount      int    `json:"chunk_count"`
	UploadTimestamp string `json:"upload_timestamp"`
}
