package domain

// DateFilterToday is the sentinel accepted by clause searches; it is
// translated to the current date in ISO form before comparison.
const DateFilterToday = "today"

// ClauseMatch is one chunk-level hit for a clause search.
type ClauseMatch struct {
	Page      *int    `json:"page,omitempty"`
	Text      string  `json:"text"`
	Relevance float64 `json:"relevance"`
}

// DocumentClauses groups clause matches for a single document.
// Matches keep the search engine's ranking order.
type DocumentClauses struct {
	DocName         string        `json:"doc_name"`
	DocPath         string        `json:"doc_path"`
	UploadTimestamp string        `json:"upload_timestamp"`
	Matches         []ClauseMatch `json:"matches"`
}
