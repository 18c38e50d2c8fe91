package models

// Quote is a single stored quote. The ID is assigned by the repository on
// insert and doubles as the vector index entry id (stringified).
type Quote struct {
	ID     int64  `json:"id"`
	Text   string `json:"text"`
	Author string `json:"author,omitempty"`
}

// VectorEntry is one upsert payload for the vector index. Metadata is
// optional; the bulk populate path attaches {author, quote}, the write path
// attaches nothing.
type VectorEntry struct {
	ID       string
	Values   []float32
	Metadata map[string]string
}

// VectorMatch is a single ranked result from a top-K similarity query.
// Matches are ordered by descending similarity score.
type VectorMatch struct {
	ID    string
	Score float64
}
