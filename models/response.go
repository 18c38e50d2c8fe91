package models

// CreateQuoteResponse is returned by POST /quotes once the quote row exists
// and its embedding has been upserted into the vector index.
type CreateQuoteResponse struct {
	ID       int64  `json:"id"`
	Text     string `json:"text"`
	Inserted bool   `json:"inserted"`
}

// PopulateResponse reports how many existing quotes were re-embedded and
// upserted by GET /populate.
type PopulateResponse struct {
	Indexed int `json:"indexed"`
}
