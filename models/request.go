package models

type CreateQuoteRequest struct {
	Text string `json:"text"`
}
