package services

import "errors"

// Sentinel errors for the pipeline's failure classes. Handlers use errors.Is
// to map these onto HTTP statuses; nothing below retries on its own.
var (
	// ErrQuestionTooLong rejects questions over the length guard before any
	// external call is made. User-correctable, not an upstream failure.
	ErrQuestionTooLong = errors.New("query text is too long")

	// ErrEmbeddingUnavailable indicates the embedding capability failed or
	// returned no vector for an input. A missing vector is a hard failure,
	// never an empty quote.
	ErrEmbeddingUnavailable = errors.New("failed to generate vector embedding")

	// ErrSearchFailed indicates the vector index query failed.
	ErrSearchFailed = errors.New("vector index query failed")

	// ErrContextUnavailable indicates the repository read behind context
	// assembly failed. The orchestrator degrades to an uncontexted answer
	// instead of aborting.
	ErrContextUnavailable = errors.New("failed to fetch context quotes")

	// ErrGenerationFailed indicates the completion capability failed.
	ErrGenerationFailed = errors.New("failed to generate answer")

	// ErrIndexFailed indicates the vector index upsert failed.
	ErrIndexFailed = errors.New("failed to upsert vector index entry")
)
