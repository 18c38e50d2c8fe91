package services

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"unicode/utf8"

	"github.com/elizabethsiegle/quotes-rag/models"
	"github.com/elizabethsiegle/quotes-rag/repository"
)

const (
	// topK candidate quotes fetched from the vector index per question.
	topK = 8

	// maxQuestionLength is the input guard on question text. Longer
	// questions are rejected before any external call.
	maxQuestionLength = 500

	// defaultQuestion stands in when the caller provides no question.
	defaultQuestion = "What is the square root of 9?"

	// populatePageSize bounds how many existing quotes one populate run
	// re-embeds and indexes.
	populatePageSize = 60
)

// RAGService is the retrieval-augmented pipeline: ask a question, create a
// quote, bulk-index the existing corpus, or repair one index entry.
type RAGService interface {
	Ask(ctx context.Context, question string) (string, error)
	CreateQuote(ctx context.Context, text string) (*models.CreateQuoteResponse, error)
	Populate(ctx context.Context) (int, error)
	Reindex(ctx context.Context, id int64) error
}

type ragServiceImpl struct {
	embedder  Embedder
	index     VectorIndex
	assembler *ContextAssembler
	generator Generator
	store     QuoteStore
	logger    *slog.Logger
}

// NewRAGService wires the pipeline's capabilities together. A nil logger
// falls back to slog.Default().
func NewRAGService(embedder Embedder, index VectorIndex, assembler *ContextAssembler, generator Generator, store QuoteStore, logger *slog.Logger) RAGService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ragServiceImpl{
		embedder:  embedder,
		index:     index,
		assembler: assembler,
		generator: generator,
		store:     store,
		logger:    logger,
	}
}

// Ask runs the question through embed, search, context assembly, and
// generation, returning the model's raw answer text. Requests are stateless;
// every call starts from the question alone.
func (r *ragServiceImpl) Ask(ctx context.Context, question string) (string, error) {
	if question == "" {
		question = defaultQuestion
	}
	if n := utf8.RuneCountInString(question); n > maxQuestionLength {
		return "", fmt.Errorf("%w: %d characters, limit %d", ErrQuestionTooLong, n, maxQuestionLength)
	}

	vectors, err := r.embedder.Embed(ctx, []string{question})
	if err != nil {
		return "", err
	}

	matches, err := r.index.Query(ctx, vectors[0], topK)
	if err != nil {
		return "", err
	}

	candidateIDs := make([]string, 0, len(matches))
	for _, m := range matches {
		candidateIDs = append(candidateIDs, m.ID)
	}
	r.logger.Debug("vector search complete", "question_length", len(question), "candidates", len(candidateIDs))

	// A failed context fetch degrades to an uncontexted answer: an
	// ungrounded response beats no response.
	contextMessage, hasContext, err := r.assembler.Assemble(ctx, question, candidateIDs)
	if err != nil {
		r.logger.Warn("context assembly failed, answering without context", "error", err)
		hasContext = false
	}

	conv := make(models.Conversation, 0, 3)
	if hasContext {
		conv = append(conv, models.Message{Role: models.RoleSystem, Content: contextMessage})
	}
	conv = append(conv,
		models.Message{Role: models.RoleSystem, Content: SystemPrompt},
		models.Message{Role: models.RoleUser, Content: question},
	)

	answer, err := r.generator.Complete(ctx, conv)
	if err != nil {
		return "", err
	}

	r.logger.Info("answered question", "context", hasContext, "answer_length", len(answer))
	return answer, nil
}

// CreateQuote inserts the quote, embeds its text, and upserts the vector
// index entry keyed by the new id. The three steps form a saga with no
// rollback: a failure mid-way leaves earlier steps in place, and Reindex is
// the repair path for the resulting gap.
func (r *ragServiceImpl) CreateQuote(ctx context.Context, text string) (*models.CreateQuoteResponse, error) {
	quote, err := r.store.Insert(ctx, text)
	if err != nil {
		r.logger.Error("quote insert failed", "error", err)
		return nil, err
	}

	vectors, err := r.embedder.Embed(ctx, []string{quote.Text})
	if err != nil {
		r.logger.Error("embedding failed after insert", "id", quote.ID, "error", err)
		return nil, err
	}

	entry := models.VectorEntry{
		ID:     strconv.FormatInt(quote.ID, 10),
		Values: vectors[0],
	}
	if err := r.index.Upsert(ctx, []models.VectorEntry{entry}); err != nil {
		r.logger.Error("index upsert failed after insert", "id", quote.ID, "error", err)
		return nil, err
	}

	r.logger.Info("created quote", "id", quote.ID)
	return &models.CreateQuoteResponse{ID: quote.ID, Text: quote.Text, Inserted: true}, nil
}

// Populate re-embeds a page of existing quotes and upserts their index
// entries with {author, quote} metadata. Upsert-by-id makes repeat runs safe.
func (r *ragServiceImpl) Populate(ctx context.Context) (int, error) {
	quotes, err := r.store.FetchPage(ctx, populatePageSize)
	if err != nil {
		return 0, err
	}

	indexed := 0
	for _, q := range quotes {
		if err := r.upsertQuote(ctx, q); err != nil {
			return indexed, err
		}
		indexed++
		r.logger.Debug("indexed quote", "id", q.ID)
	}

	r.logger.Info("populate complete", "indexed", indexed)
	return indexed, nil
}

// Reindex re-embeds and re-upserts a single quote's index entry. Idempotent;
// used to repair a write saga that failed after the insert step.
func (r *ragServiceImpl) Reindex(ctx context.Context, id int64) error {
	quotes, err := r.store.FetchRange(ctx, []int64{id}, nil, repository.MinQuoteID)
	if err != nil {
		return err
	}
	if len(quotes) == 0 {
		return fmt.Errorf("quote %d not found", id)
	}
	if err := r.upsertQuote(ctx, quotes[0]); err != nil {
		return err
	}
	r.logger.Info("reindexed quote", "id", id)
	return nil
}

func (r *ragServiceImpl) upsertQuote(ctx context.Context, q models.Quote) error {
	vectors, err := r.embedder.Embed(ctx, []string{q.Text})
	if err != nil {
		return err
	}
	entry := models.VectorEntry{
		ID:     strconv.FormatInt(q.ID, 10),
		Values: vectors[0],
		Metadata: map[string]string{
			"author": q.Author,
			"quote":  q.Text,
		},
	}
	return r.index.Upsert(ctx, []models.VectorEntry{entry})
}
