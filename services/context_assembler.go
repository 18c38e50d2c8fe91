package services

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/elizabethsiegle/quotes-rag/models"
	"github.com/elizabethsiegle/quotes-rag/repository"
)

// QuoteStore is the slice of the repository the assembler and orchestrator
// consume. Defined here, consumer-side, so both can be tested with fakes.
type QuoteStore interface {
	Insert(ctx context.Context, text string) (models.Quote, error)
	FetchRange(ctx context.Context, ids []int64, excludeID *int64, minID int64) ([]models.Quote, error)
	FetchPage(ctx context.Context, limit int) ([]models.Quote, error)
}

// ContextAssembler turns vector-match candidate ids into the single
// instructional context message handed to the answer generator.
type ContextAssembler struct {
	store  QuoteStore
	logger *slog.Logger
}

// NewContextAssembler creates an assembler over the given store. A nil
// logger falls back to slog.Default().
func NewContextAssembler(store QuoteStore, logger *slog.Logger) *ContextAssembler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ContextAssembler{store: store, logger: logger}
}

// Assemble fetches the candidate quotes and renders them into the context
// message. The second return reports whether a context message was produced:
// only an empty candidate set yields none, and the caller must then omit the
// context message entirely rather than send an empty one. Candidates that
// the exclusion and floor rules filter away still leave the instructional
// preamble in place, rendered over zero quote lines. Candidate ids that do
// not parse as integers are skipped; ids at or below the corpus-hygiene
// floor are filtered by the store.
func (a *ContextAssembler) Assemble(ctx context.Context, question string, candidateIDs []string) (string, bool, error) {
	if len(candidateIDs) == 0 {
		return "", false, nil
	}

	ids := make([]int64, 0, len(candidateIDs))
	for _, raw := range candidateIDs {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			a.logger.Warn("skipping non-numeric candidate id", "id", raw)
			continue
		}
		ids = append(ids, id)
	}

	var quotes []models.Quote
	if len(ids) > 0 {
		var err error
		quotes, err = a.store.FetchRange(ctx, ids, nil, repository.MinQuoteID)
		if err != nil {
			return "", false, fmt.Errorf("%w: %v", ErrContextUnavailable, err)
		}
	}

	lines := make([]string, 0, len(quotes))
	for _, q := range quotes {
		lines = append(lines, fmt.Sprintf("%d- %s", q.ID, q.Text))
	}

	msg, err := renderContextMessage(strings.Join(lines, "\n"))
	if err != nil {
		return "", false, fmt.Errorf("%w: %v", ErrContextUnavailable, err)
	}

	a.logger.Debug("assembled context", "candidates", len(candidateIDs), "quotes", len(quotes))
	return msg, true, nil
}
