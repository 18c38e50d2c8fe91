package services

import (
	"context"
	"strconv"

	"github.com/elizabethsiegle/quotes-rag/models"
	"github.com/elizabethsiegle/quotes-rag/repository"
)

// fakeEmbedder implements Embedder for testing.
type fakeEmbedder struct {
	embedErr   error
	vector     []float32 // vector to return for every input
	callCount  int
	lastInputs []string
}

func (f *fakeEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	f.callCount++
	f.lastInputs = texts
	if f.embedErr != nil {
		return nil, f.embedErr
	}
	vec := f.vector
	if vec == nil {
		vec = []float32{0.1, 0.2, 0.3}
	}
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = vec
	}
	return out, nil
}

// fakeIndex implements VectorIndex with an in-memory id-keyed map, so upsert
// idempotence is observable.
type fakeIndex struct {
	upsertErr   error
	queryErr    error
	matches     []models.VectorMatch
	entries     map[string]models.VectorEntry
	queryCount  int
	lastTopK    int
	upsertCount int
}

func (f *fakeIndex) Upsert(_ context.Context, entries []models.VectorEntry) error {
	f.upsertCount++
	if f.upsertErr != nil {
		return f.upsertErr
	}
	if f.entries == nil {
		f.entries = make(map[string]models.VectorEntry)
	}
	for _, e := range entries {
		f.entries[e.ID] = e
	}
	return nil
}

func (f *fakeIndex) Query(_ context.Context, _ []float32, topK int) ([]models.VectorMatch, error) {
	f.queryCount++
	f.lastTopK = topK
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	return f.matches, nil
}

// fakeStore implements QuoteStore over an in-memory slice.
type fakeStore struct {
	insertErr error
	fetchErr  error
	quotes    []models.Quote
	nextID    int64
}

func (f *fakeStore) Insert(_ context.Context, text string) (models.Quote, error) {
	if f.insertErr != nil {
		return models.Quote{}, f.insertErr
	}
	if f.nextID == 0 {
		f.nextID = repository.MinQuoteID + 1
	}
	q := models.Quote{ID: f.nextID, Text: text}
	f.nextID++
	f.quotes = append(f.quotes, q)
	return q, nil
}

func (f *fakeStore) FetchRange(_ context.Context, ids []int64, excludeID *int64, minID int64) ([]models.Quote, error) {
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	want := make(map[int64]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var out []models.Quote
	for _, q := range f.quotes {
		if !want[q.ID] || q.ID <= minID {
			continue
		}
		if excludeID != nil && q.ID == *excludeID {
			continue
		}
		out = append(out, q)
	}
	return out, nil
}

func (f *fakeStore) FetchPage(_ context.Context, limit int) ([]models.Quote, error) {
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	if limit > len(f.quotes) {
		limit = len(f.quotes)
	}
	return f.quotes[:limit], nil
}

// fakeGenerator implements Generator and records the conversation it saw.
type fakeGenerator struct {
	completeErr error
	answer      string
	callCount   int
	lastConv    models.Conversation
}

func (f *fakeGenerator) Complete(_ context.Context, conv models.Conversation) (string, error) {
	f.callCount++
	f.lastConv = conv
	if f.completeErr != nil {
		return "", f.completeErr
	}
	return f.answer, nil
}

func quoteWithID(id int64, text string) models.Quote {
	return models.Quote{ID: id, Text: text}
}

// sampleQuotes are two corpus rows safely above the hygiene floor.
func sampleQuotes() []models.Quote {
	return []models.Quote{
		quoteWithID(100001, "carpe diem"),
		quoteWithID(100002, "cogito ergo sum"),
	}
}

func idString(id int64) string {
	return strconv.FormatInt(id, 10)
}
