package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	chromago "github.com/amikos-tech/chroma-go/pkg/api/v2"
	"github.com/amikos-tech/chroma-go/pkg/embeddings"

	"github.com/elizabethsiegle/quotes-rag/models"
)

// VectorIndex is the external similarity-search capability. Upsert is keyed
// by entry id and idempotent: the same id written twice leaves one entry with
// the latest values. Query returns matches ordered by descending similarity.
type VectorIndex interface {
	Upsert(ctx context.Context, entries []models.VectorEntry) error
	Query(ctx context.Context, vector []float32, topK int) ([]models.VectorMatch, error)
}

// ChromaIndex implements VectorIndex over a ChromaDB collection.
type ChromaIndex struct {
	collection chromago.Collection
	logger     *slog.Logger
}

// NewChromaIndex wraps an existing collection. A nil logger falls back to
// slog.Default().
func NewChromaIndex(collection chromago.Collection, logger *slog.Logger) *ChromaIndex {
	if logger == nil {
		logger = slog.Default()
	}
	return &ChromaIndex{collection: collection, logger: logger}
}

// Upsert implements VectorIndex.
func (c *ChromaIndex) Upsert(ctx context.Context, entries []models.VectorEntry) error {
	for _, e := range entries {
		embedding := embeddings.NewEmbeddingFromFloat32(e.Values)

		var err error
		if len(e.Metadata) > 0 {
			err = c.collection.Upsert(ctx,
				chromago.WithIDs(chromago.DocumentID(e.ID)),
				chromago.WithEmbeddings(embedding),
				chromago.WithMetadatas(documentMetadata(e.Metadata)),
			)
		} else {
			err = c.collection.Upsert(ctx,
				chromago.WithIDs(chromago.DocumentID(e.ID)),
				chromago.WithEmbeddings(embedding),
			)
		}
		if err != nil {
			return fmt.Errorf("%w: entry %s: %v", ErrIndexFailed, e.ID, err)
		}
		c.logger.Debug("upserted index entry", "id", e.ID)
	}
	return nil
}

// Query implements VectorIndex. An empty match set is valid, not an error.
func (c *ChromaIndex) Query(ctx context.Context, vector []float32, topK int) ([]models.VectorMatch, error) {
	embedding := embeddings.NewEmbeddingFromFloat32(vector)

	results, err := c.collection.Query(ctx,
		chromago.WithQueryEmbeddings(embedding),
		chromago.WithNResults(topK),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSearchFailed, err)
	}

	idGroups := results.GetIDGroups()
	if len(idGroups) == 0 {
		return nil, nil
	}
	distanceGroups := results.GetDistancesGroups()

	matches := make([]models.VectorMatch, 0, len(idGroups[0]))
	for i, id := range idGroups[0] {
		m := models.VectorMatch{ID: string(id)}
		if len(distanceGroups) > 0 && i < len(distanceGroups[0]) {
			// Chroma reports cosine distance; flip it into a similarity score
			// so larger means closer.
			m.Score = 1 - float64(distanceGroups[0][i])
		}
		matches = append(matches, m)
	}

	c.logger.Debug("vector query complete", "matches", len(matches), "topK", topK)
	return matches, nil
}

func documentMetadata(attrs map[string]string) chromago.DocumentMetadata {
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	md := make([]*chromago.MetaAttribute, 0, len(keys))
	for _, k := range keys {
		md = append(md, chromago.NewStringAttribute(k, attrs[k]))
	}
	return chromago.NewDocumentMetadata(md...)
}
