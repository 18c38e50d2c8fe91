package services

import (
	"context"
	"fmt"
	"log/slog"

	"google.golang.org/genai"
)

// Embedder converts text strings into fixed-dimension vectors, one vector per
// input in the same order. A missing or empty vector for any input is a hard
// failure for the whole call.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// GeminiEmbedder implements Embedder on top of the Gemini embedding API.
type GeminiEmbedder struct {
	client *genai.Client
	model  string
	logger *slog.Logger
}

// NewGeminiEmbedder wraps a genai client for the given embedding model.
// A nil logger falls back to slog.Default().
func NewGeminiEmbedder(client *genai.Client, model string, logger *slog.Logger) *GeminiEmbedder {
	if logger == nil {
		logger = slog.Default()
	}
	return &GeminiEmbedder{client: client, model: model, logger: logger}
}

// Embed implements Embedder.
func (e *GeminiEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	contents := make([]*genai.Content, 0, len(texts))
	for _, t := range texts {
		contents = append(contents, &genai.Content{Parts: []*genai.Part{{Text: t}}})
	}

	resp, err := e.client.Models.EmbedContent(ctx, e.model, contents, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEmbeddingUnavailable, err)
	}
	if resp == nil {
		return nil, fmt.Errorf("%w: nil response", ErrEmbeddingUnavailable)
	}
	if len(resp.Embeddings) != len(texts) {
		return nil, fmt.Errorf("%w: expected %d embeddings, got %d",
			ErrEmbeddingUnavailable, len(texts), len(resp.Embeddings))
	}

	vectors := make([][]float32, len(texts))
	for i, emb := range resp.Embeddings {
		if emb == nil || len(emb.Values) == 0 {
			return nil, fmt.Errorf("%w: empty vector for input %d", ErrEmbeddingUnavailable, i)
		}
		vectors[i] = emb.Values
	}

	e.logger.Debug("embedded texts", "count", len(texts), "dimensions", len(vectors[0]))
	return vectors, nil
}
