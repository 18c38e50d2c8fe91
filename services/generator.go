package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"google.golang.org/genai"

	"github.com/elizabethsiegle/quotes-rag/models"
)

// Generator is the external completion capability. One attempt per request,
// no retries; a transient failure propagates to the caller.
type Generator interface {
	Complete(ctx context.Context, conv models.Conversation) (string, error)
}

// GeminiGenerator implements Generator on top of the Gemini completion API.
type GeminiGenerator struct {
	client *genai.Client
	model  string
	logger *slog.Logger
}

// NewGeminiGenerator wraps a genai client for the given generation model.
// A nil logger falls back to slog.Default().
func NewGeminiGenerator(client *genai.Client, model string, logger *slog.Logger) *GeminiGenerator {
	if logger == nil {
		logger = slog.Default()
	}
	return &GeminiGenerator{client: client, model: model, logger: logger}
}

// Complete implements Generator. Gemini addresses system text through the
// generation config rather than the message list, so the conversation's
// system messages are folded, in order, into a single system instruction;
// the user messages are sent as contents. Semantics are unchanged: when the
// orchestrator omits the context message, the model sees only the role
// prompt and the question.
func (g *GeminiGenerator) Complete(ctx context.Context, conv models.Conversation) (string, error) {
	var system []string
	var contents []*genai.Content
	for _, m := range conv {
		switch m.Role {
		case models.RoleSystem:
			system = append(system, m.Content)
		case models.RoleUser:
			contents = append(contents, &genai.Content{
				Role:  genai.RoleUser,
				Parts: []*genai.Part{{Text: m.Content}},
			})
		default:
			return "", fmt.Errorf("%w: unknown message role %q", ErrGenerationFailed, m.Role)
		}
	}

	cfg := &genai.GenerateContentConfig{}
	if len(system) > 0 {
		cfg.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: strings.Join(system, "\n\n")}},
		}
	}

	result, err := g.client.Models.GenerateContent(ctx, g.model, contents, cfg)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}
	if len(result.Candidates) == 0 || result.Candidates[0].Content == nil ||
		len(result.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("%w: empty response", ErrGenerationFailed)
	}

	var answer strings.Builder
	for _, p := range result.Candidates[0].Content.Parts {
		if p.Text != "" {
			answer.WriteString(p.Text)
		}
	}

	g.logger.Debug("generated answer", "length", answer.Len())
	return answer.String(), nil
}
