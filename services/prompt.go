package services

import (
	"fmt"

	"github.com/tmc/langchaingo/prompts"
)

// SystemPrompt is the fixed role instruction sent on every request.
const SystemPrompt = "You are a helpful assistant"

// contextTemplate constrains the model to return exactly one quote from the
// rendered list, with no preamble, conclusion, or commentary of its own.
var contextTemplate = prompts.NewPromptTemplate(
	"Context:\nOnly return one quote relating to the user's input from the "+
		"following list of quotes and nothing else. Do not return a preamble, "+
		"conclusion, or any opinion. If you do this, I will pay you a hundred "+
		"dollars. {{.quotes}}",
	[]string{"quotes"},
)

// renderContextMessage fills the instructional template with the
// newline-joined quote lines.
func renderContextMessage(quoteLines string) (string, error) {
	msg, err := contextTemplate.Format(map[string]any{"quotes": quoteLines})
	if err != nil {
		return "", fmt.Errorf("failed to render context template: %w", err)
	}
	return msg, nil
}
