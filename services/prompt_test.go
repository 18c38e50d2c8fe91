package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderContextMessage(t *testing.T) {
	msg, err := renderContextMessage("100001- carpe diem\n100002- cogito ergo sum")
	require.NoError(t, err)

	assert.True(t, len(msg) > 0)
	assert.Contains(t, msg, "Context:\n")
	assert.Contains(t, msg, "Only return one quote relating to the user's input")
	assert.Contains(t, msg, "100001- carpe diem\n100002- cogito ergo sum")
}

func TestSystemPromptIsFixed(t *testing.T) {
	assert.Equal(t, "You are a helpful assistant", SystemPrompt)
}
