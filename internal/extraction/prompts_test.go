package extraction

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	out, err := Render("booth {{booth}} captured {{kind}}", map[string]string{
		"booth": "A-12",
		"kind":  "voice",
	})
	require.NoError(t, err)
	assert.Equal(t, "booth A-12 captured voice", out)
}

func TestRenderMissingVariable(t *testing.T) {
	_, err := Render("hello {{name}} from {{company}}", map[string]string{"name": "Jane"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "company")
}

func TestPromptsCarryFullSchema(t *testing.T) {
	for _, field := range []string{`"name"`, `"email"`, `"phone"`, `"company"`, `"interest"`} {
		assert.Contains(t, ParseSystemPrompt(), field)
		assert.Contains(t, CardSystemPrompt(), field)
	}
	assert.Contains(t, CardSystemPrompt(), `"ocr_text"`)
	assert.NotContains(t, ParseSystemPrompt(), `"ocr_text"`)
}

func TestParseUserPromptEmbedsText(t *testing.T) {
	out := ParseUserPrompt(`hi, I'm Jane from Acme`)
	assert.Contains(t, out, `hi, I'm Jane from Acme`)
}
