package tokenizer

import (
	"strings"
)

// EstimateTokens gives a rough token count for transcript or OCR text.
// Good enough for budget checks before a parse call; exact counts would
// need tiktoken-go.
func EstimateTokens(text string) int {
	// ~4 tokens per 3 English words
	words := strings.Fields(text)
	return max(len(words)*4/3, 1)
}
