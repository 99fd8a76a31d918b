package tokenizer

import "strings"

// CountTokens provides a rough token count estimate for English text,
// used for prompt and completion budgeting.
func CountTokens(text string) int {
	words := strings.Fields(text)
	return max(len(words)*4/3, 1)
}
