package tui

import "strings"

// estimateTokens returns approximate token count (~4 chars per token)
func estimateTokens(text string) int {
	return (len(text) + 3) / 4
}

// getContextLimit returns the context window size for a model
func getContextLimit(model string) int {
	model = strings.ToLower(model)

	switch {
	case strings.Contains(model, "claude"):
		return 200000
	case strings.Contains(model, "gpt-4o"), strings.Contains(model, "gpt-4-turbo"):
		return 128000
	case strings.Contains(model, "gpt-4-32k"):
		return 32000
	case strings.Contains(model, "gpt-4"):
		return 8000
	case strings.Contains(model, "gpt-3.5"):
		return 16000
	case strings.Contains(model, "llama-3"), strings.Contains(model, "llama3"):
		return 128000
	case strings.Contains(model, "mixtral"):
		return 32000
	case strings.Contains(model, "qwen"):
		return 32000
	}
	return 8000
}

// promptBudget reports the estimated prompt size against the model window.
// The reply needs room too, so maxTokens is reserved.
func promptBudget(model string, maxTokens int, parts ...string) (used, limit int, over bool) {
	for _, p := range parts {
		used += estimateTokens(p)
	}
	limit = getContextLimit(model)
	return used, limit, used+maxTokens > limit
}
