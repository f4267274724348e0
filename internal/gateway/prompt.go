package gateway

import (
	"fmt"
	"strings"
	"sync"

	"github.com/pkoukk/tiktoken-go"

	"github.com/lmchat/lmchat/internal/models"
)

var (
	encOnce sync.Once
	encoder *tiktoken.Tiktoken
)

// countTokens measures text with the cl100k_base encoding. The encoding
// tables are fetched lazily; if they cannot be loaded (offline run) a
// rough 4-bytes-per-token estimate is used instead, which only affects
// how much history fits in the budget.
func countTokens(text string) int {
	encOnce.Do(func() {
		enc, err := tiktoken.GetEncoding("cl100k_base")
		if err == nil {
			encoder = enc
		}
	})
	if encoder == nil {
		return len(text)/4 + 1
	}
	return len(encoder.Encode(text, nil, nil))
}

// buildPrompt flattens prior history and the current prompt into a single
// transcript. History is trimmed oldest-first so the whole transcript stays
// within budget tokens; the current prompt is always kept. Long histories
// slow generation down, which is why the budget exists at all.
func buildPrompt(prompt string, history []models.Message, budget int) string {
	current := fmt.Sprintf("%s: %s\n\nResponse:", models.RoleUser, prompt)
	remaining := budget - countTokens(current)

	var kept []string
	for i := len(history) - 1; i >= 0; i-- {
		line := fmt.Sprintf("%s: %s\n", history[i].Role, history[i].Content)
		cost := countTokens(line)
		if cost > remaining {
			break
		}
		remaining -= cost
		kept = append(kept, line)
	}

	var b strings.Builder
	for i := len(kept) - 1; i >= 0; i-- {
		b.WriteString(kept[i])
	}
	if b.Len() > 0 {
		b.WriteString("\n")
	}
	b.WriteString(current)
	return b.String()
}
