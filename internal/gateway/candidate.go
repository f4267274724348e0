package gateway

import (
	"context"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// Candidate is one backend model the gateway may ask for a completion.
// Request either returns the generated text or an error; the gateway treats
// any error as "this candidate is unavailable" and moves on.
type Candidate interface {
	Name() string
	Request(ctx context.Context, prompt string) (string, error)
}

// OpenAICandidate talks to any OpenAI-compatible endpoint (including a
// local Ollama) through langchaingo.
type OpenAICandidate struct {
	name string
	llm  llms.LLM
}

// NewOpenAICandidate builds a candidate for one model served at baseURL.
func NewOpenAICandidate(name, baseURL, token string) (*OpenAICandidate, error) {
	llm, err := openai.New(
		openai.WithToken(token),
		openai.WithBaseURL(baseURL),
		openai.WithModel(name),
	)
	if err != nil {
		return nil, err
	}
	return &OpenAICandidate{name: name, llm: llm}, nil
}

func (c *OpenAICandidate) Name() string {
	return c.name
}

func (c *OpenAICandidate) Request(ctx context.Context, prompt string) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, c.llm, prompt)
}
