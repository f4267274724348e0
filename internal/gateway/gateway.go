// Package gateway obtains completions from an ordered list of backend
// models, falling through unavailable candidates instead of surfacing
// their failures.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lmchat/lmchat/internal/models"
)

// ErrAllModelsUnavailable is returned when every candidate in the list has
// been tried once without producing a usable reply.
var ErrAllModelsUnavailable = errors.New("all models unavailable")

// AllUnavailableError reports the candidates attempted during an exhausted
// Complete call. It unwraps to ErrAllModelsUnavailable.
type AllUnavailableError struct {
	Attempted []string
}

func (e *AllUnavailableError) Error() string {
	return fmt.Sprintf("all models unavailable (tried %s)", strings.Join(e.Attempted, ", "))
}

func (e *AllUnavailableError) Unwrap() error {
	return ErrAllModelsUnavailable
}

// Gateway tries candidates in their declared preference order, one pass per
// Complete call. It keeps no state between calls beyond the list itself.
type Gateway struct {
	candidates   []Candidate
	timeout      time.Duration
	promptBudget int
	logger       *zap.Logger
}

// New builds a gateway over candidates, giving each at most timeout per
// attempt and trimming flattened history to promptBudget tokens.
func New(candidates []Candidate, timeout time.Duration, promptBudget int, logger *zap.Logger) *Gateway {
	return &Gateway{
		candidates:   candidates,
		timeout:      timeout,
		promptBudget: promptBudget,
		logger:       logger,
	}
}

// Candidates returns the candidate names in preference order.
func (g *Gateway) Candidates() []string {
	names := make([]string, 0, len(g.candidates))
	for _, c := range g.candidates {
		names = append(names, c.Name())
	}
	return names
}

// Complete asks each candidate in order for a reply to prompt, given the
// prior history, and returns the first non-empty one. A candidate that
// errors or answers with blank text is routine and absorbed; only total
// exhaustion is an error, as *AllUnavailableError.
func (g *Gateway) Complete(ctx context.Context, prompt string, history []models.Message) (string, error) {
	requestID := uuid.NewString()
	flattened := buildPrompt(prompt, history, g.promptBudget)

	attempted := make([]string, 0, len(g.candidates))
	for _, cand := range g.candidates {
		attempted = append(attempted, cand.Name())

		cctx, cancel := context.WithTimeout(ctx, g.timeout)
		reply, err := cand.Request(cctx, flattened)
		cancel()

		if err != nil {
			g.logger.Warn("candidate unavailable",
				zap.String("request_id", requestID),
				zap.String("candidate", cand.Name()),
				zap.Error(err))
			continue
		}

		reply = strings.TrimSpace(reply)
		if reply == "" {
			g.logger.Warn("candidate returned empty reply",
				zap.String("request_id", requestID),
				zap.String("candidate", cand.Name()))
			continue
		}

		g.logger.Info("completion generated",
			zap.String("request_id", requestID),
			zap.String("candidate", cand.Name()))
		return reply, nil
	}

	g.logger.Error("all candidates exhausted",
		zap.String("request_id", requestID),
		zap.Strings("attempted", attempted))
	return "", &AllUnavailableError{Attempted: attempted}
}
