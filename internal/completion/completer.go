package completion

import (
	"context"
	"fmt"

	"github.com/jfelder/codesweep/internal/config"
)

// Request contains the data sent to a model for completion.
type Request struct {
	SystemPrompt string
	UserPrompt   string
	Model        string
	Temperature  float64
	MaxTokens    int
}

// Completer is the model abstraction. Implementations return the raw
// completion text for a request.
type Completer interface {
	Complete(ctx context.Context, req Request) (string, error)
	Name() string
}

// newCompleter selects a Completer implementation from configuration.
func newCompleter(cfg config.Config) (Completer, error) {
	switch cfg.Provider {
	case "local":
		return &Local{}, nil
	case "openai":
		return newOpenAI(cfg.APIKey, cfg.BaseURL, cfg.MaxRetries), nil
	default:
		return nil, fmt.Errorf("unknown provider: %s", cfg.Provider)
	}
}

// Local is the deterministic no-network responder. It exists so the rest of
// the pipeline can run without a remote dependency.
type Local struct{}

func (l *Local) Name() string { return "local" }

// Complete returns a fixed transformation of the prompt: same input, same
// output, no I/O.
func (l *Local) Complete(_ context.Context, req Request) (string, error) {
	return "Processed: " + req.UserPrompt, nil
}
