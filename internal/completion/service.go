package completion

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/jfelder/codesweep/internal/config"
	"github.com/jfelder/codesweep/internal/keytrack"
	"github.com/jfelder/codesweep/internal/ratelimit"
	"github.com/jfelder/codesweep/internal/sanitize"
)

const systemPrompt = `You are a strict, expert code reviewer. Review the code you are given ` +
	`and respond with ONLY a JSON object keyed by these categories: security, performance, ` +
	`code_style, potential_bugs, best_practices. Each value must be an array of findings ` +
	`with this exact structure: ` +
	`"line": 1-based line number, "severity": "low"|"medium"|"high", ` +
	`"description": what is wrong and why it matters, "suggestion": how to fix it. ` +
	`A category with no findings must map to an empty array. No markdown, no preamble.`

// Service routes prompts to a Completer behind the request-governance layer:
// prompt sanitization, rate limiting, key-rotation advisory, a per-request
// timeout, and response vetting. One Service instance owns its limiter and
// tracker; concurrent callers share and serialize through them.
type Service struct {
	completer Completer
	limiter   *ratelimit.Limiter
	keys      *keytrack.Tracker

	apiKey      string
	model       string
	temperature float64
	maxTokens   int
	timeout     time.Duration
	validate    bool

	log zerolog.Logger
}

// NewService builds a Service from configuration. Configuration problems
// (unknown provider, missing credential for a remote provider) fail here,
// never on first use.
func NewService(cfg config.Config, logger zerolog.Logger) (*Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	completer, err := newCompleter(cfg)
	if err != nil {
		return nil, err
	}
	return &Service{
		completer:   completer,
		limiter:     ratelimit.New(cfg.RateLimitRPM),
		keys:        keytrack.New(cfg.RotationInterval()),
		apiKey:      cfg.APIKey,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		timeout:     cfg.RequestTimeout(),
		validate:    cfg.ValidateResponses,
		log:         logger,
	}, nil
}

// Name returns the active provider name.
func (s *Service) Name() string { return s.completer.Name() }

// IsLocal reports whether the service uses the deterministic local responder.
func (s *Service) IsLocal() bool {
	_, ok := s.completer.(*Local)
	return ok
}

// GetCompletion sanitizes the prompt and returns the model's completion.
// The local responder skips all governance: no rate limiting, no key
// tracking, no timeout. Remote dispatch serializes through the rate limiter
// and records credential usage once per attempt, whatever the outcome.
func (s *Service) GetCompletion(ctx context.Context, prompt string) (string, error) {
	clean := sanitize.Input(prompt)

	req := Request{
		SystemPrompt: systemPrompt,
		UserPrompt:   clean,
		Model:        s.model,
		Temperature:  s.temperature,
		MaxTokens:    s.maxTokens,
	}

	if s.IsLocal() {
		return s.completer.Complete(ctx, req)
	}

	// Advisory only: a stale key is logged, never blocked on.
	if s.keys.ShouldRotate(s.apiKey) {
		s.log.Warn().
			Str("provider", s.completer.Name()).
			Str("key_fingerprint", fingerprint(s.apiKey)).
			Msg("API key has exceeded its rotation interval")
	}

	s.limiter.Wait()
	s.keys.MarkUsed(s.apiKey)

	cctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	text, err := s.completer.Complete(cctx, req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", &Error{
				Msg: fmt.Sprintf("no completion within %s", s.timeout),
				Err: ErrTimeout,
			}
		}
		return "", &Error{Msg: "provider request failed", Err: err}
	}

	if strings.TrimSpace(text) == "" {
		return "", &Error{Msg: "provider returned no content", Err: ErrEmptyResponse}
	}
	if s.validate && !sanitize.ValidResponse(map[string]any{"content": text}) {
		return "", &Error{Msg: "response failed injection check", Err: ErrInvalidResponse}
	}

	return text, nil
}

// fingerprint renders a loggable identifier for a credential without
// exposing it.
func fingerprint(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "…" + key[len(key)-4:]
}
