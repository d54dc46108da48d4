package analyze

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"unicode/utf8"

	wildcard "github.com/IGLOU-EU/go-wildcard/v2"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/jfelder/codesweep/internal/cache"
	"github.com/jfelder/codesweep/internal/completion"
	"github.com/jfelder/codesweep/internal/config"
	"github.com/jfelder/codesweep/internal/normalize"
	"github.com/jfelder/codesweep/internal/report"
	"github.com/jfelder/codesweep/internal/sanitize"
	"github.com/jfelder/codesweep/internal/scan"
)

// Argument errors. These abort the call that received them, unlike per-file
// failures inside a batch, which are logged and skipped.
var (
	ErrNotFound      = errors.New("file not found")
	ErrNotADirectory = errors.New("not a directory")
)

// Analyzer runs the two-stage pipeline: pattern scanning always, model
// review when a remote provider is configured.
type Analyzer struct {
	rules   *scan.RuleSet
	svc     *completion.Service
	cache   *cache.Cache
	model   string
	redact  bool
	exts    map[string]bool
	include []string
	exclude []string
	workers int
	log     zerolog.Logger
}

// New builds an Analyzer from configuration. Rule compilation and service
// construction fail here, before any file is touched.
func New(cfg config.Config, logger zerolog.Logger) (*Analyzer, error) {
	rules := make(map[string][]scan.Rule, len(cfg.Patterns))
	for category, patternRules := range cfg.Patterns {
		for _, r := range patternRules {
			rules[category] = append(rules[category], scan.Rule{
				Pattern:  r.Pattern,
				Severity: r.Severity,
			})
		}
	}
	ruleSet, err := scan.NewRuleSet(rules)
	if err != nil {
		return nil, err
	}

	svc, err := completion.NewService(cfg, logger)
	if err != nil {
		return nil, err
	}

	respCache, err := cache.New(cfg.CacheEnabled, cfg.CacheDir, cfg.CacheTTLSeconds)
	if err != nil {
		return nil, err
	}

	exts := make(map[string]bool, len(cfg.Extensions))
	for _, ext := range cfg.Extensions {
		exts[ext] = true
	}

	return &Analyzer{
		rules:   ruleSet,
		svc:     svc,
		cache:   respCache,
		model:   cfg.Model,
		redact:  cfg.RedactSecrets,
		exts:    exts,
		include: cfg.Include,
		exclude: cfg.Exclude,
		workers: cfg.Workers,
		log:     logger,
	}, nil
}

// AnalyzeFile analyzes a single file. Pattern scanning always runs; the AI
// path runs only for remote providers, and its failure is recorded on the
// result rather than discarding the pattern findings.
func (a *Analyzer) AnalyzeFile(ctx context.Context, path string) (report.FileResult, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return report.FileResult{}, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return report.FileResult{}, fmt.Errorf("stat %s: %w", path, err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return report.FileResult{}, fmt.Errorf("reading %s: %w", path, err)
	}
	if !utf8.Valid(data) {
		return report.FileResult{}, fmt.Errorf("reading %s: content is not valid UTF-8 text", path)
	}
	content := string(data)

	result := report.FileResult{
		File:            path,
		PatternFindings: a.rules.Scan(content),
	}

	if !a.svc.IsLocal() {
		findings, err := a.aiReview(ctx, content)
		if err != nil {
			a.log.Warn().Err(err).Str("file", path).Msg("AI analysis failed; keeping pattern findings")
			result.AIError = err.Error()
		} else {
			result.AIFindings = findings
		}
	}

	return result, nil
}

// aiReview sends the file content through the governed completion path and
// normalizes whatever comes back. The cache is consulted before dispatch.
func (a *Analyzer) aiReview(ctx context.Context, content string) (report.FindingMap, error) {
	if a.redact {
		content = sanitize.Secrets(content)
	}
	prompt := buildReviewPrompt(content)

	key := cache.Key(a.model, prompt)
	if raw, ok := a.cache.Get(key); ok {
		return normalize.Normalize(raw), nil
	}

	raw, err := a.svc.GetCompletion(ctx, prompt)
	if err != nil {
		return nil, err
	}
	if err := a.cache.Put(key, raw); err != nil {
		a.log.Debug().Err(err).Msg("caching completion failed")
	}
	return normalize.Normalize(raw), nil
}

// AnalyzeDirectory analyzes every supported file under dir recursively,
// with a bounded worker pool. A single file's failure is logged and the
// file omitted; it never aborts the batch. Result order is traversal order,
// which is lexical for the standard walker but not guaranteed stable across
// filesystem implementations.
func (a *Analyzer) AnalyzeDirectory(ctx context.Context, dir string) (report.DirectoryResult, error) {
	info, err := os.Stat(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return report.DirectoryResult{}, fmt.Errorf("%w: %s", ErrNotADirectory, dir)
		}
		return report.DirectoryResult{}, fmt.Errorf("stat %s: %w", dir, err)
	}
	if !info.IsDir() {
		return report.DirectoryResult{}, fmt.Errorf("%w: %s", ErrNotADirectory, dir)
	}

	paths, err := a.collect(dir)
	if err != nil {
		return report.DirectoryResult{}, err
	}

	// Each slot is filled by exactly one worker; nil slots (failed files)
	// are dropped afterwards, preserving traversal order.
	results := make([]*report.FileResult, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.workers)
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			res, err := a.AnalyzeFile(gctx, path)
			if err != nil {
				a.log.Warn().Err(err).Str("file", path).Msg("skipping file")
				return nil
			}
			results[i] = &res
			return nil
		})
	}
	// Workers swallow per-file errors, so Wait only reflects ctx cancellation.
	if err := g.Wait(); err != nil {
		return report.DirectoryResult{}, err
	}

	out := report.DirectoryResult{Files: []report.FileResult{}}
	for _, r := range results {
		if r != nil {
			out.Files = append(out.Files, *r)
		}
	}
	a.log.Info().Int("analyzed", len(out.Files)).Int("matched", len(paths)).Str("dir", dir).Msg("directory analysis complete")
	return out, nil
}

// collect walks dir and returns the files that pass the extension and
// include/exclude filters.
func (a *Analyzer) collect(dir string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			a.log.Warn().Err(err).Str("path", path).Msg("skipping unreadable entry")
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if !a.exts[filepath.Ext(path)] {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			rel = path
		}
		if !a.matches(filepath.ToSlash(rel)) {
			return nil
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", dir, err)
	}
	return paths, nil
}

// matches applies include/exclude glob patterns to a slash-separated
// relative path. An empty include list admits everything.
func (a *Analyzer) matches(rel string) bool {
	base := filepath.Base(rel)
	for _, pattern := range a.exclude {
		if wildcard.Match(pattern, rel) || wildcard.Match(pattern, base) {
			return false
		}
	}
	if len(a.include) == 0 {
		return true
	}
	for _, pattern := range a.include {
		if wildcard.Match(pattern, rel) || wildcard.Match(pattern, base) {
			return true
		}
	}
	return false
}
