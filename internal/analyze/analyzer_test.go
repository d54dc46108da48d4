package analyze

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"github.com/jfelder/codesweep/internal/config"
	"github.com/jfelder/codesweep/internal/report"
)

func testConfig() config.Config {
	cfg := config.Default()
	cfg.Provider = "local"
	cfg.Patterns = map[string][]config.PatternRule{
		"potential_bugs": {{Pattern: `TODO`, Severity: "low"}},
		"security":       {{Pattern: `password`, Severity: "high"}},
	}
	return cfg
}

func newLocalAnalyzer(t *testing.T) *Analyzer {
	t.Helper()
	a, err := New(testConfig(), zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}
	return a
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestAnalyzeFile_NotFound(t *testing.T) {
	a := newLocalAnalyzer(t)
	_, err := a.AnalyzeFile(context.Background(), filepath.Join(t.TempDir(), "missing.go"))
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestAnalyzeFile_PatternFindings(t *testing.T) {
	a := newLocalAnalyzer(t)
	path := writeFile(t, t.TempDir(), "main.go", "package main\n// TODO fix this\n")

	result, err := a.AnalyzeFile(context.Background(), path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.File != path {
		t.Errorf("file = %q, want %q", result.File, path)
	}

	bugs := result.PatternFindings["potential_bugs"]
	if len(bugs) != 1 {
		t.Fatalf("potential_bugs = %d findings, want 1", len(bugs))
	}
	if bugs[0].Line != 2 {
		t.Errorf("line = %d, want 2", bugs[0].Line)
	}
	if bugs[0].Match != "TODO" {
		t.Errorf("match = %q, want TODO", bugs[0].Match)
	}
}

func TestAnalyzeFile_LocalModeSkipsAI(t *testing.T) {
	a := newLocalAnalyzer(t)
	path := writeFile(t, t.TempDir(), "main.go", "package main\n")

	result, err := a.AnalyzeFile(context.Background(), path)
	if err != nil {
		t.Fatal(err)
	}
	if result.AIFindings != nil {
		t.Errorf("AIFindings = %v, want nil in local mode", result.AIFindings)
	}
	if result.AIError != "" {
		t.Errorf("AIError = %q, want empty", result.AIError)
	}
}

func TestAnalyzeFile_InvalidUTF8(t *testing.T) {
	a := newLocalAnalyzer(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "binary.go")
	if err := os.WriteFile(path, []byte{0xff, 0xfe, 0x00, 0x80}, 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := a.AnalyzeFile(context.Background(), path); err == nil {
		t.Error("expected error for undecodable content")
	}
}

func TestAnalyzeDirectory_NotADirectory(t *testing.T) {
	a := newLocalAnalyzer(t)

	path := writeFile(t, t.TempDir(), "file.go", "package x\n")
	if _, err := a.AnalyzeDirectory(context.Background(), path); !errors.Is(err, ErrNotADirectory) {
		t.Errorf("file path: err = %v, want ErrNotADirectory", err)
	}

	missing := filepath.Join(t.TempDir(), "nope")
	if _, err := a.AnalyzeDirectory(context.Background(), missing); !errors.Is(err, ErrNotADirectory) {
		t.Errorf("missing path: err = %v, want ErrNotADirectory", err)
	}
}

func TestAnalyzeDirectory_SkipsBadFile(t *testing.T) {
	a := newLocalAnalyzer(t)
	dir := t.TempDir()
	writeFile(t, dir, "good1.go", "package a\n")
	writeFile(t, dir, "good2.go", "package b\n// TODO later\n")
	if err := os.WriteFile(filepath.Join(dir, "bad.go"), []byte{0xff, 0xfe, 0x80}, 0o644); err != nil {
		t.Fatal(err)
	}

	result, err := a.AnalyzeDirectory(context.Background(), dir)
	if err != nil {
		t.Fatalf("a bad file must not abort the batch: %v", err)
	}
	if len(result.Files) != 2 {
		t.Fatalf("files = %d, want 2", len(result.Files))
	}
	for _, f := range result.Files {
		if filepath.Base(f.File) == "bad.go" {
			t.Error("bad.go should have been omitted")
		}
	}
}

func TestAnalyzeDirectory_FiltersAndRecurses(t *testing.T) {
	a := newLocalAnalyzer(t)
	dir := t.TempDir()
	writeFile(t, dir, "root.go", "package a\n")
	writeFile(t, dir, "nested/deep.go", "package b\n")
	writeFile(t, dir, "notes.txt", "TODO not source\n")
	writeFile(t, dir, "vendor/dep.go", "package c\n")

	result, err := a.AnalyzeDirectory(context.Background(), dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Files) != 2 {
		t.Fatalf("files = %d, want 2 (extension filter + vendor exclude)", len(result.Files))
	}
	names := map[string]bool{}
	for _, f := range result.Files {
		names[filepath.Base(f.File)] = true
	}
	if !names["root.go"] || !names["deep.go"] {
		t.Errorf("unexpected file set: %v", names)
	}
}

// remoteAnalyzer builds an analyzer whose AI path talks to a stub server.
func remoteAnalyzer(t *testing.T, handler http.HandlerFunc) *Analyzer {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := testConfig()
	cfg.Provider = "openai"
	cfg.APIKey = "test-key"
	cfg.BaseURL = server.URL
	cfg.RateLimitRPM = 60000
	cfg.MaxRetries = 0

	a, err := New(cfg, zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}
	return a
}

func chatResponse(t *testing.T, content string) []byte {
	t.Helper()
	quoted, err := json.Marshal(content)
	if err != nil {
		t.Fatal(err)
	}
	return []byte(`{"choices": [{"message": {"role": "assistant", "content": ` + string(quoted) + `}}]}`)
}

func TestAnalyzeFile_AIFindingsMerged(t *testing.T) {
	review := `{"security": [{"line": 4, "severity": "high", "description": "raw credential", "suggestion": "load from env"}],
		"performance": [], "code_style": [], "potential_bugs": [], "best_practices": []}`
	a := remoteAnalyzer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write(chatResponse(t, review))
	})

	path := writeFile(t, t.TempDir(), "main.go", "package main\n// TODO\n")
	result, err := a.AnalyzeFile(context.Background(), path)
	if err != nil {
		t.Fatal(err)
	}

	if result.AIError != "" {
		t.Fatalf("AIError = %q", result.AIError)
	}
	for _, cat := range report.Categories() {
		if _, ok := result.AIFindings[cat]; !ok {
			t.Errorf("AI findings missing category %s", cat)
		}
	}
	sec := result.AIFindings[report.CategorySecurity]
	if len(sec) != 1 || sec[0].Line != 4 || sec[0].Severity != report.SeverityHigh {
		t.Errorf("security = %+v", sec)
	}
	// Pattern findings ride along with the AI review.
	if len(result.PatternFindings["potential_bugs"]) != 1 {
		t.Errorf("pattern findings lost: %+v", result.PatternFindings)
	}
}

func TestAnalyzeFile_AIFailureKeepsPatternFindings(t *testing.T) {
	a := remoteAnalyzer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	path := writeFile(t, t.TempDir(), "main.go", "package main\n// TODO\n")
	result, err := a.AnalyzeFile(context.Background(), path)
	if err != nil {
		t.Fatalf("AI failure must not fail file analysis: %v", err)
	}

	if result.AIError == "" {
		t.Error("expected AIError to carry the completion failure")
	}
	if result.AIFindings != nil {
		t.Errorf("AIFindings = %v, want nil on failure", result.AIFindings)
	}
	if len(result.PatternFindings["potential_bugs"]) != 1 {
		t.Errorf("pattern findings lost: %+v", result.PatternFindings)
	}
}

func TestAnalyzeFile_FreeTextAIResponse(t *testing.T) {
	a := remoteAnalyzer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write(chatResponse(t, "Security review:\nline 2 hardcoded password severity: high\n"))
	})

	path := writeFile(t, t.TempDir(), "main.go", "package main\npassword := \"x\"\n")
	result, err := a.AnalyzeFile(context.Background(), path)
	if err != nil {
		t.Fatal(err)
	}
	if result.AIError != "" {
		t.Fatalf("free text must normalize, not fail: %q", result.AIError)
	}
	sec := result.AIFindings[report.CategorySecurity]
	if len(sec) != 1 || sec[0].Line != 2 || sec[0].Severity != report.SeverityHigh {
		t.Errorf("security = %+v", sec)
	}
}
