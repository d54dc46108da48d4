package output

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/jfelder/codesweep/internal/report"
)

// TextWriter outputs a human-readable text report.
type TextWriter struct{}

func (t *TextWriter) Write(w io.Writer, result report.DirectoryResult) error {
	ew := &errWriter{w: w}

	totalPattern := 0
	totalAI := 0
	for _, f := range result.Files {
		totalPattern += f.PatternFindings.Total()
		totalAI += f.AIFindings.Total()
	}

	ew.printf("Codesweep Review: %d file(s)\n", len(result.Files))
	ew.println(strings.Repeat("─", 60))
	ew.printf("Findings: %d pattern, %d AI\n", totalPattern, totalAI)
	ew.println(strings.Repeat("─", 60))

	if totalPattern+totalAI == 0 {
		ew.println("\nNo issues found. Looks good!")
		return ew.err
	}

	for _, f := range result.Files {
		if f.PatternFindings.Total() == 0 && f.AIFindings.Total() == 0 && f.AIError == "" {
			continue
		}
		ew.printf("\n%s\n", f.File)
		writeFindingMap(ew, "pattern", f.PatternFindings)
		if f.AIFindings != nil {
			writeFindingMap(ew, "ai", f.AIFindings)
		}
		if f.AIError != "" {
			ew.printf("  ai review unavailable: %s\n", f.AIError)
		}
	}

	return ew.err
}

func writeFindingMap(ew *errWriter, source string, m report.FindingMap) {
	for _, cat := range orderedCategories(m) {
		for _, f := range m[cat] {
			ew.printf("  %s line %-4d %-14s [%s/%s] %s\n",
				severityIcon(f.Severity), f.Line, f.Category, source, f.Severity, f.Description)
			if f.Match != "" {
				ew.printf("      match: %s\n", f.Match)
			}
			if f.Suggestion != "" {
				ew.printf("      suggestion: %s\n", f.Suggestion)
			}
		}
	}
}

// orderedCategories lists the fixed categories first, then any extra
// configured categories in sorted order.
func orderedCategories(m report.FindingMap) []report.Category {
	fixed := report.Categories()
	seen := make(map[report.Category]bool, len(fixed))
	var cats []report.Category
	for _, cat := range fixed {
		seen[cat] = true
		if _, ok := m[cat]; ok {
			cats = append(cats, cat)
		}
	}
	var extra []report.Category
	for cat := range m {
		if !seen[cat] {
			extra = append(extra, cat)
		}
	}
	sort.Slice(extra, func(i, j int) bool { return extra[i] < extra[j] })
	return append(cats, extra...)
}

func severityIcon(s report.Severity) string {
	switch s {
	case report.SeverityHigh:
		return "[!!]"
	case report.SeverityMedium:
		return "[!]"
	case report.SeverityLow:
		return "[-]"
	default:
		return "[?]"
	}
}

// errWriter wraps an io.Writer and captures the first error.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...interface{}) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}

func (ew *errWriter) println(s string) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintln(ew.w, s)
}
