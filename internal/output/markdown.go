package output

import (
	"io"
	"strings"

	"github.com/jfelder/codesweep/internal/report"
)

// MarkdownWriter outputs the result as a markdown document.
type MarkdownWriter struct{}

var cellEscaper = strings.NewReplacer("|", `\|`, "\n", " ")

func (m *MarkdownWriter) Write(w io.Writer, result report.DirectoryResult) error {
	ew := &errWriter{w: w}

	ew.println("# Codesweep Review")
	ew.println("")
	ew.printf("%d file(s) analyzed.\n", len(result.Files))

	for _, f := range result.Files {
		ew.printf("\n## %s\n\n", f.File)

		if f.PatternFindings.Total() == 0 && f.AIFindings.Total() == 0 {
			if f.AIError != "" {
				ew.printf("_AI review unavailable: %s_\n", cellEscaper.Replace(f.AIError))
			} else {
				ew.println("No findings.")
			}
			continue
		}

		ew.println("| Source | Category | Line | Severity | Description |")
		ew.println("|--------|----------|------|----------|-------------|")
		writeMarkdownRows(ew, "pattern", f.PatternFindings)
		writeMarkdownRows(ew, "ai", f.AIFindings)

		if f.AIError != "" {
			ew.printf("\n_AI review unavailable: %s_\n", cellEscaper.Replace(f.AIError))
		}
	}

	return ew.err
}

func writeMarkdownRows(ew *errWriter, source string, m report.FindingMap) {
	for _, cat := range orderedCategories(m) {
		for _, f := range m[cat] {
			ew.printf("| %s | %s | %d | %s | %s |\n",
				source, f.Category, f.Line, f.Severity, cellEscaper.Replace(f.Description))
		}
	}
}
