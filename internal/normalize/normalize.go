package normalize

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"github.com/jfelder/codesweep/internal/report"
)

// Normalize parses a raw completion into findings grouped by category. The
// result always contains every fixed category as a key, possibly empty, so
// callers never guard against missing keys. It never fails: when the text
// is not a structured object, heuristic extraction degrades to empty
// categories rather than surfacing a parse error.
func Normalize(raw string) report.FindingMap {
	if m, ok := parseStructured(raw); ok {
		return backfill(m)
	}
	return backfill(extract(raw))
}

// rawFinding is the JSON structure the model is asked to produce.
type rawFinding struct {
	Line        int    `json:"line"`
	Severity    string `json:"severity"`
	Description string `json:"description"`
	Suggestion  string `json:"suggestion"`
}

// parseStructured attempts the primary path: the completion is a JSON
// object mapping category names to finding arrays. Markdown code fences
// around the object are tolerated.
func parseStructured(raw string) (report.FindingMap, bool) {
	content := stripFences(strings.TrimSpace(raw))

	var top map[string]json.RawMessage
	if err := json.Unmarshal([]byte(content), &top); err != nil {
		return nil, false
	}
	if top == nil {
		// "null" decodes without error but is not a mapping.
		return nil, false
	}

	result := make(report.FindingMap, len(top))
	for key, value := range top {
		cat := report.Category(key)
		var rawFindings []rawFinding
		if err := json.Unmarshal(value, &rawFindings); err != nil {
			// A category whose value is not a finding array contributes
			// nothing rather than failing the whole response.
			result[cat] = []report.Finding{}
			continue
		}
		findings := make([]report.Finding, 0, len(rawFindings))
		for _, r := range rawFindings {
			findings = append(findings, report.Finding{
				Category:    cat,
				Line:        r.Line,
				Severity:    report.ParseSeverity(r.Severity),
				Description: r.Description,
				Suggestion:  r.Suggestion,
			})
		}
		result[cat] = findings
	}
	return result, true
}

// stripFences removes a markdown code fence wrapper, if present.
func stripFences(content string) string {
	if !strings.HasPrefix(content, "```") {
		return content
	}
	lines := strings.Split(content, "\n")
	if len(lines) < 2 {
		return content
	}
	end := len(lines)
	if strings.TrimSpace(lines[end-1]) == "```" {
		end--
	}
	return strings.Join(lines[1:end], "\n")
}

// findingPattern matches "line <n> ... severity: <level>" with free text
// between the tokens, case-insensitively, spanning lines.
var findingPattern = regexp.MustCompile(`(?is)line\s*:?\s*#?\s*(\d+).*?severity\s*:?\s*(low|medium|high)`)

// headerPatterns matches a category label followed by a colon on the same
// line, e.g. "Security concerns:" or "potential_bugs:". Underscores in the
// category name match either an underscore or a space. Compiled once; the
// fallback probes every pattern per call.
var headerPatterns = func() map[report.Category]*regexp.Regexp {
	m := make(map[report.Category]*regexp.Regexp, len(report.Categories()))
	for _, cat := range report.Categories() {
		label := strings.ReplaceAll(regexp.QuoteMeta(string(cat)), "_", `[ _]`)
		m[cat] = regexp.MustCompile(`(?i)` + label + `[^:\n]*:`)
	}
	return m
}()

// extract is the fallback path for free-text responses: locate each
// category's section by its labelled header and pull line/severity pairs
// out of the window up to the next category header.
func extract(raw string) report.FindingMap {
	result := make(report.FindingMap)

	for _, cat := range report.Categories() {
		loc := headerPatterns[cat].FindStringIndex(raw)
		if loc == nil {
			result[cat] = []report.Finding{}
			continue
		}

		// Window runs from the end of this header to the earliest later
		// header of any other category, or to end of text.
		rest := raw[loc[1]:]
		end := len(rest)
		for _, other := range report.Categories() {
			if other == cat {
				continue
			}
			if otherLoc := headerPatterns[other].FindStringIndex(rest); otherLoc != nil && otherLoc[0] < end {
				end = otherLoc[0]
			}
		}
		window := rest[:end]

		findings := []report.Finding{}
		for _, m := range findingPattern.FindAllStringSubmatch(window, -1) {
			line, _ := strconv.Atoi(m[1])
			findings = append(findings, report.Finding{
				Category:    cat,
				Line:        line,
				Severity:    report.ParseSeverity(strings.ToLower(m[2])),
				Description: "issue reported in model review text",
				Suggestion:  "see full model response",
			})
		}
		result[cat] = findings
	}
	return result
}

// backfill guarantees every fixed category is present and non-nil.
func backfill(m report.FindingMap) report.FindingMap {
	for _, cat := range report.Categories() {
		if m[cat] == nil {
			m[cat] = []report.Finding{}
		}
	}
	return m
}
