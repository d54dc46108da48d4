package report

// Severity represents the severity level of a finding.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// ParseSeverity normalizes a severity string, defaulting to medium for
// anything it does not recognize.
func ParseSeverity(s string) Severity {
	switch Severity(s) {
	case SeverityLow, SeverityMedium, SeverityHigh:
		return Severity(s)
	default:
		return SeverityMedium
	}
}

// SeverityRank returns a numeric rank for sorting (higher = more severe).
func SeverityRank(s Severity) int {
	switch s {
	case SeverityHigh:
		return 3
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 1
	default:
		return 0
	}
}

// Category is a classification bucket for findings.
type Category string

const (
	CategorySecurity      Category = "security"
	CategoryPerformance   Category = "performance"
	CategoryCodeStyle     Category = "code_style"
	CategoryPotentialBugs Category = "potential_bugs"
	CategoryBestPractices Category = "best_practices"
)

// Categories returns the fixed category set in presentation order.
// AI findings always contain every one of these as a key; pattern findings
// contain only the categories the rule set configures.
func Categories() []Category {
	return []Category{
		CategorySecurity,
		CategoryPerformance,
		CategoryCodeStyle,
		CategoryPotentialBugs,
		CategoryBestPractices,
	}
}

// Finding represents a single detected issue, pattern- or model-sourced.
type Finding struct {
	Category    Category `json:"category"`
	Line        int      `json:"line"`
	Severity    Severity `json:"severity"`
	Description string   `json:"description"`
	Suggestion  string   `json:"suggestion,omitempty"`
	// Match holds the raw matched substring. Set only for pattern-sourced
	// findings.
	Match string `json:"match,omitempty"`
}

// FindingMap groups findings by category, in match order within a category.
type FindingMap map[Category][]Finding

// Total returns the number of findings across all categories.
func (m FindingMap) Total() int {
	n := 0
	for _, findings := range m {
		n += len(findings)
	}
	return n
}

// SeverityCounts holds finding counts by severity level.
type SeverityCounts struct {
	Low    int `json:"low"`
	Medium int `json:"medium"`
	High   int `json:"high"`
}

// CountBySeverity tallies findings in a map by severity.
func CountBySeverity(m FindingMap) SeverityCounts {
	var c SeverityCounts
	for _, findings := range m {
		for _, f := range findings {
			switch f.Severity {
			case SeverityLow:
				c.Low++
			case SeverityMedium:
				c.Medium++
			case SeverityHigh:
				c.High++
			}
		}
	}
	return c
}

// FileResult is the analysis result for one file.
type FileResult struct {
	File            string     `json:"file"`
	PatternFindings FindingMap `json:"pattern_findings"`
	// AIFindings is nil when AI analysis was skipped or failed. When the AI
	// path ran successfully it contains every fixed category as a key.
	AIFindings FindingMap `json:"ai_findings,omitempty"`
	// AIError carries the completion failure message when the AI path was
	// attempted but failed. Pattern findings are still valid in that case.
	AIError string `json:"ai_error,omitempty"`
}

// DirectoryResult aggregates per-file results from a directory scan.
// Files that fail analysis are logged and omitted, never aborting the batch.
type DirectoryResult struct {
	Files []FileResult `json:"files"`
}
