package scan

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/jfelder/codesweep/internal/report"
)

// Rule is one configured pattern within a category.
type Rule struct {
	Pattern  string
	Severity string
}

type compiledRule struct {
	source   string
	re       *regexp.Regexp
	severity report.Severity
}

// RuleSet holds compiled rules grouped by category. Categories are scanned
// in sorted order so results are deterministic for a given rule set.
type RuleSet struct {
	rules map[report.Category][]compiledRule
	order []report.Category
}

// NewRuleSet compiles the configured rules. Patterns are compiled in
// multiline mode so ^ and $ anchor per line. A malformed pattern is a
// configuration error and fails compilation outright.
func NewRuleSet(rules map[string][]Rule) (*RuleSet, error) {
	rs := &RuleSet{rules: make(map[report.Category][]compiledRule, len(rules))}
	for name, categoryRules := range rules {
		cat := report.Category(name)
		compiled := make([]compiledRule, 0, len(categoryRules))
		for _, r := range categoryRules {
			re, err := regexp.Compile("(?m)" + r.Pattern)
			if err != nil {
				return nil, fmt.Errorf("compiling pattern %q in category %s: %w", r.Pattern, name, err)
			}
			sev := report.SeverityMedium
			if r.Severity != "" {
				sev = report.ParseSeverity(r.Severity)
			}
			compiled = append(compiled, compiledRule{source: r.Pattern, re: re, severity: sev})
		}
		rs.rules[cat] = compiled
		rs.order = append(rs.order, cat)
	}
	sort.Slice(rs.order, func(i, j int) bool { return rs.order[i] < rs.order[j] })
	return rs, nil
}

// Categories returns the configured categories in scan order.
func (rs *RuleSet) Categories() []report.Category {
	return rs.order
}

// Scan runs every rule against content and groups line-numbered findings by
// category. A configured category with no matching rules still appears as an
// empty slice; categories absent from the configuration are not keys in the
// result. Scan never fails: pattern validity was settled at compile time.
func (rs *RuleSet) Scan(content string) report.FindingMap {
	results := make(report.FindingMap, len(rs.order))
	for _, cat := range rs.order {
		findings := []report.Finding{}
		for _, rule := range rs.rules[cat] {
			for _, loc := range rule.re.FindAllStringIndex(content, -1) {
				findings = append(findings, report.Finding{
					Category:    cat,
					Line:        lineAt(content, loc[0]),
					Severity:    rule.severity,
					Description: fmt.Sprintf("matched pattern %q", rule.source),
					Match:       content[loc[0]:loc[1]],
				})
			}
		}
		results[cat] = findings
	}
	return results
}

// lineAt returns the 1-based line number of a byte offset.
func lineAt(content string, offset int) int {
	return 1 + strings.Count(content[:offset], "\n")
}
