package sanitize

import (
	"regexp"
	"strings"
)

// unsafeChars are stripped from outbound prompt text. This is a best-effort
// mitigation against prompt-structure injection, not a full guarantee.
var unsafeChars = regexp.MustCompile(`[<>{}\[\]]`)

// Input strips unsafe characters from text and trims surrounding whitespace.
func Input(text string) string {
	return strings.TrimSpace(unsafeChars.ReplaceAllString(text, ""))
}

// injectionMarkers flag a response as suspect when present in any value.
var injectionMarkers = []string{"<script", "javascript:", "eval("}

// ValidResponse reports whether a response passes the injection check.
// It scans one level of string values only, case-insensitively; nested
// structures are not descended into.
func ValidResponse(fields map[string]any) bool {
	for _, v := range fields {
		s, ok := v.(string)
		if !ok {
			continue
		}
		lower := strings.ToLower(s)
		for _, marker := range injectionMarkers {
			if strings.Contains(lower, marker) {
				return false
			}
		}
	}
	return true
}
