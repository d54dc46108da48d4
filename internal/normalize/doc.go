// Package normalize turns raw model completions into category-complete
// finding maps.
//
// The primary path parses the completion as a JSON object keyed by category.
// When that fails (a model is a free-text generator with no format
// guarantee) a heuristic fallback locates category headers in the text and
// extracts line/severity pairs from each section. Either way the
// result contains all five fixed categories, so one malformed response can
// never abort a whole directory batch.
package normalize
