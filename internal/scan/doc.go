// Package scan implements regex-based pattern scanning of source content.
//
// Rules are configured per category and compiled once into a RuleSet;
// scanning emits one finding per non-overlapping match with a 1-based line
// number derived from the match offset.
package scan
