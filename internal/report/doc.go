// Package report defines the shared result types for codesweep analyses:
// findings, severities, the fixed category set, and the per-file and
// per-directory result structures returned to callers.
package report
