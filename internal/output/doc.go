// Package output renders analysis results as text, JSON, or markdown.
package output
