// Codesweep is a code-review assistant that combines regex pattern scanning
// with an optional model-based review.
//
// Usage:
//
//	codesweep analyze ./internal          # scan a directory tree
//	codesweep analyze main.go             # scan a single file
//	codesweep analyze --provider openai . # include an AI review per file
//	codesweep config                      # print the effective configuration
//
// Pattern rules, provider selection, and tunables come from an optional YAML
// config file and environment variables (including a .env file).
package main
