// Package cache provides a file-based cache for model completions, keyed by
// a SHA-256 hash of model name and prompt. Expired entries are skipped on
// read and removed lazily. Re-running analysis over an unchanged tree hits
// the cache instead of the provider.
package cache
