// Package config loads the codesweep configuration by merging defaults, an
// optional YAML config file, and environment variables (including a
// best-effort .env file). Validation happens at load time so a bad setup
// fails before any analysis starts.
package config
