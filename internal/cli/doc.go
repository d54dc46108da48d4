// Package cli implements the codesweep command-line interface: the analyze
// and config commands, flag handling, and exit-code mapping.
package cli
