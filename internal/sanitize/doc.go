// Package sanitize scrubs outbound prompt text and vets inbound model
// responses.
//
// Input removes characters that can alter prompt structure, Secrets redacts
// credential-shaped substrings before file content is embedded in a prompt,
// and ValidResponse scans response values for common injection markers.
// All of it is best-effort hygiene, not an injection-proofing guarantee.
package sanitize
