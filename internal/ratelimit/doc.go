// Package ratelimit provides a minimum-interval limiter for outbound model
// calls. State is scoped to one Limiter instance; nothing is shared across
// processes.
package ratelimit
