// Package keytrack tracks credential usage timestamps and raises a
// non-blocking rotation advisory when a credential has been in use longer
// than the configured interval.
package keytrack
