// Package upstream provides the HTTP client for the data service.
//
// Every call is a single best-effort attempt bounded by a per-call timeout
// derived from the caller's context: 2 seconds for health probes, 5 seconds
// for user data requests by default. There are no retries, no caching, and
// no circuit breaking.
//
// Failures are translated into two typed errors:
//
//   - StatusError: the data service responded with a non-2xx status. Carries
//     the status code and body text.
//   - TransportError: no HTTP response was received (connection refused,
//     timeout, DNS failure). Carries a classified kind string.
//
// A timeout is classified as a transport failure; callers never need to
// treat it separately.
package upstream
