// Package integrations provides HTTP clients for Composer repository APIs.
//
// # Overview
//
// The [Client] type holds the transport shared by every repository client:
// a timeout-bound HTTP client, retry with exponential backoff for
// transient failures, and response caching through a [cache.Cache]
// backend. Repository-specific clients embed it:
//
//   - [packagist]: Packagist and any Composer v1/v2 metadata repository
//
// # Errors
//
// Clients return [ErrNotFound] for 404 responses and wrap transport
// failures in [ErrNetwork]. 429 and 5xx responses are marked retryable.
package integrations
