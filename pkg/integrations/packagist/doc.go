// Package packagist provides an HTTP client for Composer repository metadata.
//
// # Overview
//
// The client talks to Packagist (https://repo.packagist.org) or any
// repository that serves the same layout. It understands both metadata
// APIs a Composer repository can offer:
//
//   - v1: /p/<vendor>/<package>.json, one object keyed by version
//   - v2: the "metadata-url" advertised in packages.json (normally
//     /p2/<vendor>/<package>.json), an ordered list of releases in
//     Composer's minified format
//
// [Client.FetchRepoInfo] reads packages.json so callers can choose between
// [Client.FetchLegacyVersions] and [Client.FetchVersions].
//
// # Usage
//
//	client := packagist.NewClient(cache.NewNullCache(), "", 24*time.Hour)
//	versions, err := client.FetchVersions(ctx, "symfony/console", false)
//
// # Caching
//
// Package responses are cached per repository and API version. Pass
// refresh=true to bypass the cache. packages.json itself is never cached.
package packagist
