// Package resolver finds the newest installable release of a Composer
// package and recommends the constraint a manifest should declare for it.
//
// Two implementations exist because Composer repositories serve metadata
// through two APIs:
//
//   - [LegacyResolver] reads the v1 API (/p/<name>.json). It knows nothing
//     about the platform beyond a PHP version string that is passed along
//     with every lookup, and only checks a release's "php" requirement.
//   - [PlatformResolver] reads the v2 API (/p2/<name>.json). It owns a
//     [Platform] and checks every platform requirement of a release.
//
// [New] probes the repository once and returns the resolver to use for the
// whole run.
package resolver
