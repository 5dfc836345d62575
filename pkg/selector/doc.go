// Package selector turns package-name arguments into glob masks and tests
// package names against them.
//
// # Arguments
//
// Each argument is one of:
//
//   - a shortcut group name ("laravel", "phpunit", ...), replaced by the
//     group's masks
//   - a vendor name without a slash ("symfony"), widened to "symfony/*"
//   - a package name or glob ("acme/foo", "acme/*-bundle"), used as is
//
// No arguments select every package (the universal mask "*").
//
// # Matching
//
// [Match] implements shell-glob semantics without any path handling: "*"
// also crosses "/", so "*" matches "acme/foo". Matching is case-sensitive.
package selector
