// Package manifest reads Composer manifests (composer.json).
//
// Only what the update engine needs is modelled: the "require" and
// "require-dev" sections in declaration order, the stability settings, and
// platform overrides from "config.platform". Persisting changes back to
// disk lives in package persist.
package manifest
