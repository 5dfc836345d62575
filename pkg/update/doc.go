// Package update decides which declared constraints of a manifest should be
// raised.
//
// [Engine.Compute] walks the require section and then require-dev in
// declaration order. A dependency yields a [Decision] only when it is not a
// platform package, matches the selected masks, is not pinned to a dev
// branch, has a candidate release, and the recommended constraint for that
// release differs from what is declared. Everything else is skipped
// silently (and logged at debug level).
//
// The engine only reads the manifest; writing decisions back is the job of
// package persist.
package update
