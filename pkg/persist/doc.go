// Package persist writes update decisions back to a manifest.
//
// [Persist] first tries a structural patch: every decision replaces exactly
// one string value in the original text, so whitespace, key order and
// escaping elsewhere stay as they were. If any decision cannot be patched
// the whole patch is dropped and the manifest is rewritten from its parsed
// form instead. Either all decisions are written or none.
package persist
