// Package annotation parses per-field variant annotations into rules.
//
// Annotations live in a struct tag (key "variant" by default) as a comma
// separated list:
//
//	Password string `json:"password" variant:"hide(show),optional(update)"`
//
// Recognized forms:
//   - hide(v, ...)     drop the field from each listed variant
//   - optional(v, ...) wrap the field type in an optional for each listed variant
//   - show(v, ...)     keep the field only in the listed variants
//
// The parser checks syntax only. Whether a variant exists, or whether two
// rules contradict each other, is decided later by package check.
package annotation
