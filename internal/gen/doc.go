// Package gen renders resolved plans as Go source.
//
// Generation approach uses text/template + go/format for readable output.
//
// Output modes:
//   - Template: the source file is guarded by the generator build tag. The
//     output is a copy of it with the constraint negated and every canonical
//     declaration replaced by the base struct and its variants.
//   - Inline: the source file builds normally. The output holds only the
//     variant structs, next to the source.
package gen
