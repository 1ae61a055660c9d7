// Package analyze builds the canonical struct model from Go source.
//
// It parses files with go/parser, finds struct declarations marked with the
// variant directive (or named in a registry file) and turns each into a
// StructDef whose fields carry the rules parsed from their annotation tag.
//
// Key types:
//   - StructDef: the canonical struct, fields in declaration order
//   - FieldDef: name, type expression, raw tag, comments and rules
//   - SourceFile: a parsed file plus the declarations found in it
package analyze
