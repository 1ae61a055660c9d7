package analyze

import (
	"go/ast"
	"go/token"
	"reflect"
	"strings"

	"variant-generator/internal/annotation"
)

// TypeExpr is the printed source text of a field type, e.g. "map[string]*Item".
type TypeExpr struct {
	Text string
}

// String returns the type text.
func (t TypeExpr) String() string {
	return t.Text
}

// IsPointer reports whether the type is a pointer type.
func (t TypeExpr) IsPointer() bool {
	return strings.HasPrefix(t.Text, "*")
}

// FieldDef describes one field of a canonical struct.
type FieldDef struct {
	Name     string            // Field name; for embedded fields the type name
	Embedded bool              // Whether the field is embedded (anonymous)
	Type     TypeExpr          // Declared type
	Tag      reflect.StructTag // Raw struct tag, without backquotes
	Doc      []string          // Doc comment lines, with comment markers
	Comment  string            // Trailing line comment, with comment marker
	Rules    annotation.Rules  // Rules parsed from the annotation tag
	Pos      token.Position
}

// StructDef is a canonical struct declaration.
type StructDef struct {
	Name       string     // Type name
	TypeParams string     // Type parameter list including brackets, e.g. "[T any]"
	Doc        []string   // Doc comment lines, directive lines removed
	Fields     []FieldDef // Fields in declaration order
	Pos        token.Position
}

// Declaration is a canonical struct found in a source file.
type Declaration struct {
	Struct *StructDef
	// Directive holds the raw directive arguments. Empty when the struct is
	// listed in a registry file instead.
	Directive    string
	HasDirective bool
	DirectivePos token.Position
	// Node is the type declaration the struct was read from.
	Node *ast.GenDecl
}

// SourceFile is a parsed Go file and the canonical structs declared in it.
type SourceFile struct {
	Path    string
	Package string
	Src     []byte
	Fset    *token.FileSet
	File    *ast.File
	// Template is true when the file is excluded from normal builds by the
	// generator build tag. Its output replaces it instead of sitting beside it.
	Template bool
	// Constraint is the //go:build line of a template file.
	Constraint *ast.Comment
	Decls      []*Declaration
}

// Offset returns the byte offset of pos in Src.
func (f *SourceFile) Offset(pos token.Pos) int {
	return f.Fset.Position(pos).Offset
}
