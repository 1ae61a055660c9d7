package analyze

import (
	"bytes"
	"go/ast"
	"go/build/constraint"
	"go/parser"
	"go/printer"
	"go/token"
	"os"
	"reflect"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"

	"variant-generator/internal/annotation"
	"variant-generator/internal/logger"
)

// LoaderConfig controls how canonical structs are recognized.
type LoaderConfig struct {
	// TagKey is the struct tag key holding field annotations.
	TagKey string
	// Directive is the comment directive marking a canonical struct,
	// written without the leading "//".
	Directive string
	// BuildTag marks template files.
	BuildTag string
	// Include lists struct names treated as canonical without a directive.
	Include []string
}

// DefaultLoaderConfig returns the default loader configuration.
func DefaultLoaderConfig() LoaderConfig {
	return LoaderConfig{
		TagKey:    "variant",
		Directive: "variant:generate",
		BuildTag:  "variantgen",
	}
}

// Loader parses Go files into SourceFiles.
type Loader struct {
	config LoaderConfig
}

// NewLoader creates a new Loader.
func NewLoader(config LoaderConfig) *Loader {
	return &Loader{config: config}
}

// LoadFile reads and parses the file at path.
func (l *Loader) LoadFile(path string) (*SourceFile, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", path)
	}

	return l.ParseSource(path, src)
}

// ParseSource parses src as the file at path. Annotation syntax errors and
// malformed declarations are fatal.
func (l *Loader) ParseSource(path string, src []byte) (*SourceFile, error) {
	fset := token.NewFileSet()

	file, err := parser.ParseFile(fset, path, src, parser.ParseComments)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse %s", path)
	}

	sf := &SourceFile{
		Path:    path,
		Package: file.Name.Name,
		Src:     src,
		Fset:    fset,
		File:    file,
	}

	sf.Constraint, sf.Template = l.templateConstraint(file)

	for _, decl := range file.Decls {
		gd, ok := decl.(*ast.GenDecl)
		if !ok || gd.Tok != token.TYPE {
			continue
		}

		d, err := l.declaration(sf, gd)
		if err != nil {
			return nil, err
		}

		if d != nil {
			sf.Decls = append(sf.Decls, d)
		}
	}

	logger.Logger.Debugw("parsed source",
		"path", path,
		"package", sf.Package,
		"template", sf.Template,
		"structs", len(sf.Decls))

	return sf, nil
}

// templateConstraint returns the //go:build line that restricts the file to
// builds with the generator tag.
func (l *Loader) templateConstraint(file *ast.File) (*ast.Comment, bool) {
	for _, cg := range file.Comments {
		if cg.Pos() > file.Package {
			break
		}

		for _, c := range cg.List {
			if !constraint.IsGoBuild(c.Text) {
				continue
			}

			expr, err := constraint.Parse(c.Text)
			if err != nil {
				continue
			}

			if requiresTag(expr, l.config.BuildTag) {
				return c, true
			}
		}
	}

	return nil, false
}

// maxConstraintTags bounds the tag combinations requiresTag tries.
const maxConstraintTags = 16

// requiresTag reports whether expr can hold with tag set but never without
// it, whatever the other tags are.
func requiresTag(expr constraint.Expr, tag string) bool {
	others := map[string]bool{}
	expr.Eval(func(t string) bool {
		if t != tag {
			others[t] = true
		}

		return false
	})

	names := make([]string, 0, len(others))
	for t := range others {
		names = append(names, t)
	}

	if len(names) > maxConstraintTags {
		return false
	}

	satisfiable := false

	for mask := 0; mask < 1<<len(names); mask++ {
		set := map[string]bool{}
		for i, t := range names {
			set[t] = mask&(1<<i) != 0
		}

		if expr.Eval(func(t string) bool { return set[t] }) {
			return false
		}

		set[tag] = true

		if expr.Eval(func(t string) bool { return set[t] }) {
			satisfiable = true
		}
	}

	return satisfiable
}

func (l *Loader) declaration(sf *SourceFile, gd *ast.GenDecl) (*Declaration, error) {
	if gd.Lparen.IsValid() {
		for _, spec := range gd.Specs {
			ts := spec.(*ast.TypeSpec)
			if _, _, ok := l.directive(ts.Doc); ok || l.included(ts.Name.Name) {
				return nil, errors.WithHint(
					errors.Newf("%s: %s: canonical structs cannot be declared inside a grouped type declaration",
						sf.Fset.Position(ts.Pos()), ts.Name.Name),
					"move the declaration out of the type ( ... ) block",
				)
			}
		}

		return nil, nil
	}

	ts := gd.Specs[0].(*ast.TypeSpec)
	args, dirPos, hasDirective := l.directive(gd.Doc)

	if !hasDirective && !l.included(ts.Name.Name) {
		return nil, nil
	}

	pos := sf.Fset.Position(ts.Pos())

	st, ok := ts.Type.(*ast.StructType)
	if !ok || ts.Assign.IsValid() {
		return nil, errors.Newf("%s: %s: variants can only be derived from struct types", pos, ts.Name.Name)
	}

	def := &StructDef{
		Name: ts.Name.Name,
		Doc:  l.docLines(gd.Doc),
		Pos:  pos,
	}

	if ts.TypeParams != nil {
		def.TypeParams = string(sf.Src[sf.Offset(ts.TypeParams.Opening) : sf.Offset(ts.TypeParams.Closing)+1])
	}

	fields, err := l.fields(sf, def.Name, st)
	if err != nil {
		return nil, err
	}

	def.Fields = fields

	d := &Declaration{
		Struct:       def,
		Directive:    args,
		HasDirective: hasDirective,
		Node:         gd,
	}

	if hasDirective {
		d.DirectivePos = sf.Fset.Position(dirPos)
	}

	return d, nil
}

// directive finds the generator directive in a doc comment and returns its arguments.
func (l *Loader) directive(doc *ast.CommentGroup) (string, token.Pos, bool) {
	if doc == nil {
		return "", token.NoPos, false
	}

	prefix := "//" + l.config.Directive

	for _, c := range doc.List {
		rest, ok := strings.CutPrefix(c.Text, prefix)
		if !ok {
			continue
		}

		if rest != "" && rest[0] != ' ' && rest[0] != '\t' {
			continue
		}

		return strings.TrimSpace(rest), c.Pos(), true
	}

	return "", token.NoPos, false
}

// docLines returns doc comment lines without the directive or other
// //go: directives, which must not be copied into generated code.
func (l *Loader) docLines(doc *ast.CommentGroup) []string {
	if doc == nil {
		return nil
	}

	var out []string

	for _, c := range doc.List {
		if strings.HasPrefix(c.Text, "//"+l.config.Directive) || strings.HasPrefix(c.Text, "//go:") {
			continue
		}

		out = append(out, c.Text)
	}

	// A directive in the middle leaves a dangling "//" separator at the end.
	for len(out) > 0 && strings.TrimSpace(out[len(out)-1]) == "//" {
		out = out[:len(out)-1]
	}

	return out
}

func (l *Loader) included(name string) bool {
	for _, n := range l.config.Include {
		if n == name {
			return true
		}
	}

	return false
}

func (l *Loader) fields(sf *SourceFile, structName string, st *ast.StructType) ([]FieldDef, error) {
	var out []FieldDef

	seen := map[string]token.Position{}

	for _, f := range st.Fields.List {
		pos := sf.Fset.Position(f.Pos())

		typeText, err := printExpr(sf.Fset, f.Type)
		if err != nil {
			return nil, errors.Wrapf(err, "%s: %s: printing field type", pos, structName)
		}

		var tag reflect.StructTag

		if f.Tag != nil {
			raw, err := strconv.Unquote(f.Tag.Value)
			if err != nil {
				return nil, errors.Wrapf(err, "%s: %s: malformed struct tag", pos, structName)
			}

			tag = reflect.StructTag(raw)
		}

		base := FieldDef{
			Type:    TypeExpr{Text: typeText},
			Tag:     tag,
			Doc:     commentLines(f.Doc),
			Comment: strings.Join(commentLines(f.Comment), " "),
			Pos:     pos,
		}

		names := make([]string, 0, len(f.Names))
		for _, n := range f.Names {
			names = append(names, n.Name)
		}

		if len(names) == 0 {
			base.Embedded = true
			names = append(names, embeddedName(f.Type))
		}

		if value, ok := tag.Lookup(l.config.TagKey); ok {
			rules, err := annotation.Parse(value)
			if err != nil {
				return nil, errors.WithHint(
					errors.Wrapf(err, "%s: %s.%s", pos, structName, strings.Join(names, ", ")),
					"annotations are hide(variant), optional(variant) or show(variant), separated by commas",
				)
			}

			base.Rules = rules
		}

		for _, name := range names {
			if name != "_" {
				if first, dup := seen[name]; dup {
					return nil, errors.Newf("%s: %s: duplicate field %s (first declared at %s)", pos, structName, name, first)
				}

				seen[name] = pos
			}

			fd := base
			fd.Name = name
			fd.Rules = append(annotation.Rules(nil), base.Rules...)
			out = append(out, fd)
		}
	}

	return out, nil
}

func printExpr(fset *token.FileSet, expr ast.Expr) (string, error) {
	var buf bytes.Buffer
	if err := printer.Fprint(&buf, fset, expr); err != nil {
		return "", err
	}

	return buf.String(), nil
}

func commentLines(cg *ast.CommentGroup) []string {
	if cg == nil {
		return nil
	}

	out := make([]string, 0, len(cg.List))
	for _, c := range cg.List {
		out = append(out, c.Text)
	}

	return out
}

// embeddedName returns the field name Go assigns to an embedded type.
func embeddedName(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.Ident:
		return t.Name
	case *ast.StarExpr:
		return embeddedName(t.X)
	case *ast.SelectorExpr:
		return t.Sel.Name
	case *ast.IndexExpr:
		return embeddedName(t.X)
	case *ast.IndexListExpr:
		return embeddedName(t.X)
	default:
		return ""
	}
}
