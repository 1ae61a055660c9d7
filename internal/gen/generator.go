package gen

import (
	"bytes"
	"go/ast"
	"go/build/constraint"
	"go/format"
	"go/parser"
	"go/printer"
	"go/token"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"golang.org/x/tools/go/ast/astutil"

	"variant-generator/internal/analyze"
	"variant-generator/internal/common"
	"variant-generator/internal/logger"
	"variant-generator/internal/plan"
	"variant-generator/internal/transform"
)

// Header is the first line of every generated file.
const Header = "// Code generated by variant-generator. DO NOT EDIT."

// GeneratorConfig holds configuration for code generation.
type GeneratorConfig struct {
	// OutputSuffix replaces ".go" in the source file name.
	OutputSuffix string
	// OutputDir overrides the directory of generated files. Empty means
	// next to the source file.
	OutputDir string
	// TagKey is the annotation key stripped from struct tags.
	TagKey string
	// Wrapper supplies the import needed by optional fields.
	Wrapper transform.Wrapper
}

// DefaultGeneratorConfig returns the default generator configuration.
func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		OutputSuffix: "_variants.go",
		TagKey:       "variant",
		Wrapper:      transform.PointerWrapper{},
	}
}

// Generator generates Go code from a resolved plan.
type Generator struct {
	config GeneratorConfig

	// packageNames maps import paths to declared package names.
	packageNames func(dir string, paths ...string) (map[string]string, error)
}

// NewGenerator creates a new Generator with the given configuration.
func NewGenerator(config GeneratorConfig) *Generator {
	if config.Wrapper == nil {
		config.Wrapper = transform.PointerWrapper{}
	}

	return &Generator{config: config, packageNames: analyze.PackageNames}
}

// GeneratedFile represents a generated Go source file.
type GeneratedFile struct {
	// Path is where the file is written, e.g. "models/user_variants.go".
	Path string
	// Source is the file it was generated from.
	Source string
	// Content is the formatted Go source code.
	Content []byte
}

// Filename returns the base name of the generated file.
func (f *GeneratedFile) Filename() string {
	return filepath.Base(f.Path)
}

// OutputPath returns the path of the file generated from source.
func (g *Generator) OutputPath(source string) string {
	dir := filepath.Dir(source)
	if g.config.OutputDir != "" {
		dir = g.config.OutputDir
	}

	name := strings.TrimSuffix(filepath.Base(source), ".go") + g.config.OutputSuffix

	return filepath.Join(dir, name)
}

// Generate renders p. It returns nil for a file without canonical structs
// and an error when p carries error diagnostics.
func (g *Generator) Generate(p *plan.Plan) (*GeneratedFile, error) {
	if !p.OK() {
		return nil, p.Diagnostics.Err()
	}

	if p.Empty() {
		return nil, nil
	}

	var (
		src []byte
		err error
	)

	if p.File.Template {
		src, err = g.generateTemplate(p)
	} else {
		src, err = g.generateInline(p)
	}

	if err != nil {
		return nil, errors.Wrapf(err, "generating from %s", p.File.Path)
	}

	out := &GeneratedFile{
		Path:   g.OutputPath(p.File.Path),
		Source: p.File.Path,
	}

	formatted, err := g.finish(p.File, src)
	if err != nil {
		if werr := writeDebugUnformatted(out.Path, src); werr != nil {
			logger.Logger.Warnw("failed to write unformatted output", "path", out.Path, "error", werr)
		}

		return nil, errors.Wrapf(err, "formatting %s", out.Path)
	}

	out.Content = formatted

	logger.Logger.Debugw("generated file",
		"source", p.File.Path,
		"output", out.Path,
		"template", p.File.Template,
		"bytes", len(formatted))

	return out, nil
}

// generateTemplate copies the template file, negates its build constraint
// and replaces every canonical declaration with its generated structs.
func (g *Generator) generateTemplate(p *plan.Plan) ([]byte, error) {
	sf := p.File
	buf := newEditBuffer(sf.Src)

	negated, err := negateConstraint(sf.Constraint.Text)
	if err != nil {
		return nil, err
	}

	buf.Replace(sf.Offset(sf.Constraint.Pos()), sf.Offset(sf.Constraint.End()), negated)

	for i := range p.Items {
		it := &p.Items[i]

		start := it.Decl.Node.Pos()
		if it.Decl.Node.Doc != nil {
			start = it.Decl.Node.Doc.Pos()
		}

		var parts []string

		superseded := it.Supersedes()

		for j := range it.Derived {
			if superseded && it.Derived[j].IsBase() {
				continue
			}

			s, err := g.GenerateStruct(&it.Derived[j])
			if err != nil {
				return nil, err
			}

			parts = append(parts, s)
		}

		buf.Replace(sf.Offset(start), sf.Offset(it.Decl.Node.End()), strings.TrimSuffix(strings.Join(parts, "\n"), "\n"))
	}

	return append([]byte(Header+"\n\n"), buf.Bytes()...), nil
}

// generateInline builds a new file holding the variants only. The source's
// build constraint and imports are carried over; unused imports are pruned
// later.
func (g *Generator) generateInline(p *plan.Plan) ([]byte, error) {
	sf := p.File

	var sb strings.Builder

	sb.WriteString(Header + "\n\n")

	if c := buildConstraint(sf.File); c != nil {
		sb.WriteString(c.Text + "\n\n")
	}

	sb.WriteString("package " + sf.Package + "\n\n")

	switch len(sf.File.Imports) {
	case 0:
	case 1:
		sb.WriteString("import " + importLine(sf.File.Imports[0]) + "\n\n")
	default:
		sb.WriteString("import (\n")

		for _, spec := range sf.File.Imports {
			sb.WriteString("\t" + importLine(spec) + "\n")
		}

		sb.WriteString(")\n\n")
	}

	for i := range p.Items {
		variants := p.Items[i].Variants()
		for j := range variants {
			s, err := g.GenerateStruct(&variants[j])
			if err != nil {
				return nil, err
			}

			sb.WriteString(s + "\n")
		}
	}

	return []byte(sb.String()), nil
}

func importLine(spec *ast.ImportSpec) string {
	if spec.Name != nil {
		return spec.Name.Name + " " + spec.Path.Value
	}

	return spec.Path.Value
}

// finish fixes imports and formats the generated source.
func (g *Generator) finish(sf *analyze.SourceFile, src []byte) ([]byte, error) {
	fset := token.NewFileSet()

	file, err := parser.ParseFile(fset, "", src, parser.ParseComments)
	if err != nil {
		return nil, errors.Wrap(err, "parsing generated code")
	}

	if path := g.config.Wrapper.Import(); path != "" {
		name := ""
		if w, ok := g.config.Wrapper.(transform.GenericWrapper); ok && w.Qualifier() != common.PkgAlias(path) {
			name = w.Qualifier()
		}

		if qualifierUsed(file, wrapperQualifier(g.config.Wrapper, path)) {
			astutil.AddNamedImport(fset, file, name, path)
		}
	}

	g.pruneImports(fset, file, filepath.Dir(sf.Path))

	var buf bytes.Buffer
	if err := printer.Fprint(&buf, fset, file); err != nil {
		return nil, errors.Wrap(err, "printing generated code")
	}

	formatted, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, errors.Wrap(err, "formatting generated code")
	}

	return formatted, nil
}

func wrapperQualifier(w transform.Wrapper, path string) string {
	if gw, ok := w.(transform.GenericWrapper); ok && gw.Qualifier() != "" {
		return gw.Qualifier()
	}

	return common.PkgAlias(path)
}

// pruneImports deletes imports the generated file no longer references. An
// unnamed import is matched by the name its path suggests. When that name is
// unused while some qualifier is still unaccounted for, the declared package
// names are looked up and imports that cannot be resolved are kept.
func (g *Generator) pruneImports(fset *token.FileSet, file *ast.File, dir string) {
	used := qualifiers(file)

	var refs []importRef

	claimed := map[string]bool{}

	for _, spec := range file.Imports {
		path, err := strconv.Unquote(spec.Path.Value)
		if err != nil || path == "C" {
			continue
		}

		ref := importRef{spec: spec, path: path, name: common.PkgAlias(path)}
		if spec.Name != nil {
			ref.name = spec.Name.Name
		}

		if ref.name == "_" || ref.name == "." {
			continue
		}

		claimed[ref.name] = true
		refs = append(refs, ref)
	}

	unclaimed := false

	for q := range used {
		if !claimed[q] {
			unclaimed = true
			break
		}
	}

	var names map[string]string

	for _, ref := range refs {
		if used[ref.name] {
			continue
		}

		specName := ""
		if ref.spec.Name != nil {
			specName = ref.spec.Name.Name
		} else if unclaimed {
			if names == nil {
				names = g.declaredNames(dir, refs)
			}

			declared, ok := names[ref.path]
			if !ok || used[declared] {
				continue
			}
		}

		astutil.DeleteNamedImport(fset, file, specName, ref.path)
	}
}

// importRef is an import of the generated file with the name it is
// referenced by.
type importRef struct {
	spec *ast.ImportSpec
	path string
	name string
}

// declaredNames returns the package names declared by the unnamed imports
// in refs. Lookup failures yield an empty map.
func (g *Generator) declaredNames(dir string, refs []importRef) map[string]string {
	var paths []string

	for _, r := range refs {
		if r.spec.Name == nil {
			paths = append(paths, r.path)
		}
	}

	names, err := g.packageNames(dir, paths...)
	if err != nil {
		logger.Logger.Debugw("package names unavailable, keeping imports", "dir", dir, "error", err)
	}

	if names == nil {
		names = map[string]string{}
	}

	return names
}

// qualifiers returns the unresolved identifiers used as selector operands,
// the package names referenced by file plus package-level names declared in
// other files.
func qualifiers(file *ast.File) map[string]bool {
	out := map[string]bool{}

	for _, decl := range file.Decls {
		if gd, ok := decl.(*ast.GenDecl); ok && gd.Tok == token.IMPORT {
			continue
		}

		ast.Inspect(decl, func(n ast.Node) bool {
			if sel, ok := n.(*ast.SelectorExpr); ok {
				if id, ok := sel.X.(*ast.Ident); ok && id.Obj == nil {
					out[id.Name] = true
				}
			}

			return true
		})
	}

	return out
}

func qualifierUsed(file *ast.File, name string) bool {
	return qualifiers(file)[name]
}

// negateConstraint returns the //go:build line selecting the builds line
// excludes.
func negateConstraint(line string) (string, error) {
	expr, err := constraint.Parse(line)
	if err != nil {
		return "", errors.Wrapf(err, "parsing build constraint %q", line)
	}

	if not, ok := expr.(*constraint.NotExpr); ok {
		return "//go:build " + not.X.String(), nil
	}

	return "//go:build " + (&constraint.NotExpr{X: expr}).String(), nil
}

// buildConstraint returns the //go:build line of file, if any.
func buildConstraint(file *ast.File) *ast.Comment {
	for _, cg := range file.Comments {
		if cg.Pos() > file.Package {
			break
		}

		for _, c := range cg.List {
			if constraint.IsGoBuild(c.Text) {
				return c
			}
		}
	}

	return nil
}
