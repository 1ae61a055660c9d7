package analyze

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"variant-generator/internal/annotation"
)

const userSource = `package users

import "time"

// User is an account.
//
//variant:generate create=CreateUser update=UpdateUser show=User
type User struct {
	ID         int64  ` + "`json:\"id\" variant:\"hide(create)\"`" + `
	FirstName  string ` + "`json:\"first_name\" variant:\"optional(update)\"`" + `
	SecondName string ` + "`json:\"second_name\" variant:\"optional(update)\"`" + `
	Age        uint8  ` + "`json:\"age\" variant:\"optional(update)\"`" + `
	// Password is stored hashed.
	Password  string ` + "`json:\"password\" variant:\"optional(update),hide(show)\"`" + `
	CreatedAt time.Time // set by the database
	internal  bool
}

type Unrelated struct {
	Name string ` + "`variant:\"hide(create)\"`" + `
}
`

func parse(t *testing.T, src string, cfg LoaderConfig) *SourceFile {
	t.Helper()

	sf, err := NewLoader(cfg).ParseSource("user.go", []byte(src))
	require.NoError(t, err)

	return sf
}

func TestLoader_ParseSource(t *testing.T) {
	sf := parse(t, userSource, DefaultLoaderConfig())

	assert.Equal(t, "users", sf.Package)
	assert.False(t, sf.Template)
	require.Len(t, sf.Decls, 1, "only the struct with a directive is canonical")

	d := sf.Decls[0]
	assert.True(t, d.HasDirective)
	assert.Equal(t, "create=CreateUser update=UpdateUser show=User", d.Directive)
	assert.Equal(t, 7, d.DirectivePos.Line)

	def := d.Struct
	assert.Equal(t, "User", def.Name)
	assert.Equal(t, []string{"// User is an account."}, def.Doc)
	assert.Equal(t, []string{"ID", "FirstName", "SecondName", "Age", "Password", "CreatedAt", "internal"}, fieldNames(def))

	id := lookupField(t, def, "ID")
	assert.Equal(t, "int64", id.Type.String())
	assert.Equal(t, annotation.Rules{annotation.Hide("create")}, id.Rules)
	assert.Equal(t, "id", id.Tag.Get("json"))

	pw := lookupField(t, def, "Password")
	assert.Equal(t, []string{"// Password is stored hashed."}, pw.Doc)
	assert.Equal(t, annotation.Rules{annotation.Optional("update"), annotation.Hide("show")}, pw.Rules)

	created := lookupField(t, def, "CreatedAt")
	assert.Equal(t, "time.Time", created.Type.Text)
	assert.Equal(t, "// set by the database", created.Comment)
	assert.Empty(t, created.Rules)

	internal := lookupField(t, def, "internal")
	assert.Equal(t, "bool", internal.Type.Text)
}

func fieldNames(def *StructDef) []string {
	names := make([]string, len(def.Fields))
	for i, f := range def.Fields {
		names[i] = f.Name
	}

	return names
}

func lookupField(t *testing.T, def *StructDef, name string) FieldDef {
	t.Helper()

	for _, f := range def.Fields {
		if f.Name == name {
			return f
		}
	}

	require.Failf(t, "field not found", "%s has no field %s", def.Name, name)

	return FieldDef{}
}

func TestLoader_IncludeWithoutDirective(t *testing.T) {
	cfg := DefaultLoaderConfig()
	cfg.Include = []string{"Unrelated"}

	sf := parse(t, userSource, cfg)
	require.Len(t, sf.Decls, 2)
	assert.Equal(t, "Unrelated", sf.Decls[1].Struct.Name)
	assert.False(t, sf.Decls[1].HasDirective)
}

func TestLoader_TemplateConstraint(t *testing.T) {
	tests := []struct {
		name     string
		header   string
		template bool
	}{
		{name: "tag only", header: "//go:build variantgen\n\n", template: true},
		{name: "tag and platform", header: "//go:build variantgen && linux\n\n", template: true},
		{name: "negated", header: "//go:build !variantgen\n\n", template: false},
		{name: "unrelated tag", header: "//go:build linux\n\n", template: false},
		{name: "satisfiable without tag", header: "//go:build variantgen || !linux\n\n", template: false},
		{name: "none", header: "", template: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sf := parse(t, tt.header+userSource, DefaultLoaderConfig())
			assert.Equal(t, tt.template, sf.Template)

			if tt.template {
				require.NotNil(t, sf.Constraint)
				assert.Contains(t, sf.Constraint.Text, "variantgen")
			}
		})
	}
}

func TestLoader_FieldShapes(t *testing.T) {
	src := `package shapes

import "example.com/base"

//variant:generate create=CreatePage
type Page[T any, K comparable] struct {
	base.Model ` + "`variant:\"hide(create)\"`" + `
	*Meta
	A, B  int ` + "`variant:\"optional(create)\"`" + `
	Items map[K][]*T
	Fn    func(ctx string) (int, error)
	_     struct{}
	_     int
}
`

	sf := parse(t, src, DefaultLoaderConfig())
	require.Len(t, sf.Decls, 1)

	def := sf.Decls[0].Struct
	assert.Equal(t, "[T any, K comparable]", def.TypeParams)
	assert.Equal(t, []string{"Model", "Meta", "A", "B", "Items", "Fn", "_", "_"}, fieldNames(def))

	model := def.Fields[0]
	assert.True(t, model.Embedded)
	assert.Equal(t, "base.Model", model.Type.Text)
	assert.Equal(t, annotation.Rules{annotation.Hide("create")}, model.Rules)

	meta := def.Fields[1]
	assert.True(t, meta.Embedded)
	assert.True(t, meta.Type.IsPointer())

	a, b := def.Fields[2], def.Fields[3]
	assert.Equal(t, a.Rules, b.Rules)
	assert.Equal(t, "int", b.Type.Text)

	assert.Equal(t, "map[K][]*T", def.Fields[4].Type.Text)
	assert.Equal(t, "func(ctx string) (int, error)", def.Fields[5].Type.Text)
}

func TestLoader_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		msg  string
	}{
		{
			name: "unrecognized annotation",
			src:  "package p\n//variant:generate create=C\ntype T struct {\n\tA int `variant:\"rename(create)\"`\n}\n",
			msg:  "unrecognized annotation",
		},
		{
			name: "not a struct",
			src:  "package p\n//variant:generate create=C\ntype T []int\n",
			msg:  "only be derived from struct types",
		},
		{
			name: "alias",
			src:  "package p\ntype S struct{}\n//variant:generate create=C\ntype T = S\n",
			msg:  "only be derived from struct types",
		},
		{
			name: "grouped declaration",
			src:  "package p\ntype (\n\t//variant:generate create=C\n\tT struct{}\n)\n",
			msg:  "grouped type declaration",
		},
		{
			name: "duplicate field",
			src:  "package p\n//variant:generate create=C\ntype T struct {\n\tA int\n\tA string\n}\n",
			msg:  "duplicate field A",
		},
		{
			name: "syntax error",
			src:  "package p\ntype T struct {",
			msg:  "failed to parse",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLoader(DefaultLoaderConfig()).ParseSource("t.go", []byte(tt.src))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestLoader_UnrecognizedAnnotationIsTyped(t *testing.T) {
	src := "package p\n//variant:generate create=C\ntype T struct {\n\tA int `variant:\"hide(create\"`\n}\n"

	_, err := NewLoader(DefaultLoaderConfig()).ParseSource("t.go", []byte(src))
	require.ErrorIs(t, err, annotation.ErrUnrecognized)
	assert.Contains(t, err.Error(), "t.go:4:2: T.A")
}

func TestLoader_DirectiveMatching(t *testing.T) {
	src := "package p\n//variant:generated create=C\ntype T struct{}\n\n//variant:generate\ntype U struct{}\n"

	sf := parse(t, src, DefaultLoaderConfig())
	require.Len(t, sf.Decls, 1)
	assert.Equal(t, "U", sf.Decls[0].Struct.Name)
	assert.Empty(t, sf.Decls[0].Directive)
}

func TestLoader_DocDropsGoDirectives(t *testing.T) {
	src := "package p\n\n// T is a thing.\n//go:generate variant-generator gen\n//variant:generate create=C\ntype T struct{}\n"

	sf := parse(t, src, DefaultLoaderConfig())
	require.Len(t, sf.Decls, 1)
	assert.Equal(t, []string{"// T is a thing."}, sf.Decls[0].Struct.Doc)
}

func TestLoader_LoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "user.go")
	require.NoError(t, os.WriteFile(path, []byte(userSource), 0o644))

	sf, err := NewLoader(DefaultLoaderConfig()).LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, path, sf.Path)
	assert.Len(t, sf.Decls, 1)

	_, err = NewLoader(DefaultLoaderConfig()).LoadFile(filepath.Join(dir, "nope.go"))
	require.Error(t, err)
}
