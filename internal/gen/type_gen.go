package gen

import (
	"bytes"
	"reflect"
	"strconv"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/cockroachdb/errors"
	"github.com/fatih/structtag"

	"variant-generator/internal/analyze"
	"variant-generator/internal/transform"
)

// structView is the template data for one struct declaration.
type structView struct {
	Doc        []string
	Name       string
	TypeParams string
	Fields     []fieldView
}

// fieldView is one rendered field. Name is empty for embedded fields and
// Tag includes its quotes.
type fieldView struct {
	Doc     []string
	Name    string
	Type    string
	Tag     string
	Comment string
}

var structTemplate = template.Must(
	template.New("struct").
		Funcs(sprig.TxtFuncMap()).
		Parse(`{{range .Doc}}{{.}}
{{end}}type {{.Name}}{{.TypeParams}} struct {
{{- range .Fields}}
{{- range .Doc}}
	{{.}}
{{- end}}
	{{list .Name .Type .Tag .Comment | compact | join " "}}
{{- end}}
}
`))

// GenerateStruct renders a derived struct definition.
func (g *Generator) GenerateStruct(d *transform.DerivedStructDef) (string, error) {
	view := structView{
		Doc:        variantDoc(d),
		Name:       d.Name,
		TypeParams: d.TypeParams,
	}

	if err := g.addFields(&view, d.Fields); err != nil {
		return "", errors.Wrapf(err, "%s", d.Name)
	}

	return renderStruct(&view)
}

func (g *Generator) addFields(view *structView, fields []analyze.FieldDef) error {
	for i := range fields {
		f := &fields[i]

		tag, err := stripTag(f.Tag, g.config.TagKey)
		if err != nil {
			return errors.Wrapf(err, "field %s", f.Name)
		}

		fv := fieldView{
			Doc:     f.Doc,
			Type:    f.Type.Text,
			Tag:     quoteTag(tag),
			Comment: f.Comment,
		}

		if !f.Embedded {
			fv.Name = f.Name
		}

		view.Fields = append(view.Fields, fv)
	}

	return nil
}

func renderStruct(view *structView) (string, error) {
	var buf bytes.Buffer
	if err := structTemplate.Execute(&buf, view); err != nil {
		return "", errors.Wrap(err, "executing struct template")
	}

	return buf.String(), nil
}

// variantDoc returns the doc comment of a generated struct. The base and a
// variant that reuses the canonical name take the canonical doc as is.
func variantDoc(d *transform.DerivedStructDef) []string {
	if d.Name == d.Source {
		return d.Doc
	}

	doc := []string{"// " + d.Name + " is the " + d.Variant + " variant of " + d.Source + "."}
	if len(d.Doc) > 0 {
		doc = append(doc, "//")
		doc = append(doc, d.Doc...)
	}

	return doc
}

// stripTag removes key from tag, leaving every other key untouched.
func stripTag(tag reflect.StructTag, key string) (string, error) {
	if _, ok := tag.Lookup(key); !ok {
		return string(tag), nil
	}

	tags, err := structtag.Parse(string(tag))
	if err != nil {
		return "", errors.Wrapf(err, "parsing struct tag %q", string(tag))
	}

	if tags == nil {
		return "", nil
	}

	tags.Delete(key)

	return tags.String(), nil
}

func quoteTag(tag string) string {
	if tag == "" {
		return ""
	}

	if strings.Contains(tag, "`") {
		return strconv.Quote(tag)
	}

	return "`" + tag + "`"
}
