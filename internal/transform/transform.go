package transform

import (
	"variant-generator/internal/analyze"
	"variant-generator/internal/annotation"
	"variant-generator/internal/check"
	"variant-generator/internal/diagnostic"
	"variant-generator/internal/logger"
	"variant-generator/internal/variant"
)

// DerivedStructDef is one generated struct: a variant of a canonical struct
// or its base instance.
type DerivedStructDef struct {
	Name       string // Output type name
	Variant    string // Variant keyword, empty for the base
	Source     string // Canonical struct name
	TypeParams string // Copied from the canonical struct
	Doc        []string
	Fields     []analyze.FieldDef
}

// Options configures derivation.
type Options struct {
	Wrapper          Wrapper
	Keywords         []string
	CanonicalInPlace bool
}

func (o Options) wrapper() Wrapper {
	if o.Wrapper == nil {
		return PointerWrapper{}
	}

	return o.Wrapper
}

// IsBase reports whether d is the untransformed base instance.
func (d *DerivedStructDef) IsBase() bool {
	return d.Variant == ""
}

// Generate checks def against reg and, when consistent, returns the base
// instance followed by one struct per registered variant in registry order.
// On any check error no definitions are returned.
func Generate(def *analyze.StructDef, reg *variant.Registry, opts Options) ([]DerivedStructDef, *diagnostic.Diagnostics) {
	diags := check.Check(def, reg, check.Options{
		Keywords:         opts.Keywords,
		CanonicalInPlace: opts.CanonicalInPlace,
		PointerOptional:  IsPointer(opts.wrapper()),
	})
	if diags.HasErrors() {
		logger.Logger.Debugw("consistency check failed", "struct", def.Name, "errors", len(diags.Errors))
		return nil, diags
	}

	out := make([]DerivedStructDef, 0, reg.Len()+1)
	out = append(out, Base(def))

	for _, a := range reg.Entries() {
		out = append(out, Derive(def, a, opts.wrapper()))
	}

	return out, diags
}

// Base returns def unchanged as a derived definition.
func Base(def *analyze.StructDef) DerivedStructDef {
	d := DerivedStructDef{
		Name:       def.Name,
		Source:     def.Name,
		TypeParams: def.TypeParams,
		Doc:        def.Doc,
		Fields:     make([]analyze.FieldDef, len(def.Fields)),
	}

	for i, f := range def.Fields {
		f.Rules = nil
		d.Fields[i] = f
	}

	return d
}

// Derive builds the variant of def described by a. It assumes def already
// passed Check.
func Derive(def *analyze.StructDef, a variant.Assignment, w Wrapper) DerivedStructDef {
	d := DerivedStructDef{
		Name:       a.OutputName,
		Variant:    a.Variant,
		Source:     def.Name,
		TypeParams: def.TypeParams,
		Doc:        def.Doc,
		Fields:     make([]analyze.FieldDef, 0, len(def.Fields)),
	}

	for _, f := range def.Fields {
		if !Visible(f.Rules, a.Variant) {
			continue
		}

		if f.Rules.Has(annotation.KindOptional, a.Variant) {
			f.Type = w.Wrap(f.Type)
		}

		f.Rules = nil
		d.Fields = append(d.Fields, f)
	}

	return d
}

// Visible reports whether a field carrying rules appears in variant.
func Visible(rules annotation.Rules, variant string) bool {
	if rules.Has(annotation.KindHide, variant) {
		return false
	}

	if rules.Has(annotation.KindOptional, variant) {
		return true
	}

	if rules.HasKind(annotation.KindShow) {
		return rules.Has(annotation.KindShow, variant)
	}

	return true
}
