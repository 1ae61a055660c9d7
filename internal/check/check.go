package check

import (
	"fmt"
	"slices"
	"strings"

	"variant-generator/internal/analyze"
	"variant-generator/internal/annotation"
	"variant-generator/internal/diagnostic"
	"variant-generator/internal/match"
	"variant-generator/internal/variant"
)

// Options carries the settings that affect what counts as a violation.
type Options struct {
	// Keywords restricts registry keys to this allow-list. Empty allows any.
	Keywords []string
	// CanonicalInPlace is true when the canonical struct stays declared in
	// the package next to the generated code, so no variant may reuse its name.
	CanonicalInPlace bool
	// PointerOptional is true when optional fields are wrapped as *T.
	PointerOptional bool
}

// Check validates def against reg and returns every violation found.
func Check(def *analyze.StructDef, reg *variant.Registry, opts Options) *diagnostic.Diagnostics {
	res := &diagnostic.Diagnostics{}

	checkRegistry(res, def, reg, opts)

	for i := range def.Fields {
		checkField(res, def, &def.Fields[i], reg, opts)
	}

	return res
}

func checkRegistry(res *diagnostic.Diagnostics, def *analyze.StructDef, reg *variant.Registry, opts Options) {
	if reg.Len() == 0 {
		res.Add(diagnostic.Diagnostic{
			Severity: diagnostic.SeverityError,
			Code:     diagnostic.CodeNoVariants,
			Message:  "no variants are registered",
			Struct:   def.Name,
			Pos:      def.Pos,
		})

		return
	}

	owners := map[string]string{}

	for _, a := range reg.Entries() {
		if len(opts.Keywords) > 0 && !slices.Contains(opts.Keywords, a.Variant) {
			res.Add(diagnostic.Diagnostic{
				Severity:    diagnostic.SeverityError,
				Code:        diagnostic.CodeUnknownKeyword,
				Message:     fmt.Sprintf("variant keyword %q is not in the configured keyword list", a.Variant),
				Struct:      def.Name,
				Variant:     a.Variant,
				Pos:         a.Pos,
				Suggestions: match.Suggest(a.Variant, opts.Keywords),
			})
		}

		if prev, ok := owners[a.OutputName]; ok {
			res.Add(diagnostic.Diagnostic{
				Severity: diagnostic.SeverityError,
				Code:     diagnostic.CodeDuplicateOutputName,
				Message:  fmt.Sprintf("variants %q and %q both generate type %s", prev, a.Variant, a.OutputName),
				Struct:   def.Name,
				Variant:  a.Variant,
				Pos:      a.Pos,
			})
		} else {
			owners[a.OutputName] = a.Variant
		}

		if opts.CanonicalInPlace && a.OutputName == def.Name {
			res.Add(diagnostic.Diagnostic{
				Severity: diagnostic.SeverityError,
				Code:     diagnostic.CodeCanonicalNameCollision,
				Message:  fmt.Sprintf("variant %q generates %s, which is already declared by the canonical struct", a.Variant, a.OutputName),
				Struct:   def.Name,
				Variant:  a.Variant,
				Pos:      a.Pos,
				Suggestions: []string{
					"a //go:build template file for " + def.Name,
				},
			})
		}
	}
}

func checkField(res *diagnostic.Diagnostics, def *analyze.StructDef, f *analyze.FieldDef, reg *variant.Registry, opts Options) {
	fieldErr := func(code, v, msg string, suggestions []string) {
		res.Add(diagnostic.Diagnostic{
			Severity:    diagnostic.SeverityError,
			Code:        code,
			Message:     msg,
			Struct:      def.Name,
			Field:       f.Name,
			Variant:     v,
			Pos:         f.Pos,
			Suggestions: suggestions,
		})
	}

	registered := reg.Variants()

	for _, v := range f.Rules.Variants() {
		if !reg.Has(v) {
			fieldErr(diagnostic.CodeUnknownVariant, v,
				fmt.Sprintf("variant %q is not registered", v),
				match.Suggest(v, registered))
		}

		hide := f.Rules.Has(annotation.KindHide, v)

		if hide && f.Rules.Has(annotation.KindOptional, v) {
			fieldErr(diagnostic.CodeConflictingRules, v,
				fmt.Sprintf("field is both hidden and optional in variant %q", v), nil)
		}

		if hide && f.Rules.Has(annotation.KindShow, v) {
			fieldErr(diagnostic.CodeConflictingRules, v,
				fmt.Sprintf("field is both hidden and shown in variant %q", v), nil)
		}

		optional := f.Rules.Has(annotation.KindOptional, v)

		switch {
		case f.Embedded && optional && (!opts.PointerOptional || f.Type.IsPointer()):
			fieldErr(diagnostic.CodeEmbeddedOptional, v,
				fmt.Sprintf("embedded field of type %s cannot be made optional in variant %q", f.Type, v), nil)
		case optional && opts.PointerOptional && f.Type.IsPointer():
			res.Add(diagnostic.Diagnostic{
				Severity: diagnostic.SeverityWarning,
				Code:     diagnostic.CodeNestedPointer,
				Message:  fmt.Sprintf("optional field of type %s becomes *%s in variant %q", f.Type, f.Type, v),
				Struct:   def.Name,
				Field:    f.Name,
				Variant:  v,
				Pos:      f.Pos,
			})
		}
	}

	if f.Rules.HasKind(annotation.KindShow) && f.Rules.HasKind(annotation.KindHide) {
		var shown []string
		for _, r := range f.Rules {
			if r.Kind == annotation.KindShow {
				shown = append(shown, r.Variant)
			}
		}

		fieldErr(diagnostic.CodeMixedVisibility, "",
			"show(...) and hide(...) cannot be combined on one field; show(...) already hides it from every variant it does not list",
			[]string{"show(" + strings.Join(shown, ",") + ")"})
	}
}
