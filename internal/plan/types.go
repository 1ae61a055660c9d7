package plan

import (
	"variant-generator/internal/analyze"
	"variant-generator/internal/diagnostic"
	"variant-generator/internal/transform"
	"variant-generator/internal/variant"
)

// Plan is the final output of the resolution pipeline for one source file.
// It contains everything needed for code generation.
type Plan struct {
	// File is the analyzed source file.
	File *analyze.SourceFile
	// Items holds one entry per canonical struct, in source order.
	Items []Item
	// Diagnostics contains all warnings and errors from resolution.
	Diagnostics diagnostic.Diagnostics
}

// Item is a resolved canonical struct.
type Item struct {
	// Decl is the canonical declaration.
	Decl *analyze.Declaration
	// Registry is the variant registry the struct was derived with.
	Registry *variant.Registry
	// Derived holds the base instance followed by the variants in registry
	// order. Empty when the struct failed the consistency check.
	Derived []transform.DerivedStructDef
}

// Struct returns the canonical struct definition.
func (it *Item) Struct() *analyze.StructDef {
	return it.Decl.Struct
}

// Variants returns the derived variants without the base instance.
func (it *Item) Variants() []transform.DerivedStructDef {
	if len(it.Derived) > 0 && it.Derived[0].IsBase() {
		return it.Derived[1:]
	}

	return it.Derived
}

// Supersedes reports whether a variant reuses the canonical name. In a
// template file that variant is emitted in place of the base struct.
func (it *Item) Supersedes() bool {
	for _, d := range it.Variants() {
		if d.Name == it.Decl.Struct.Name {
			return true
		}
	}

	return false
}

// OK reports whether the plan can be emitted.
func (p *Plan) OK() bool {
	return !p.Diagnostics.HasErrors()
}

// Empty reports whether the file declares no canonical structs.
func (p *Plan) Empty() bool {
	return len(p.Items) == 0
}
