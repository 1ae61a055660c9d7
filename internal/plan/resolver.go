package plan

import (
	"fmt"

	"github.com/cockroachdb/errors"

	"variant-generator/internal/analyze"
	"variant-generator/internal/diagnostic"
	"variant-generator/internal/logger"
	"variant-generator/internal/transform"
	"variant-generator/internal/variant"
)

// ErrConflictingSources is returned when a struct has variant assignments in
// both its directive and the registry file.
var ErrConflictingSources = errors.New("variants declared in both directive and registry file")

// ResolutionConfig holds configuration for the resolution process.
type ResolutionConfig struct {
	// Registry is the parsed registry file, or nil.
	Registry *variant.File
	// Wrapper wraps the types of optional fields.
	Wrapper transform.Wrapper
	// Keywords is the variant keyword allow-list. Empty allows any.
	Keywords []string
}

// DefaultConfig returns the default resolution configuration.
func DefaultConfig() ResolutionConfig {
	return ResolutionConfig{
		Wrapper: transform.PointerWrapper{},
	}
}

// Resolver performs the resolution pipeline.
type Resolver struct {
	file   *analyze.SourceFile
	config ResolutionConfig
}

// NewResolver creates a new Resolver.
func NewResolver(file *analyze.SourceFile, config ResolutionConfig) *Resolver {
	return &Resolver{file: file, config: config}
}

// Resolve runs the full resolution pipeline. Malformed registries are
// returned as errors; consistency violations are collected in the plan's
// Diagnostics.
func (r *Resolver) Resolve() (*Plan, error) {
	if r.file == nil {
		return nil, errors.New("source file is required")
	}

	plan := &Plan{File: r.file}

	for _, decl := range r.file.Decls {
		reg, err := r.registry(decl)
		if err != nil {
			return nil, err
		}

		derived, diags := transform.Generate(decl.Struct, reg, transform.Options{
			Wrapper:          r.config.Wrapper,
			Keywords:         r.config.Keywords,
			CanonicalInPlace: !r.file.Template,
		})
		plan.Diagnostics.Merge(diags)

		plan.Items = append(plan.Items, Item{
			Decl:     decl,
			Registry: reg,
			Derived:  derived,
		})
	}

	r.checkFileNames(plan)

	logger.Logger.Debugw("resolved plan",
		"path", r.file.Path,
		"structs", len(plan.Items),
		"errors", len(plan.Diagnostics.Errors))

	return plan, nil
}

// registry builds the registry for decl from its directive or the registry
// file. A bare directive defers to the registry file.
func (r *Resolver) registry(decl *analyze.Declaration) (*variant.Registry, error) {
	name := decl.Struct.Name
	fromFile, inFile := r.config.Registry.Lookup(name)

	var assignments []variant.Assignment

	switch {
	case decl.Directive != "" && inFile:
		return nil, errors.WithHint(
			errors.Wrapf(ErrConflictingSources, "%s: %s", decl.DirectivePos, name),
			"keep the assignments in one place",
		)
	case decl.Directive != "" || (decl.HasDirective && !inFile):
		parsed, err := variant.ParseDirective(decl.Directive, decl.DirectivePos)
		if err != nil {
			return nil, errors.Wrapf(err, "%s: %s", decl.DirectivePos, name)
		}

		assignments = parsed
	case inFile:
		assignments = fromFile
	default:
		return nil, errors.Newf("%s: %s: no variant assignments", decl.Struct.Pos, name)
	}

	reg, err := variant.New(assignments)
	if err != nil {
		return nil, errors.Wrapf(err, "%s", name)
	}

	return reg, nil
}

// checkFileNames reports generated names that clash with another struct of
// the same file, either a canonical struct or another struct's variant.
func (r *Resolver) checkFileNames(plan *Plan) {
	owners := map[string]string{}

	for _, it := range plan.Items {
		owners[it.Struct().Name] = it.Struct().Name
	}

	for _, it := range plan.Items {
		for _, a := range it.Registry.Entries() {
			owner, ok := owners[a.OutputName]
			if !ok {
				owners[a.OutputName] = it.Struct().Name
				continue
			}

			if owner == it.Struct().Name {
				continue
			}

			plan.Diagnostics.Add(diagnostic.Diagnostic{
				Severity: diagnostic.SeverityError,
				Code:     diagnostic.CodeDuplicateOutputName,
				Message:  fmt.Sprintf("type %s is also generated or declared by %s", a.OutputName, owner),
				Struct:   it.Struct().Name,
				Variant:  a.Variant,
				Pos:      a.Pos,
			})
		}
	}
}
