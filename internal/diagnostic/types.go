package diagnostic

import (
	"fmt"
	"go/token"
	"sort"
	"strings"

	"github.com/hashicorp/go-multierror"

	"variant-generator/internal/common"
)

// Violation codes reported by the consistency checker.
const (
	CodeUnknownVariant         = "unknown_variant"
	CodeConflictingRules       = "conflicting_rules"
	CodeMixedVisibility        = "mixed_visibility"
	CodeDuplicateOutputName    = "duplicate_output_name"
	CodeCanonicalNameCollision = "canonical_name_collision"
	CodeUnknownKeyword         = "unknown_keyword"
	CodeEmbeddedOptional       = "embedded_optional"
	CodeNoVariants             = "no_variants"

	// Warning codes.
	CodeNestedPointer = "nested_pointer"
)

// Diagnostics holds all diagnostic information from one generation run.
type Diagnostics struct {
	Errors   []Diagnostic
	Warnings []Diagnostic
}

// Diagnostic represents a single diagnostic message.
type Diagnostic struct {
	// Severity of the diagnostic.
	Severity Severity
	// Code is a unique identifier for this type of diagnostic.
	Code string
	// Message is the human-readable description.
	Message string
	// Struct is the canonical struct this relates to.
	Struct string
	// Field is the offending field, if any.
	Field string
	// Variant is the variant keyword involved, if any.
	Variant string
	// Pos is the source position of the field or declaration.
	Pos token.Position
	// Suggestions are potential fixes or alternatives.
	Suggestions []string
}

// Severity represents the severity level of a diagnostic.
type Severity int

const (
	SeverityWarning Severity = iota
	SeverityError
)

// String returns a human-readable severity name.
func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return common.UnknownStr
	}
}

// Add appends d to the list matching its severity.
func (d *Diagnostics) Add(diag Diagnostic) {
	if diag.Severity == SeverityError {
		d.Errors = append(d.Errors, diag)
		return
	}

	d.Warnings = append(d.Warnings, diag)
}

// HasErrors returns true if there are any error diagnostics.
func (d *Diagnostics) HasErrors() bool {
	return d != nil && len(d.Errors) > 0
}

// Merge merges another Diagnostics instance into this one.
func (d *Diagnostics) Merge(other *Diagnostics) {
	if other == nil {
		return
	}

	d.Errors = append(d.Errors, other.Errors...)
	d.Warnings = append(d.Warnings, other.Warnings...)
}

// Codes returns the distinct error codes in the order they were first reported.
func (d *Diagnostics) Codes() []string {
	if d == nil {
		return nil
	}

	codes := make([]string, 0, len(d.Errors))
	for _, e := range d.Errors {
		codes = append(codes, e.Code)
	}

	return common.Dedup(codes)
}

// Sort orders errors and warnings by source position, then code. Checker
// output is already deterministic; Sort is for callers that merge
// diagnostics from several structs.
func (d *Diagnostics) Sort() {
	less := func(s []Diagnostic) func(i, j int) bool {
		return func(i, j int) bool {
			a, b := s[i], s[j]
			if a.Pos.Filename != b.Pos.Filename {
				return a.Pos.Filename < b.Pos.Filename
			}

			if a.Pos.Line != b.Pos.Line {
				return a.Pos.Line < b.Pos.Line
			}

			return a.Code < b.Code
		}
	}

	sort.SliceStable(d.Errors, less(d.Errors))
	sort.SliceStable(d.Warnings, less(d.Warnings))
}

// Err folds all error diagnostics into a single error, or nil if there are none.
func (d *Diagnostics) Err() error {
	if !d.HasErrors() {
		return nil
	}

	var result *multierror.Error
	for _, e := range d.Errors {
		result = multierror.Append(result, e)
	}

	result.ErrorFormat = func(errs []error) string {
		parts := make([]string, 0, len(errs))
		for _, err := range errs {
			parts = append(parts, err.Error())
		}

		return fmt.Sprintf("%d violation(s): %s", len(errs), strings.Join(parts, "; "))
	}

	return result
}

// Error implements the error interface so a Diagnostic can travel inside
// aggregated errors.
func (d Diagnostic) Error() string {
	return d.String()
}

// String returns a formatted diagnostic string.
func (d Diagnostic) String() string {
	var prefix []string
	if d.Pos.IsValid() {
		prefix = append(prefix, d.Pos.String())
	}

	if d.Struct != "" {
		subject := d.Struct
		if d.Field != "" {
			subject += "." + d.Field
		}

		prefix = append(prefix, subject)
	}

	msg := d.Message
	if d.Code != "" {
		msg = fmt.Sprintf("[%s] %s", d.Code, msg)
	}

	if len(d.Suggestions) > 0 {
		msg += " (did you mean " + strings.Join(d.Suggestions, ", ") + "?)"
	}

	if len(prefix) > 0 {
		return strings.Join(prefix, " ") + ": " + msg
	}

	return msg
}
