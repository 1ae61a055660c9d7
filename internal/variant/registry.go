package variant

import (
	"fmt"
	"go/token"

	"github.com/cockroachdb/errors"
)

// ErrDuplicateVariant is the sentinel behind DuplicateError.
var ErrDuplicateVariant = errors.New("duplicate variant")

// DuplicateError reports a variant keyword registered twice.
type DuplicateError struct {
	Variant string
	First   token.Position
	Second  token.Position
}

func (e *DuplicateError) Error() string {
	msg := fmt.Sprintf("variant %q is declared more than once", e.Variant)
	if e.Second.IsValid() {
		msg = e.Second.String() + ": " + msg
	}

	if e.First.IsValid() {
		msg += " (first declared at " + e.First.String() + ")"
	}

	return msg
}

// Unwrap lets errors.Is match ErrDuplicateVariant.
func (e *DuplicateError) Unwrap() error { return ErrDuplicateVariant }

// Assignment binds a variant keyword to an output type name.
type Assignment struct {
	Variant    string
	OutputName string
	Pos        token.Position
}

// String returns "variant=OutputName".
func (a Assignment) String() string {
	return a.Variant + "=" + a.OutputName
}

// Registry maps variant keywords to output type names. It is read-only after New.
type Registry struct {
	entries []Assignment
	index   map[string]int
}

// New builds a registry from assignments in declaration order.
// Output names are not required to be unique here; the consistency checker
// reports collisions.
func New(assignments []Assignment) (*Registry, error) {
	r := &Registry{
		entries: make([]Assignment, 0, len(assignments)),
		index:   make(map[string]int, len(assignments)),
	}

	for _, a := range assignments {
		if i, ok := r.index[a.Variant]; ok {
			return nil, &DuplicateError{
				Variant: a.Variant,
				First:   r.entries[i].Pos,
				Second:  a.Pos,
			}
		}

		r.index[a.Variant] = len(r.entries)
		r.entries = append(r.entries, a)
	}

	return r, nil
}

// MustNew is New for static assignment lists; it panics on error.
func MustNew(assignments ...Assignment) *Registry {
	r, err := New(assignments)
	if err != nil {
		panic(err)
	}

	return r
}

// Has reports whether variant is registered.
func (r *Registry) Has(variant string) bool {
	_, ok := r.index[variant]
	return ok
}

// Len returns the number of registered variants.
func (r *Registry) Len() int {
	return len(r.entries)
}

// Variants returns the registered keywords in declaration order.
func (r *Registry) Variants() []string {
	out := make([]string, len(r.entries))
	for i, e := range r.entries {
		out[i] = e.Variant
	}

	return out
}

// Entries returns a copy of the assignments in declaration order.
func (r *Registry) Entries() []Assignment {
	return append([]Assignment(nil), r.entries...)
}
