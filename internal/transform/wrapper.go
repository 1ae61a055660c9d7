package transform

import (
	"variant-generator/internal/analyze"
	"variant-generator/internal/common"
)

// Wrapper turns a field type T into the optional-of(T) type.
type Wrapper interface {
	Wrap(t analyze.TypeExpr) analyze.TypeExpr
	// Import is the package path the wrapped type needs, or "".
	Import() string
}

// PointerWrapper wraps T as *T.
type PointerWrapper struct{}

func (PointerWrapper) Wrap(t analyze.TypeExpr) analyze.TypeExpr {
	return analyze.TypeExpr{Text: "*" + t.Text}
}

func (PointerWrapper) Import() string { return "" }

// GenericWrapper wraps T as Name[T], e.g. "opt.Value[string]".
type GenericWrapper struct {
	Name string // Generic type, optionally package-qualified
	Path string // Import path providing Name
}

func (w GenericWrapper) Wrap(t analyze.TypeExpr) analyze.TypeExpr {
	return analyze.TypeExpr{Text: w.Name + "[" + t.Text + "]"}
}

func (w GenericWrapper) Import() string { return w.Path }

// Qualifier returns the package qualifier used by Name, or "".
func (w GenericWrapper) Qualifier() string {
	q, _ := common.QualifierOf(w.Name)
	return q
}

// NewWrapper builds the wrapper for a configured optional type. An empty
// name or "*" selects PointerWrapper.
func NewWrapper(name, importPath string) Wrapper {
	if name == "" || name == "*" {
		return PointerWrapper{}
	}

	return GenericWrapper{Name: name, Path: importPath}
}

// IsPointer reports whether w is the pointer wrapper.
func IsPointer(w Wrapper) bool {
	_, ok := w.(PointerWrapper)
	return ok
}
