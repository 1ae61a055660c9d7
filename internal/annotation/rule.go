package annotation

import (
	"variant-generator/internal/common"
)

// Kind is the transformation a rule applies to a field.
type Kind int

const (
	KindUnknown Kind = iota
	KindHide
	KindOptional
	KindShow
)

// String returns the annotation keyword for the kind.
func (k Kind) String() string {
	switch k {
	case KindHide:
		return "hide"
	case KindOptional:
		return "optional"
	case KindShow:
		return "show"
	default:
		return common.UnknownStr
	}
}

// ParseKind maps an annotation keyword to its Kind.
func ParseKind(s string) (Kind, bool) {
	switch s {
	case "hide":
		return KindHide, true
	case "optional":
		return KindOptional, true
	case "show":
		return KindShow, true
	default:
		return KindUnknown, false
	}
}

// Rule is one field transformation for one variant.
type Rule struct {
	Kind    Kind
	Variant string
}

// Hide returns a rule that omits the field from variant.
func Hide(variant string) Rule { return Rule{Kind: KindHide, Variant: variant} }

// Optional returns a rule that wraps the field type for variant.
func Optional(variant string) Rule { return Rule{Kind: KindOptional, Variant: variant} }

// Show returns a rule that keeps the field in variant only.
func Show(variant string) Rule { return Rule{Kind: KindShow, Variant: variant} }

// String renders the rule in annotation syntax, e.g. "hide(create)".
func (r Rule) String() string {
	return r.Kind.String() + "(" + r.Variant + ")"
}

// Rules is the ordered rule list attached to a field.
type Rules []Rule

// Has reports whether a rule of kind k exists for variant.
func (rs Rules) Has(k Kind, variant string) bool {
	for _, r := range rs {
		if r.Kind == k && r.Variant == variant {
			return true
		}
	}

	return false
}

// HasKind reports whether any rule of kind k exists.
func (rs Rules) HasKind(k Kind) bool {
	for _, r := range rs {
		if r.Kind == k {
			return true
		}
	}

	return false
}

// Variants returns the distinct variants referenced by the rules, in order.
func (rs Rules) Variants() []string {
	out := make([]string, 0, len(rs))
	for _, r := range rs {
		out = append(out, r.Variant)
	}

	return common.Dedup(out)
}
