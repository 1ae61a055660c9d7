package annotation

import (
	"fmt"
	"strings"

	"github.com/alecthomas/participle"
	"github.com/alecthomas/participle/lexer"
	"github.com/cockroachdb/errors"
)

// ErrUnrecognized is the sentinel behind every annotation syntax error.
var ErrUnrecognized = errors.New("unrecognized annotation")

// Error describes an annotation that could not be parsed.
type Error struct {
	// Annotation is the raw tag value, or the offending element of it.
	Annotation string
	// Column is the 1-based column inside the tag value, 0 if unknown.
	Column int
	Reason string
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("unrecognized annotation %q", e.Annotation)
	if e.Column > 0 {
		msg += fmt.Sprintf(" at column %d", e.Column)
	}

	if e.Reason != "" {
		msg += ": " + e.Reason
	}

	return msg
}

// Unwrap lets errors.Is match ErrUnrecognized.
func (e *Error) Unwrap() error { return ErrUnrecognized }

type tagAST struct {
	Annotations []*annotationAST `parser:"( @@ ( \",\" @@ )* )?"`
}

type annotationAST struct {
	Pos      lexer.Position
	Kind     string   `parser:"@Ident"`
	Variants []string `parser:"\"(\" @Ident ( \",\" @Ident )* \")\""`
}

var tagParser = participle.MustBuild(&tagAST{})

// Parse converts a raw annotation tag value into rules. One annotation may
// list several variants; each produces its own rule. An empty value yields
// no rules.
func Parse(value string) (Rules, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}

	var ast tagAST
	if err := tagParser.ParseString(value, &ast); err != nil {
		return nil, &Error{Annotation: value, Reason: syntaxReason(err)}
	}

	rules := make(Rules, 0, len(ast.Annotations))

	for _, a := range ast.Annotations {
		kind, ok := ParseKind(a.Kind)
		if !ok {
			return nil, &Error{
				Annotation: a.Kind + "(" + strings.Join(a.Variants, ", ") + ")",
				Column:     a.Pos.Column,
				Reason:     "expected one of hide, optional, show",
			}
		}

		for _, v := range a.Variants {
			rules = append(rules, Rule{Kind: kind, Variant: v})
		}
	}

	return rules, nil
}

// syntaxReason strips participle's "line:col: " prefix from a parse error.
func syntaxReason(err error) string {
	msg := err.Error()
	if i := strings.LastIndex(msg, ": "); i >= 0 && i+2 < len(msg) {
		return msg[i+2:]
	}

	return msg
}
