package variant

import (
	"go/token"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/kballard/go-shellquote"
)

// ErrMalformedDirective is returned for directive arguments that are not a
// list of keyword=TypeName pairs.
var ErrMalformedDirective = errors.New("malformed variant directive")

// ParseDirective parses directive arguments into assignments. Pairs are
// separated by spaces or commas and spaces around "=" are allowed:
//
//	create=CreateUser update=UpdateUser
//	create = CreateUser, update = UpdateUser
//
// Words are split with shell quoting rules, the same way go:generate splits
// its arguments. pos is attached to every assignment.
func ParseDirective(args string, pos token.Position) ([]Assignment, error) {
	words, err := shellquote.Split(args)
	if err != nil {
		return nil, errors.Wrapf(ErrMalformedDirective, "splitting %q: %v", args, err)
	}

	toks := tokenize(words)
	if len(toks) == 0 {
		return nil, errors.WithHint(
			errors.Wrap(ErrMalformedDirective, "no variant assignments"),
			"declare at least one pair, e.g. create=CreateUser",
		)
	}

	var out []Assignment

	for i := 0; i < len(toks); i += 3 {
		if i+2 >= len(toks) || toks[i+1] != "=" {
			return nil, errors.Wrapf(ErrMalformedDirective, "expected keyword=TypeName near %q", strings.Join(toks[i:], " "))
		}

		variant, output := toks[i], toks[i+2]
		if !token.IsIdentifier(variant) {
			return nil, errors.Wrapf(ErrMalformedDirective, "variant keyword %q is not an identifier", variant)
		}

		if !token.IsIdentifier(output) {
			return nil, errors.Wrapf(ErrMalformedDirective, "output type name %q is not an identifier", output)
		}

		out = append(out, Assignment{Variant: variant, OutputName: output, Pos: pos})
	}

	return out, nil
}

// tokenize splits shell words into identifiers and "=" tokens, dropping commas.
func tokenize(words []string) []string {
	var toks []string

	for _, w := range words {
		for _, piece := range strings.Split(w, ",") {
			for piece != "" {
				i := strings.IndexByte(piece, '=')
				if i < 0 {
					toks = append(toks, piece)
					break
				}

				if i > 0 {
					toks = append(toks, piece[:i])
				}

				toks = append(toks, "=")
				piece = piece[i+1:]
			}
		}
	}

	return toks
}
