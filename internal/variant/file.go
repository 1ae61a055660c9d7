package variant

import (
	"fmt"
	"go/token"
	"os"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

// File is a parsed registry file. Type entries keep file order.
type File struct {
	Version string
	Types   []TypeEntry
}

// TypeEntry lists the variant assignments for one canonical struct.
type TypeEntry struct {
	Name        string
	Assignments []Assignment
}

// LoadFile reads and parses a YAML registry file.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read registry file %s", path)
	}

	return ParseFile(data, path)
}

// ParseFile parses YAML registry data. filename is used for positions only.
func ParseFile(data []byte, filename string) (*File, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, errors.Wrapf(err, "failed to parse registry YAML %s", filename)
	}

	f := &File{Version: "1"}
	if len(root.Content) == 0 {
		return f, nil
	}

	doc := root.Content[0]
	if doc.Kind != yaml.MappingNode {
		return nil, errors.Newf("%s: registry file must be a mapping", filename)
	}

	for i := 0; i+1 < len(doc.Content); i += 2 {
		key, val := doc.Content[i], doc.Content[i+1]

		switch key.Value {
		case "version":
			f.Version = val.Value
		case "types":
			types, err := parseTypes(val, filename)
			if err != nil {
				return nil, err
			}

			f.Types = types
		default:
			return nil, errors.Newf("%s:%d: unknown registry key %q", filename, key.Line, key.Value)
		}
	}

	if f.Version != "1" {
		return nil, errors.WithHint(
			errors.Newf("%s: unsupported registry version %q", filename, f.Version),
			`set version: "1"`,
		)
	}

	return f, nil
}

// Lookup returns the assignments declared for typeName.
func (f *File) Lookup(typeName string) ([]Assignment, bool) {
	if f == nil {
		return nil, false
	}

	for _, t := range f.Types {
		if t.Name == typeName {
			return t.Assignments, true
		}
	}

	return nil, false
}

// parseTypes walks the mapping node directly instead of decoding into a Go
// map, so declaration order and duplicate keys survive for New to judge.
func parseTypes(node *yaml.Node, filename string) ([]TypeEntry, error) {
	if node.Kind != yaml.MappingNode {
		return nil, errors.Newf("%s:%d: types must be a mapping", filename, node.Line)
	}

	seen := map[string]int{}

	var out []TypeEntry

	for i := 0; i+1 < len(node.Content); i += 2 {
		key, val := node.Content[i], node.Content[i+1]

		if first, ok := seen[key.Value]; ok {
			return nil, errors.Newf("%s:%d: type %q already listed at line %d", filename, key.Line, key.Value, first)
		}

		seen[key.Value] = key.Line

		if val.Kind != yaml.MappingNode {
			return nil, errors.Newf("%s:%d: variants of %s must be a mapping", filename, val.Line, key.Value)
		}

		entry := TypeEntry{Name: key.Value}

		for j := 0; j+1 < len(val.Content); j += 2 {
			vk, vv := val.Content[j], val.Content[j+1]
			if vv.Kind != yaml.ScalarNode || !token.IsIdentifier(vv.Value) || !token.IsIdentifier(vk.Value) {
				return nil, errors.Wrapf(ErrMalformedDirective, "%s:%d: %s: expected keyword: TypeName", filename, vk.Line, key.Value)
			}

			entry.Assignments = append(entry.Assignments, Assignment{
				Variant:    vk.Value,
				OutputName: vv.Value,
				Pos:        token.Position{Filename: filename, Line: vk.Line, Column: vk.Column},
			})
		}

		out = append(out, entry)
	}

	return out, nil
}

// String renders the file back as YAML, used by the inspect command.
func (f *File) String() string {
	types := &yaml.Node{Kind: yaml.MappingNode}

	for _, t := range f.Types {
		vars := &yaml.Node{Kind: yaml.MappingNode}
		for _, a := range t.Assignments {
			vars.Content = append(vars.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Value: a.Variant},
				&yaml.Node{Kind: yaml.ScalarNode, Value: a.OutputName},
			)
		}

		types.Content = append(types.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: t.Name}, vars)
	}

	doc := &yaml.Node{Kind: yaml.MappingNode, Content: []*yaml.Node{
		{Kind: yaml.ScalarNode, Value: "version"},
		{Kind: yaml.ScalarNode, Value: f.Version, Style: yaml.DoubleQuotedStyle},
		{Kind: yaml.ScalarNode, Value: "types"},
		types,
	}}

	out, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Sprintf("<registry: %v>", err)
	}

	return string(out)
}
