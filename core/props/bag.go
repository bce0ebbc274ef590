package props

import (
	"io"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/FocuswithJustin/hierarchizer/core/errors"
)

// Bag is a flat set of raw property values keyed by property name.
type Bag map[string]string

// Keys returns the property names in sorted order.
func (b Bag) Keys() []string {
	keys := make([]string, 0, len(b))
	for k := range b {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Merge copies every entry of other into b, replacing existing values.
func (b Bag) Merge(other Bag) {
	for k, v := range other {
		b[k] = v
	}
}

// Lookup returns the trimmed value for key and whether it is set.
func (b Bag) Lookup(key string) (string, bool) {
	v, ok := b[key]
	return strings.TrimSpace(v), ok
}

// ParseAssignment splits a "key=value" command line assignment.
func ParseAssignment(s string) (key, value string, err error) {
	key, value, ok := strings.Cut(s, "=")
	key = strings.TrimSpace(key)
	if !ok || key == "" {
		return "", "", errors.NewParse("property assignment", "", "expected key=value, got "+s)
	}
	return key, value, nil
}

// ParseAssignments builds a bag from "key=value" assignments. Later
// assignments of the same key win.
func ParseAssignments(assignments []string) (Bag, error) {
	b := Bag{}
	for _, a := range assignments {
		k, v, err := ParseAssignment(a)
		if err != nil {
			return nil, err
		}
		b[k] = v
	}
	return b, nil
}

// LoadFile reads a YAML property file.
func LoadFile(path string) (Bag, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.NewIO("open", path, err)
	}
	defer f.Close()
	b, err := Load(f)
	if err != nil {
		var pe *errors.ParseError
		if errors.As(err, &pe) {
			pe.Path = path
		}
		return nil, err
	}
	return b, nil
}

// Load reads a flat YAML mapping of property names to values.
//
// Scalars are taken verbatim. A sequence becomes a comma separated list and
// a mapping becomes comma separated "key:=value" pairs, both in document
// order:
//
//	hierarchy.names: [sentence, np]
//	hierarchy.default.values:
//	  sentence: S
func Load(r io.Reader) (Bag, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if err == io.EOF {
			return Bag{}, nil
		}
		return nil, &errors.ParseError{Format: "YAML", Message: err.Error(), Err: err}
	}
	root := &doc
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		root = root.Content[0]
	}
	if root.Kind != yaml.MappingNode {
		return nil, errors.NewParse("YAML", "", "property file must be a mapping")
	}

	b := Bag{}
	for i := 0; i+1 < len(root.Content); i += 2 {
		key, val := root.Content[i].Value, root.Content[i+1]
		s, err := flatten(key, val)
		if err != nil {
			return nil, err
		}
		b[key] = s
	}
	return b, nil
}

func flatten(key string, n *yaml.Node) (string, error) {
	switch n.Kind {
	case yaml.ScalarNode:
		return n.Value, nil
	case yaml.SequenceNode:
		items := make([]string, 0, len(n.Content))
		for _, item := range n.Content {
			if item.Kind != yaml.ScalarNode {
				return "", errors.NewParse("YAML", "", key+": list items must be scalars")
			}
			items = append(items, item.Value)
		}
		return strings.Join(items, ","), nil
	case yaml.MappingNode:
		pairs := make([]string, 0, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			k, v := n.Content[i], n.Content[i+1]
			if v.Kind != yaml.ScalarNode {
				return "", errors.NewParse("YAML", "", key+": mapping values must be scalars")
			}
			pairs = append(pairs, k.Value+":="+v.Value)
		}
		return strings.Join(pairs, ","), nil
	default:
		return "", errors.NewParse("YAML", "", key+": unsupported value")
	}
}
