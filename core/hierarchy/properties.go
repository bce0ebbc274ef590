package hierarchy

import (
	"slices"
	"strconv"
	"strings"

	"github.com/FocuswithJustin/hierarchizer/core/errors"
	"github.com/FocuswithJustin/hierarchizer/core/props"
)

// Property keys.
const (
	KeyHierarchyNames  = "hierarchy.names"
	KeyDeleteSpans     = "delete.span.annos"
	KeyStructAnnoName  = "struct.anno.name"
	KeyDefaultValues   = "hierarchy.default.values"
	KeyEdgeType        = "hierarchy.edge.type"
	KeyLayerName       = "hierarchy.layer.name"
	KeyEdgeNames       = "hierarchy.edge.names"
	KeyPointers        = "pointers"
	KeyPointerMarker   = "pointers.marker"
	KeyPointerEdgeType = "pointers.edge.type"
	KeyCommonRoot      = "hierarchy.common.root"
	KeyRootValue       = "hierarchy.root.value"
)

// Properties configures a hierarchization run.
type Properties struct {
	// Names are the hierarchy levels, most general first.
	Names []string
	// DeleteSpans removes spans with a single annotation once a structure
	// has been built from them.
	DeleteSpans bool
	// StructAnnoName is the annotation name written onto created structures.
	StructAnnoName string
	// DefaultValues overrides the structure annotation value per level.
	DefaultValues map[string]string
	// EdgeType is set on every created dominance relation.
	EdgeType string
	// LayerName groups created nodes and relations. Empty means no layer.
	LayerName string
	// EdgeNames are levels turned into edge annotations instead of
	// structures. Every entry must appear in Names.
	EdgeNames []string

	Pointers        bool
	PointerMarker   string
	PointerEdgeType string

	CommonRoot bool
	RootValue  string
}

// PropertyInfo describes one property key.
type PropertyInfo struct {
	Key      string
	Default  string
	Required bool
	Help     string
}

var propertyInfo = []PropertyInfo{
	{Key: KeyHierarchyNames, Required: true, Help: "Comma separated hierarchy level names, most general first."},
	{Key: KeyDeleteSpans, Default: "true", Help: "Delete spans carrying a single annotation after a structure was built from them."},
	{Key: KeyStructAnnoName, Default: "cat", Help: "Annotation name for structures."},
	{Key: KeyDefaultValues, Help: `Default structure annotation values instead of the span's value, as comma separated "name:=value" pairs.`},
	{Key: KeyEdgeType, Default: "edge", Help: "Type set on all generated dominance relations. It is not an annotation."},
	{Key: KeyLayerName, Help: "Layer around all generated trees. No value means no layer."},
	{Key: KeyEdgeNames, Help: "Levels assigned as annotations of the dominance relations between two levels instead of as a level of their own. Each must be listed in " + KeyHierarchyNames + "."},
	{Key: KeyPointers, Default: "false", Help: "Build pointing relations between structures sharing a marked id in their annotation value."},
	{Key: KeyPointerMarker, Default: "#", Help: "Marker introducing a pointer id."},
	{Key: KeyPointerEdgeType, Default: "refers_to", Help: "Type of the pointing relations."},
	{Key: KeyCommonRoot, Default: "false", Help: "Add a document root structure dominating all tree roots."},
	{Key: KeyRootValue, Default: "TEXT", Help: "Annotation value of the document root."},
}

// Describe lists every supported property with its default and help text.
func Describe() []PropertyInfo {
	return slices.Clone(propertyInfo)
}

// DefaultProperties returns properties with every default applied and no
// hierarchy levels.
func DefaultProperties() *Properties {
	return &Properties{
		DeleteSpans:     true,
		StructAnnoName:  "cat",
		DefaultValues:   map[string]string{},
		EdgeType:        "edge",
		PointerMarker:   "#",
		PointerEdgeType: "refers_to",
		RootValue:       "TEXT",
	}
}

// ParseProperties builds validated properties from a raw bag. Unknown keys
// and malformed values are reported as validation errors naming the key.
func ParseProperties(bag props.Bag) (*Properties, error) {
	p := DefaultProperties()
	for _, key := range bag.Keys() {
		raw, _ := bag.Lookup(key)
		if err := p.set(key, raw); err != nil {
			return nil, err
		}
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Properties) set(key, raw string) error {
	var err error
	switch key {
	case KeyHierarchyNames:
		p.Names, err = props.ParseList(raw)
	case KeyDeleteSpans:
		p.DeleteSpans, err = strconv.ParseBool(raw)
	case KeyStructAnnoName:
		p.StructAnnoName = raw
	case KeyDefaultValues:
		var pairs []props.Pair
		pairs, err = props.ParsePairs(raw)
		p.DefaultValues = make(map[string]string, len(pairs))
		for _, pair := range pairs {
			p.DefaultValues[pair.Key] = pair.Value
		}
	case KeyEdgeType:
		p.EdgeType = raw
	case KeyLayerName:
		p.LayerName = raw
	case KeyEdgeNames:
		p.EdgeNames, err = props.ParseList(raw)
	case KeyPointers:
		p.Pointers, err = strconv.ParseBool(raw)
	case KeyPointerMarker:
		p.PointerMarker = raw
	case KeyPointerEdgeType:
		p.PointerEdgeType = raw
	case KeyCommonRoot:
		p.CommonRoot, err = strconv.ParseBool(raw)
	case KeyRootValue:
		p.RootValue = raw
	default:
		return &errors.ValidationError{Field: key, Value: raw, Message: "unknown property"}
	}
	if err != nil {
		return &errors.ValidationError{Field: key, Value: raw, Message: "malformed value", Err: err}
	}
	return nil
}

// Validate checks the cross-field constraints.
func (p *Properties) Validate() error {
	if len(p.Names) == 0 {
		return errors.NewValidation(KeyHierarchyNames, "at least one hierarchy level is required")
	}
	seen := make(map[string]bool, len(p.Names))
	for _, n := range p.Names {
		if seen[n] {
			return &errors.ValidationError{Field: KeyHierarchyNames, Value: n, Message: "duplicate level " + n}
		}
		seen[n] = true
	}
	for _, n := range p.EdgeNames {
		if !seen[n] {
			return &errors.ValidationError{Field: KeyEdgeNames, Value: n, Message: "level " + n + " is not listed in " + KeyHierarchyNames}
		}
	}
	if strings.TrimSpace(p.StructAnnoName) == "" {
		return errors.NewValidation(KeyStructAnnoName, "must not be empty")
	}
	if p.PointerMarker == "" {
		return errors.NewValidation(KeyPointerMarker, "must not be empty")
	}
	return nil
}

// IsEdgeOnly reports whether level is turned into edge annotations.
func (p *Properties) IsEdgeOnly(level string) bool {
	return slices.Contains(p.EdgeNames, level)
}

// Bag renders the properties back into a raw bag.
func (p *Properties) Bag() props.Bag {
	b := props.Bag{
		KeyHierarchyNames:  strings.Join(p.Names, ","),
		KeyDeleteSpans:     strconv.FormatBool(p.DeleteSpans),
		KeyStructAnnoName:  p.StructAnnoName,
		KeyEdgeType:        p.EdgeType,
		KeyPointers:        strconv.FormatBool(p.Pointers),
		KeyPointerMarker:   p.PointerMarker,
		KeyPointerEdgeType: p.PointerEdgeType,
		KeyCommonRoot:      strconv.FormatBool(p.CommonRoot),
		KeyRootValue:       p.RootValue,
	}
	if p.LayerName != "" {
		b[KeyLayerName] = p.LayerName
	}
	if len(p.EdgeNames) > 0 {
		b[KeyEdgeNames] = strings.Join(p.EdgeNames, ",")
	}
	if len(p.DefaultValues) > 0 {
		keys := make([]string, 0, len(p.DefaultValues))
		for k := range p.DefaultValues {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		pairs := make([]string, len(keys))
		for i, k := range keys {
			pairs[i] = k + ":=" + p.DefaultValues[k]
		}
		b[KeyDefaultValues] = strings.Join(pairs, ",")
	}
	return b
}
