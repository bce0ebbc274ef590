package orderrel

import (
	"strings"

	"github.com/FocuswithJustin/hierarchizer/core/errors"
	"github.com/FocuswithJustin/hierarchizer/core/props"
)

// Property keys.
const (
	KeySegmentationLayers = "segmentation-layers"
	KeyTokenType          = "order.token.type"
)

// Properties configures order relation building.
type Properties struct {
	// Segmentations are the annotation names whose spans are chained, one
	// chain per name. Empty chains the tokens instead.
	Segmentations []string
	// TokenType is the type of order relations between tokens.
	TokenType string
}

// ParseSegmentations parses a segmentation list such as "{dipl, norm}".
// The braces are optional and duplicate names are dropped.
func ParseSegmentations(s string) ([]string, error) {
	items, err := props.ParseList(strings.Trim(strings.TrimSpace(s), "{}"))
	if err != nil {
		return nil, err
	}
	var out []string
	seen := make(map[string]bool, len(items))
	for _, item := range items {
		if !seen[item] {
			seen[item] = true
			out = append(out, item)
		}
	}
	return out, nil
}

// ParseProperties builds properties from a raw bag. Unknown keys are
// validation errors naming the key.
func ParseProperties(bag props.Bag) (*Properties, error) {
	p := &Properties{}
	for _, key := range bag.Keys() {
		raw, _ := bag.Lookup(key)
		switch key {
		case KeySegmentationLayers:
			segs, err := ParseSegmentations(raw)
			if err != nil {
				return nil, &errors.ValidationError{Field: key, Value: raw, Message: "malformed value", Err: err}
			}
			p.Segmentations = segs
		case KeyTokenType:
			p.TokenType = raw
		default:
			return nil, &errors.ValidationError{Field: key, Value: raw, Message: "unknown property"}
		}
	}
	return p, nil
}
