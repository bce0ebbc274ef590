package hierarchy

import (
	"strings"
	"unicode"

	"github.com/FocuswithJustin/hierarchizer/core/graph"
	"github.com/FocuswithJustin/hierarchizer/internal/logging"
)

// resolvePointers links structures whose annotation values share a marked
// id with pointing relations, in build order, and strips the ids from the
// values.
func (b *builder) resolvePointers() error {
	marker := b.props.PointerMarker

	var order []string
	groups := make(map[string][]*graph.Structure)
	for _, sa := range b.structAnnos {
		if !b.g.Contains(sa.structure) {
			continue
		}
		value := sa.annotation.Value
		if !strings.Contains(value, marker) {
			continue
		}
		id := markerID(value, marker)
		ids := markerIDs(value, marker)
		for _, dropped := range ids[:len(ids)-1] {
			logging.MarkerDropped(b.logger, sa.structure.ID(), sa.span, dropped, id)
		}
		if _, ok := groups[id]; !ok {
			order = append(order, id)
		}
		groups[id] = append(groups[id], sa.structure)
		sa.annotation.Value = stripMarkers(value, marker)
	}

	for _, id := range order {
		members := groups[id]
		for i := 1; i < len(members); i++ {
			r, err := b.g.CreateRelation(graph.Pointing, members[i-1], members[i])
			if err != nil {
				return err
			}
			r.Type = b.props.PointerEdgeType
			if b.layer != nil {
				b.layer.AddRelation(r)
			}
			b.report.PointerEdges++
		}
	}
	return nil
}

// markerID returns the text from the last marker occurrence up to the next
// whitespace or the end of value.
func markerID(value, marker string) string {
	i := strings.LastIndex(value, marker)
	if i < 0 {
		return ""
	}
	return idAt(value, i, marker)
}

// markerIDs returns the id at every marker occurrence in value, in order.
// The last one is markerID(value, marker).
func markerIDs(value, marker string) []string {
	var ids []string
	for off := 0; ; {
		i := strings.Index(value[off:], marker)
		if i < 0 {
			return ids
		}
		ids = append(ids, idAt(value, off+i, marker))
		off += i + len(marker)
	}
}

// idAt returns the text from position i up to the next whitespace after the
// marker, or the end of value.
func idAt(value string, i int, marker string) string {
	rest := value[i:]
	if j := strings.IndexFunc(rest[len(marker):], unicode.IsSpace); j >= 0 {
		return rest[:len(marker)+j]
	}
	return rest
}

// stripMarkers removes every marked id from value and trims the result.
func stripMarkers(value, marker string) string {
	for {
		i := strings.Index(value, marker)
		if i < 0 {
			break
		}
		end := len(value)
		if j := strings.IndexFunc(value[i+len(marker):], unicode.IsSpace); j >= 0 {
			end = i + len(marker) + j
		}
		value = value[:i] + value[end:]
	}
	return strings.TrimSpace(value)
}
