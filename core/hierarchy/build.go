package hierarchy

import (
	"fmt"
	"log/slog"

	"github.com/FocuswithJustin/hierarchizer/core/errors"
	"github.com/FocuswithJustin/hierarchizer/core/graph"
	"github.com/FocuswithJustin/hierarchizer/internal/logging"
)

// tokenMap maps token IDs to the structure built over them at the level
// processed last.
type tokenMap map[string]*graph.Structure

// edgeLabel is an annotation waiting for the dominance relation that will
// point at a child built by a deeper edge-only level.
type edgeLabel struct {
	name  string
	value string
}

// pendingLabels maps child node IDs to their deferred edge annotation.
type pendingLabels map[string]edgeLabel

// structAnnotation records the structure annotation written at build time
// and the span the structure was built from.
type structAnnotation struct {
	structure  *graph.Structure
	annotation *graph.Annotation
	span       string
}

// builder holds the per-run state of a single document.
type builder struct {
	doc    *graph.Document
	g      *graph.Graph
	props  *Properties
	layer  *graph.Layer
	logger *slog.Logger
	report *Report

	created     []*graph.Structure
	structAnnos []structAnnotation
}

func newBuilder(doc *graph.Document, p *Properties, logger *slog.Logger) *builder {
	b := &builder{
		doc:    doc,
		g:      doc.Graph,
		props:  p,
		logger: logger,
		report: &Report{Document: doc.Name},
	}
	if p.LayerName != "" {
		b.layer = b.g.CreateLayer(p.LayerName)
	}
	return b
}

// buildLevels processes the levels from the most specific to the most
// general one.
func (b *builder) buildLevels() error {
	levels := b.props.Names
	spans := collectLevels(b.g, levels)
	b.report.Levels = make([]LevelReport, len(levels))

	tok2struct := tokenMap{}
	pending := pendingLabels{}
	for i := len(levels) - 1; i >= 0; i-- {
		var err error
		tok2struct, pending, err = b.buildLevel(levels[i], spans[i], tok2struct, pending, &b.report.Levels[i])
		if err != nil {
			return err
		}
	}
	return nil
}

// buildLevel turns the spans of one level into structures, or into deferred
// edge labels for an edge-only level. It returns the token map and pending
// labels to hand to the next, more general level.
func (b *builder) buildLevel(level string, spans []*graph.Span, tok2struct tokenMap, pending pendingLabels, rep *LevelReport) (tokenMap, pendingLabels, error) {
	edgeOnly := b.props.IsEdgeOnly(level)
	*rep = LevelReport{Name: level, EdgeOnly: edgeOnly, Spans: len(spans)}
	if len(spans) == 0 {
		logging.LevelEmpty(b.logger, level)
	}

	next := tokenMap{}
	if edgeOnly {
		next = tok2struct
	}

	for _, span := range spans {
		tokens := graph.SortByText(b.g.OverlappedTokens(span))
		if len(tokens) == 0 {
			logging.SpanSkipped(b.logger, level, span.ID(), "span covers no tokens")
			rep.Skipped++
			continue
		}

		children := make([]graph.Child, 0, len(tokens))
		seen := make(map[string]bool, len(tokens))
		for _, tok := range tokens {
			child := graph.TokenChild(tok)
			if st, ok := tok2struct[tok.ID()]; ok {
				child = graph.StructureChild(st)
			}
			if !seen[child.ID()] {
				seen[child.ID()] = true
				children = append(children, child)
			}
			if b.layer != nil {
				b.layer.AddNode(tok)
			}
		}

		value, err := b.levelValue(level, span)
		if err != nil {
			return nil, nil, err
		}

		if edgeOnly {
			for _, c := range children {
				pending[c.ID()] = edgeLabel{name: level, value: value}
			}
			rep.EdgeLabels += len(children)
			continue
		}

		st, rels, err := b.g.CreateStructure(children...)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "level %s: span %s", level, span.ID())
		}
		anno := st.Annotate(b.props.StructAnnoName, value)
		for _, r := range rels {
			r.Type = b.props.EdgeType
			if label, ok := pending[r.Target.ID()]; ok {
				r.Annotate(label.name, label.value)
				delete(pending, r.Target.ID())
				rep.LabeledEdges++
			}
		}
		for _, tok := range tokens {
			next[tok.ID()] = st
		}
		if b.props.DeleteSpans && len(span.Annotations()) == 1 {
			if err := b.g.RemoveNode(span); err != nil {
				return nil, nil, err
			}
			b.report.DeletedSpans++
		}
		if b.layer != nil {
			b.layer.AddNode(st)
			for _, r := range rels {
				b.layer.AddRelation(r)
			}
		}

		b.created = append(b.created, st)
		b.structAnnos = append(b.structAnnos, structAnnotation{structure: st, annotation: anno, span: span.ID()})
		rep.Structures++
	}

	if edgeOnly {
		return next, pending, nil
	}
	// Labels not claimed by this level belong to nothing above it.
	return next, pendingLabels{}, nil
}

// levelValue returns the structure annotation value for a span at level.
func (b *builder) levelValue(level string, span *graph.Span) (string, error) {
	if v, ok := b.props.DefaultValues[level]; ok {
		return v, nil
	}
	if anno := span.Annotation(level); anno != nil {
		return anno.Value, nil
	}
	return "", &errors.DocumentError{
		Document: b.doc.Name,
		Message:  fmt.Sprintf("span %s selected for level %s has no %s annotation and no default value is configured", span.ID(), level, level),
	}
}
