// Package orderrel chains tokens, or the spans of named segmentations, with
// order relations in text order.
//
// Without segmentations every token is linked to the next one. With
// segmentations, the spans carrying each annotation name are ordered by the
// start offset of their first token and linked pairwise; the relations are
// typed with the segmentation name. Of two spans of one segmentation that
// start at the same offset, the later one in enumeration order is kept.
package orderrel

import (
	"log/slog"
	"slices"

	"github.com/FocuswithJustin/hierarchizer/core/errors"
	"github.com/FocuswithJustin/hierarchizer/core/graph"
	"github.com/FocuswithJustin/hierarchizer/internal/logging"
)

// Result counts the order relations created.
type Result struct {
	// Tokens is the number of relations between tokens.
	Tokens int `json:"tokens"`
	// Segmentations maps each segmentation name to its relation count.
	Segmentations map[string]int `json:"segmentations,omitempty"`
}

// Total returns the number of relations created.
func (r Result) Total() int {
	n := r.Tokens
	for _, c := range r.Segmentations {
		n += c
	}
	return n
}

// Add creates the order relations configured by p in g.
func Add(g *graph.Graph, p *Properties, logger *slog.Logger) (Result, error) {
	if g == nil {
		return Result{}, errors.NewValidation("graph", "graph is required")
	}
	if p == nil {
		p = &Properties{}
	}
	if logger == nil {
		logger = logging.GetLogger()
	}

	if len(p.Segmentations) == 0 {
		n, err := chain(g, graph.SortByText(g.Tokens()), p.TokenType)
		if err != nil {
			return Result{}, err
		}
		if n == 0 {
			logger.Warn("no order relations added between tokens")
		} else {
			logger.Debug("order relations added between tokens", "relations", n)
		}
		return Result{Tokens: n}, nil
	}

	res := Result{Segmentations: make(map[string]int, len(p.Segmentations))}
	for _, seg := range p.Segmentations {
		spans := segmentSpans(g, seg, logger)
		if len(spans) == 0 {
			logger.Warn("no spans for segmentation", "segmentation", seg)
			continue
		}
		n, err := chain(g, spans, seg)
		if err != nil {
			return res, err
		}
		res.Segmentations[seg] = n
		logger.Debug("order relations added for segmentation", "segmentation", seg, "relations", n)
	}
	return res, nil
}

// segmentSpans returns the spans annotated with seg ordered by start
// offset, one per offset.
func segmentSpans(g *graph.Graph, seg string, logger *slog.Logger) []*graph.Span {
	byStart := make(map[int]*graph.Span)
	for _, s := range g.Spans() {
		if !s.HasAnnotation(seg) {
			continue
		}
		toks := graph.SortByText(g.OverlappedTokens(s))
		if len(toks) == 0 {
			logger.Debug("span without tokens ignored", "segmentation", seg, "span", s.ID())
			continue
		}
		start := toks[0].Start
		if prev, ok := byStart[start]; ok {
			logger.Debug("span replaced at equal start", "segmentation", seg, "span", s.ID(), "replaced", prev.ID(), "start", start)
		}
		byStart[start] = s
	}
	starts := make([]int, 0, len(byStart))
	for start := range byStart {
		starts = append(starts, start)
	}
	slices.Sort(starts)
	spans := make([]*graph.Span, len(starts))
	for i, start := range starts {
		spans[i] = byStart[start]
	}
	return spans
}

// chain links consecutive nodes with order relations of the given type.
func chain[N graph.Node](g *graph.Graph, nodes []N, typ string) (int, error) {
	n := 0
	for i := 1; i < len(nodes); i++ {
		r, err := g.CreateRelation(graph.Order, nodes[i-1], nodes[i])
		if err != nil {
			return n, err
		}
		r.Type = typ
		n++
	}
	return n, nil
}
