package hierarchy

import "github.com/FocuswithJustin/hierarchizer/core/graph"

// CollectSpans returns the spans carrying an annotation named level, in
// graph enumeration order.
func CollectSpans(g *graph.Graph, level string) []*graph.Span {
	var spans []*graph.Span
	for _, s := range g.Spans() {
		if s.HasAnnotation(level) {
			spans = append(spans, s)
		}
	}
	return spans
}

// collectLevels gathers the spans of every level before any is built.
func collectLevels(g *graph.Graph, levels []string) [][]*graph.Span {
	out := make([][]*graph.Span, len(levels))
	for i, level := range levels {
		out[i] = CollectSpans(g, level)
	}
	return out
}
