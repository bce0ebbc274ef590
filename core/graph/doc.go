// Package graph provides the in-memory annotation graph a document is
// hierarchized on.
//
// The graph uses stand-off markup: a document text is cut into tokens, and
// every higher-level annotation refers to tokens instead of text ranges.
//
// # Node Types
//
//   - Token: an atomic text unit, ordered by its byte offsets into the text
//   - Span: an unordered (possibly discontinuous) set of tokens carrying annotations
//   - Structure: a hierarchical node dominating tokens and other structures
//
// # Relation Types
//
//   - Spanning: span to token
//   - Dominance: structure to token or structure (tree edges)
//   - Pointing: secondary, non-tree edges between nodes
//
// Relations carry a Type string used for structural classification
// (for example "edge" or "refers_to"); it is not an annotation.
//
// # Layers
//
// A Layer groups nodes and relations by provenance. A node may belong to any
// number of layers.
//
// A Graph is not safe for concurrent mutation. Each document owns its graph
// and is processed by one goroutine at a time.
package graph
