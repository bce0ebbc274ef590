package graph

import (
	"fmt"
	"slices"

	"github.com/FocuswithJustin/hierarchizer/core/errors"
)

// Graph holds the tokens, spans, structures and relations of one document.
//
// Nodes and relations keep their creation order; enumeration methods return
// them in that order. Removed elements are dropped from the index right away
// and compacted out of the ordered lists lazily.
type Graph struct {
	text string

	nodes     []Node
	index     map[string]Node
	deadNodes int

	relations []*Relation
	relIndex  map[string]*Relation
	deadRels  int

	out map[string][]*Relation
	in  map[string][]*Relation

	layers []*Layer

	counters map[string]int
}

// New creates an empty graph over the given primary text.
func New(text string) *Graph {
	return &Graph{
		text:     text,
		index:    make(map[string]Node),
		relIndex: make(map[string]*Relation),
		out:      make(map[string][]*Relation),
		in:       make(map[string][]*Relation),
		counters: make(map[string]int),
	}
}

// Text returns the primary text.
func (g *Graph) Text() string {
	return g.text
}

func (g *Graph) nextID(prefix string) string {
	g.counters[prefix]++
	return fmt.Sprintf("%s%d", prefix, g.counters[prefix])
}

func (g *Graph) addNode(n Node) {
	g.nodes = append(g.nodes, n)
	g.index[n.ID()] = n
}

// CreateToken adds a token covering text[start:end].
func (g *Graph) CreateToken(start, end int) (*Token, error) {
	if start < 0 || end > len(g.text) || start >= end {
		return nil, &errors.ValidationError{
			Field:   "token",
			Value:   fmt.Sprintf("%d-%d", start, end),
			Message: fmt.Sprintf("offsets outside text of length %d", len(g.text)),
		}
	}
	t := &Token{id: g.nextID("tok"), Start: start, End: end}
	g.addNode(t)
	return t, nil
}

// TokenText returns the text covered by a token.
func (g *Graph) TokenText(t *Token) string {
	if t.Start < 0 || t.End > len(g.text) || t.Start > t.End {
		return ""
	}
	return g.text[t.Start:t.End]
}

// CreateSpan adds a span over the given tokens. Duplicate tokens are
// collapsed. A span without tokens is allowed.
func (g *Graph) CreateSpan(tokens ...*Token) (*Span, error) {
	for _, t := range tokens {
		if !g.Contains(t) {
			return nil, errors.NewNotFound("token", t.ID())
		}
	}
	s := &Span{id: g.nextID("span")}
	g.addNode(s)
	seen := make(map[string]bool, len(tokens))
	for _, t := range tokens {
		if seen[t.id] {
			continue
		}
		seen[t.id] = true
		g.link(Spanning, s, t)
	}
	return s, nil
}

// CreateStructure adds a structure dominating children in the given order.
// Duplicate children are collapsed, first occurrence wins. The returned
// dominance relations are in child order and carry an empty Type.
func (g *Graph) CreateStructure(children ...Child) (*Structure, []*Relation, error) {
	if len(children) == 0 {
		return nil, nil, errors.NewValidation("children", "structure needs at least one child")
	}
	for _, c := range children {
		n := c.Node()
		if n == nil {
			return nil, nil, errors.NewValidation("children", "empty child")
		}
		if !g.Contains(n) {
			return nil, nil, errors.NewNotFound(n.Kind().String(), n.ID())
		}
	}
	s := &Structure{id: g.nextID("struct")}
	g.addNode(s)
	rels := make([]*Relation, 0, len(children))
	seen := make(map[string]bool, len(children))
	for _, c := range children {
		n := c.Node()
		if seen[n.ID()] {
			continue
		}
		seen[n.ID()] = true
		rels = append(rels, g.link(Dominance, s, n))
	}
	return s, rels, nil
}

// NewStructure adds a structure without children. Decoders use it to
// restore stored structures before their dominance relations; every other
// caller should use CreateStructure.
func (g *Graph) NewStructure() *Structure {
	s := &Structure{id: g.nextID("struct")}
	g.addNode(s)
	return s
}

// CreateRelation adds a relation of the given kind. Spanning relations must
// go from a span to a token, dominance relations from a structure to a token
// or structure. Pointing relations may connect any two distinct nodes. Order
// relations connect two distinct nodes of the same kind.
func (g *Graph) CreateRelation(kind RelationKind, source, target Node) (*Relation, error) {
	if source == nil || target == nil {
		return nil, errors.NewValidation("relation", "source and target are required")
	}
	if !g.Contains(source) {
		return nil, errors.NewNotFound(source.Kind().String(), source.ID())
	}
	if !g.Contains(target) {
		return nil, errors.NewNotFound(target.Kind().String(), target.ID())
	}
	switch kind {
	case Spanning:
		if source.Kind() != SpanNode || target.Kind() != TokenNode {
			return nil, errors.NewValidation("relation", "spanning relations go from span to token")
		}
	case Dominance:
		if source.Kind() != StructureNode || target.Kind() == SpanNode {
			return nil, errors.NewValidation("relation", "dominance relations go from structure to token or structure")
		}
		if source.ID() == target.ID() {
			return nil, errors.NewValidation("relation", "structure cannot dominate itself")
		}
	case Pointing:
		if source.ID() == target.ID() {
			return nil, errors.NewValidation("relation", "pointing relation cannot be a loop")
		}
	case Order:
		if source.ID() == target.ID() {
			return nil, errors.NewValidation("relation", "order relation cannot be a loop")
		}
		if source.Kind() != target.Kind() {
			return nil, errors.NewValidation("relation", "order relations connect nodes of the same kind")
		}
	default:
		return nil, errors.NewUnsupported("relation kind", kind.String())
	}
	return g.link(kind, source, target), nil
}

func (g *Graph) link(kind RelationKind, source, target Node) *Relation {
	r := &Relation{id: g.nextID("rel"), Kind: kind, Source: source, Target: target}
	g.relations = append(g.relations, r)
	g.relIndex[r.id] = r
	g.out[source.ID()] = append(g.out[source.ID()], r)
	g.in[target.ID()] = append(g.in[target.ID()], r)
	return r
}

// Contains reports whether n is a live node of this graph.
func (g *Graph) Contains(n Node) bool {
	if n == nil {
		return false
	}
	existing, ok := g.index[n.ID()]
	return ok && existing == n
}

// Node returns the node with the given ID, or nil.
func (g *Graph) Node(id string) Node {
	return g.index[id]
}

// Nodes returns all live nodes in creation order.
func (g *Graph) Nodes() []Node {
	g.compact()
	out := make([]Node, len(g.nodes))
	copy(out, g.nodes)
	return out
}

// Tokens returns all tokens in creation order.
func (g *Graph) Tokens() []*Token {
	g.compact()
	var out []*Token
	for _, n := range g.nodes {
		if t, ok := n.(*Token); ok {
			out = append(out, t)
		}
	}
	return out
}

// Spans returns all spans in creation order.
func (g *Graph) Spans() []*Span {
	g.compact()
	var out []*Span
	for _, n := range g.nodes {
		if s, ok := n.(*Span); ok {
			out = append(out, s)
		}
	}
	return out
}

// Structures returns all structures in creation order.
func (g *Graph) Structures() []*Structure {
	g.compact()
	var out []*Structure
	for _, n := range g.nodes {
		if s, ok := n.(*Structure); ok {
			out = append(out, s)
		}
	}
	return out
}

// Relations returns all live relations in creation order.
func (g *Graph) Relations() []*Relation {
	g.compact()
	out := make([]*Relation, len(g.relations))
	copy(out, g.relations)
	return out
}

// Relation returns the relation with the given ID, or nil.
func (g *Graph) Relation(id string) *Relation {
	return g.relIndex[id]
}

// OutRelations returns the relations leaving n in creation order.
func (g *Graph) OutRelations(n Node) []*Relation {
	return slices.Clone(g.out[n.ID()])
}

// InRelations returns the relations entering n in creation order.
func (g *Graph) InRelations(n Node) []*Relation {
	return slices.Clone(g.in[n.ID()])
}

// RemoveNode deletes n together with every relation touching it and its
// layer memberships.
func (g *Graph) RemoveNode(n Node) error {
	if !g.Contains(n) {
		return errors.NewNotFound("node", n.ID())
	}
	for _, r := range slices.Concat(g.out[n.ID()], g.in[n.ID()]) {
		g.removeRelation(r)
	}
	delete(g.out, n.ID())
	delete(g.in, n.ID())
	delete(g.index, n.ID())
	g.deadNodes++
	for _, l := range g.layers {
		l.removeNode(n)
	}
	return nil
}

// RemoveRelation deletes a single relation.
func (g *Graph) RemoveRelation(r *Relation) error {
	if g.relIndex[r.id] != r {
		return errors.NewNotFound("relation", r.id)
	}
	g.removeRelation(r)
	return nil
}

func (g *Graph) removeRelation(r *Relation) {
	if g.relIndex[r.id] != r {
		return
	}
	delete(g.relIndex, r.id)
	g.deadRels++
	g.out[r.Source.ID()] = slices.DeleteFunc(g.out[r.Source.ID()], func(x *Relation) bool { return x == r })
	g.in[r.Target.ID()] = slices.DeleteFunc(g.in[r.Target.ID()], func(x *Relation) bool { return x == r })
	for _, l := range g.layers {
		l.removeRelation(r)
	}
}

// compact drops removed elements from the ordered lists.
func (g *Graph) compact() {
	if g.deadNodes > 0 {
		g.nodes = slices.DeleteFunc(g.nodes, func(n Node) bool { return g.index[n.ID()] != n })
		g.deadNodes = 0
	}
	if g.deadRels > 0 {
		g.relations = slices.DeleteFunc(g.relations, func(r *Relation) bool { return g.relIndex[r.id] != r })
		g.deadRels = 0
	}
}

// OverlappedTokens returns the tokens covered by n: the token itself, the
// tokens a span points to, or every token a structure reaches through
// dominance relations. Tokens are returned once, in discovery order.
func (g *Graph) OverlappedTokens(n Node) []*Token {
	if !g.Contains(n) {
		return nil
	}
	var tokens []*Token
	visited := make(map[string]bool)
	var visit func(Node)
	visit = func(cur Node) {
		if visited[cur.ID()] {
			return
		}
		visited[cur.ID()] = true
		if t, ok := cur.(*Token); ok {
			tokens = append(tokens, t)
			return
		}
		for _, r := range g.out[cur.ID()] {
			if r.Kind == Spanning || r.Kind == Dominance {
				visit(r.Target)
			}
		}
	}
	visit(n)
	return tokens
}

// SortByText returns a copy of tokens ordered by text position.
func SortByText(tokens []*Token) []*Token {
	out := slices.Clone(tokens)
	slices.SortStableFunc(out, func(a, b *Token) int {
		if a.Start != b.Start {
			return a.Start - b.Start
		}
		return a.End - b.End
	})
	return out
}

// StructureRoots returns the structures without incoming dominance relation
// in creation order.
func (g *Graph) StructureRoots() []*Structure {
	var roots []*Structure
	for _, s := range g.Structures() {
		dominated := false
		for _, r := range g.in[s.id] {
			if r.Kind == Dominance {
				dominated = true
				break
			}
		}
		if !dominated {
			roots = append(roots, s)
		}
	}
	return roots
}
