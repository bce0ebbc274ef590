package graph

import "slices"

// Layer is a named grouping of nodes and relations. Membership is ordered
// by insertion and unique.
type Layer struct {
	Name string

	nodes     []Node
	nodeSet   map[string]bool
	relations []*Relation
	relSet    map[string]bool
}

// CreateLayer returns the layer with the given name, creating it first when
// it does not exist yet.
func (g *Graph) CreateLayer(name string) *Layer {
	if l := g.Layer(name); l != nil {
		return l
	}
	l := &Layer{
		Name:    name,
		nodeSet: make(map[string]bool),
		relSet:  make(map[string]bool),
	}
	g.layers = append(g.layers, l)
	return l
}

// Layer returns the named layer, or nil.
func (g *Graph) Layer(name string) *Layer {
	for _, l := range g.layers {
		if l.Name == name {
			return l
		}
	}
	return nil
}

// Layers returns all layers in creation order.
func (g *Graph) Layers() []*Layer {
	return slices.Clone(g.layers)
}

// AddNode adds n to the layer. Adding a member twice is a no-op.
func (l *Layer) AddNode(n Node) {
	if l.nodeSet[n.ID()] {
		return
	}
	l.nodeSet[n.ID()] = true
	l.nodes = append(l.nodes, n)
}

// AddRelation adds r to the layer. Adding a member twice is a no-op.
func (l *Layer) AddRelation(r *Relation) {
	if l.relSet[r.id] {
		return
	}
	l.relSet[r.id] = true
	l.relations = append(l.relations, r)
}

// Nodes returns the member nodes in insertion order.
func (l *Layer) Nodes() []Node {
	return slices.Clone(l.nodes)
}

// Relations returns the member relations in insertion order.
func (l *Layer) Relations() []*Relation {
	return slices.Clone(l.relations)
}

// ContainsNode reports whether n belongs to the layer.
func (l *Layer) ContainsNode(n Node) bool {
	return l.nodeSet[n.ID()]
}

// ContainsRelation reports whether r belongs to the layer.
func (l *Layer) ContainsRelation(r *Relation) bool {
	return l.relSet[r.id]
}

func (l *Layer) removeNode(n Node) {
	if !l.nodeSet[n.ID()] {
		return
	}
	delete(l.nodeSet, n.ID())
	l.nodes = slices.DeleteFunc(l.nodes, func(x Node) bool { return x.ID() == n.ID() })
}

func (l *Layer) removeRelation(r *Relation) {
	if !l.relSet[r.id] {
		return
	}
	delete(l.relSet, r.id)
	l.relations = slices.DeleteFunc(l.relations, func(x *Relation) bool { return x == r })
}
