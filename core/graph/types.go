package graph

import (
	"strings"
)

// NodeKind identifies the type of a node.
type NodeKind int

// Node kinds.
const (
	TokenNode NodeKind = iota
	SpanNode
	StructureNode
)

func (k NodeKind) String() string {
	switch k {
	case TokenNode:
		return "token"
	case SpanNode:
		return "span"
	case StructureNode:
		return "structure"
	default:
		return "unknown"
	}
}

// RelationKind identifies the type of a relation.
type RelationKind int

// Relation kinds.
const (
	Spanning RelationKind = iota
	Dominance
	Pointing
	Order
)

func (k RelationKind) String() string {
	switch k {
	case Spanning:
		return "spanning"
	case Dominance:
		return "dominance"
	case Pointing:
		return "pointing"
	case Order:
		return "order"
	default:
		return "unknown"
	}
}

// qnameSeparator separates namespace and name in a qualified annotation name.
const qnameSeparator = "::"

// QName joins a namespace and a name into a qualified name.
func QName(namespace, name string) string {
	if namespace == "" {
		return name
	}
	return namespace + qnameSeparator + name
}

// SplitQName splits a qualified name into namespace and name.
// A name without separator has an empty namespace.
func SplitQName(qname string) (namespace, name string) {
	if i := strings.LastIndex(qname, qnameSeparator); i >= 0 {
		return qname[:i], qname[i+len(qnameSeparator):]
	}
	return "", qname
}

// Annotation is a name/value label on a node or relation.
type Annotation struct {
	Namespace string
	Name      string
	Value     string
}

// QName returns the qualified name of the annotation.
func (a *Annotation) QName() string {
	return QName(a.Namespace, a.Name)
}

// annotations is the label set shared by nodes and relations.
// Qualified names are unique; insertion order is kept for stable output.
type annotations struct {
	list []*Annotation
}

// Annotations returns the annotations in insertion order.
func (a *annotations) Annotations() []*Annotation {
	out := make([]*Annotation, len(a.list))
	copy(out, a.list)
	return out
}

// Annotation returns the annotation with the given qualified name, or nil.
func (a *annotations) Annotation(qname string) *Annotation {
	for _, anno := range a.list {
		if anno.QName() == qname {
			return anno
		}
	}
	return nil
}

// HasAnnotation reports whether an annotation with the qualified name exists.
func (a *annotations) HasAnnotation(qname string) bool {
	return a.Annotation(qname) != nil
}

// Annotate sets the annotation with the given qualified name, replacing the
// value of an existing one.
func (a *annotations) Annotate(qname, value string) *Annotation {
	if existing := a.Annotation(qname); existing != nil {
		existing.Value = value
		return existing
	}
	ns, name := SplitQName(qname)
	anno := &Annotation{Namespace: ns, Name: name, Value: value}
	a.list = append(a.list, anno)
	return anno
}

// RemoveAnnotation deletes the annotation with the given qualified name.
func (a *annotations) RemoveAnnotation(qname string) bool {
	for i, anno := range a.list {
		if anno.QName() == qname {
			a.list = append(a.list[:i], a.list[i+1:]...)
			return true
		}
	}
	return false
}

// Node is implemented by *Token, *Span and *Structure.
type Node interface {
	ID() string
	Kind() NodeKind
	Annotations() []*Annotation
	Annotation(qname string) *Annotation
	HasAnnotation(qname string) bool
	Annotate(qname, value string) *Annotation
	RemoveAnnotation(qname string) bool
}

// Token is an atomic text unit. Start and End are byte offsets into the
// graph text; tokens are ordered by Start.
type Token struct {
	annotations
	id    string
	Start int
	End   int
}

// ID returns the node identifier.
func (t *Token) ID() string { return t.id }

// Kind returns TokenNode.
func (t *Token) Kind() NodeKind { return TokenNode }

// Span is an unordered set of tokens with annotations.
type Span struct {
	annotations
	id string
}

// ID returns the node identifier.
func (s *Span) ID() string { return s.id }

// Kind returns SpanNode.
func (s *Span) Kind() NodeKind { return SpanNode }

// Structure is a hierarchical node dominating tokens and structures.
type Structure struct {
	annotations
	id string
}

// ID returns the node identifier.
func (s *Structure) ID() string { return s.id }

// Kind returns StructureNode.
func (s *Structure) Kind() NodeKind { return StructureNode }

// Relation is a directed, typed edge between two nodes.
type Relation struct {
	annotations
	id     string
	Kind   RelationKind
	Type   string
	Source Node
	Target Node
}

// ID returns the relation identifier.
func (r *Relation) ID() string { return r.id }

// Child is a dominance target: exactly one of Token or Structure is set.
type Child struct {
	Token     *Token
	Structure *Structure
}

// TokenChild wraps a token as a dominance target.
func TokenChild(t *Token) Child { return Child{Token: t} }

// StructureChild wraps a structure as a dominance target.
func StructureChild(s *Structure) Child { return Child{Structure: s} }

// Node returns the wrapped node, or nil for the zero Child.
func (c Child) Node() Node {
	switch {
	case c.Token != nil:
		return c.Token
	case c.Structure != nil:
		return c.Structure
	default:
		return nil
	}
}

// ID returns the identifier of the wrapped node.
func (c Child) ID() string {
	if n := c.Node(); n != nil {
		return n.ID()
	}
	return ""
}

// ChildOf converts a token or structure node into a Child.
func ChildOf(n Node) (Child, bool) {
	switch v := n.(type) {
	case *Token:
		return TokenChild(v), true
	case *Structure:
		return StructureChild(v), true
	default:
		return Child{}, false
	}
}

// Document is a named annotation graph.
type Document struct {
	Name  string
	Graph *Graph
}

// NewDocument creates a document with an empty graph over text.
func NewDocument(name, text string) *Document {
	return &Document{Name: name, Graph: New(text)}
}
