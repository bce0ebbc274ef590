package graphml

import (
	"encoding/xml"
	"io"
	"strconv"
	"strings"

	"github.com/FocuswithJustin/hierarchizer/core/errors"
	"github.com/FocuswithJustin/hierarchizer/core/graph"
)

// keySet assigns "_N" identifiers to key declarations in first-use order.
type keySet struct {
	ids   map[string]string
	order []keyDecl
}

type keyDecl struct {
	id, qname, typ string
}

func (k *keySet) add(qname, typ string) string {
	sig := qname + "\x00" + typ
	if id, ok := k.ids[sig]; ok {
		return id
	}
	id := "_" + strconv.Itoa(len(k.order))
	k.ids[sig] = id
	k.order = append(k.order, keyDecl{id: id, qname: qname, typ: typ})
	return id
}

func (k *keySet) id(qname, typ string) string {
	return k.ids[qname+"\x00"+typ]
}

type writer struct {
	enc  *xml.Encoder
	keys *keySet
	next int
}

// elementID returns a fresh file-wide element identifier.
func (w *writer) elementID() string {
	id := "_" + strconv.Itoa(w.next)
	w.next++
	return id
}

// Write encodes docs as a single GraphML file. Documents without graph are
// skipped.
func Write(out io.Writer, docs ...*graph.Document) error {
	if _, err := io.WriteString(out, xml.Header); err != nil {
		return errors.NewIO("write", "", err)
	}
	w := &writer{enc: xml.NewEncoder(out), keys: &keySet{ids: make(map[string]string)}}
	w.enc.Indent("", "  ")

	w.keys.add(keyType, "string")
	w.keys.add(keyData, "string")
	w.keys.add(keyStart, "int")
	w.keys.add(keyEnd, "int")
	w.keys.add(keySType, "string")
	w.keys.add(keyLayer, "string")
	for _, d := range docs {
		if d == nil || d.Graph == nil {
			continue
		}
		for _, n := range d.Graph.Nodes() {
			for _, a := range n.Annotations() {
				w.keys.add(a.QName(), "string")
			}
		}
		for _, r := range d.Graph.Relations() {
			for _, a := range r.Annotations() {
				w.keys.add(a.QName(), "string")
			}
		}
	}

	root := xml.StartElement{
		Name: xml.Name{Local: "graphml"},
		Attr: []xml.Attr{{Name: xml.Name{Local: "xmlns"}, Value: Namespace}},
	}
	if err := w.enc.EncodeToken(root); err != nil {
		return err
	}
	for _, k := range w.keys.order {
		err := w.empty("key",
			attr("id", k.id), attr("attr.name", k.qname), attr("for", "all"), attr("attr.type", k.typ))
		if err != nil {
			return err
		}
	}
	used := make(map[string]int)
	for _, d := range docs {
		if d == nil || d.Graph == nil {
			continue
		}
		name := d.Name
		if used[name]++; used[name] > 1 {
			name += "_" + strconv.Itoa(used[name])
		}
		if err := w.writeGraph(name, d.Graph); err != nil {
			return err
		}
	}
	if err := w.enc.EncodeToken(root.End()); err != nil {
		return err
	}
	if err := w.enc.Flush(); err != nil {
		return errors.NewIO("write", "", err)
	}
	_, err := io.WriteString(out, "\n")
	return err
}

func (w *writer) writeGraph(name string, g *graph.Graph) error {
	start := xml.StartElement{
		Name: xml.Name{Local: "graph"},
		Attr: []xml.Attr{attr("id", name), attr("edgedefault", "directed")},
	}
	if err := w.enc.EncodeToken(start); err != nil {
		return err
	}

	memberships := layerMemberships(g)
	ids := make(map[string]string)

	textID := w.elementID()
	if err := w.open("node", attr("id", textID)); err != nil {
		return err
	}
	if err := w.data(keyType, "string", typeText); err != nil {
		return err
	}
	if err := w.data(keyData, "string", g.Text()); err != nil {
		return err
	}
	if err := w.close("node"); err != nil {
		return err
	}

	for _, n := range g.Nodes() {
		id := w.elementID()
		ids[n.ID()] = id
		if err := w.writeNode(id, n, memberships[n.ID()]); err != nil {
			return err
		}
	}
	for _, t := range g.Tokens() {
		err := w.open("edge", attr("id", w.elementID()), attr("source", ids[t.ID()]), attr("target", textID))
		if err != nil {
			return err
		}
		if err := w.data(keyType, "string", typeTextual); err != nil {
			return err
		}
		if err := w.data(keyStart, "int", strconv.Itoa(t.Start)); err != nil {
			return err
		}
		if err := w.data(keyEnd, "int", strconv.Itoa(t.End)); err != nil {
			return err
		}
		if err := w.close("edge"); err != nil {
			return err
		}
	}
	for _, r := range g.Relations() {
		if err := w.writeRelation(r, ids, memberships[r.ID()]); err != nil {
			return err
		}
	}
	return w.enc.EncodeToken(start.End())
}

func (w *writer) writeNode(id string, n graph.Node, layers []string) error {
	if err := w.open("node", attr("id", id)); err != nil {
		return err
	}
	typ := typeToken
	switch n.Kind() {
	case graph.SpanNode:
		typ = typeSpan
	case graph.StructureNode:
		typ = typeStructure
	}
	if err := w.data(keyType, "string", typ); err != nil {
		return err
	}
	if err := w.annotations(n.Annotations()); err != nil {
		return err
	}
	if len(layers) > 0 {
		if err := w.data(keyLayer, "string", strings.Join(layers, layerSeparator)); err != nil {
			return err
		}
	}
	return w.close("node")
}

func (w *writer) writeRelation(r *graph.Relation, ids map[string]string, layers []string) error {
	err := w.open("edge", attr("id", w.elementID()), attr("source", ids[r.Source.ID()]), attr("target", ids[r.Target.ID()]))
	if err != nil {
		return err
	}
	typ := typeSpanning
	switch r.Kind {
	case graph.Dominance:
		typ = typeDominance
	case graph.Pointing:
		typ = typePointing
	case graph.Order:
		typ = typeOrder
	}
	if err := w.data(keyType, "string", typ); err != nil {
		return err
	}
	if r.Type != "" {
		if err := w.data(keySType, "string", r.Type); err != nil {
			return err
		}
	}
	if err := w.annotations(r.Annotations()); err != nil {
		return err
	}
	if len(layers) > 0 {
		if err := w.data(keyLayer, "string", strings.Join(layers, layerSeparator)); err != nil {
			return err
		}
	}
	return w.close("edge")
}

func (w *writer) annotations(annos []*graph.Annotation) error {
	for _, a := range annos {
		if err := w.data(a.QName(), "string", a.Value); err != nil {
			return err
		}
	}
	return nil
}

func (w *writer) data(qname, typ, value string) error {
	if err := w.open("data", attr("key", w.keys.id(qname, typ))); err != nil {
		return err
	}
	if err := w.enc.EncodeToken(xml.CharData(value)); err != nil {
		return err
	}
	return w.close("data")
}

func (w *writer) open(name string, attrs ...xml.Attr) error {
	return w.enc.EncodeToken(xml.StartElement{Name: xml.Name{Local: name}, Attr: attrs})
}

func (w *writer) close(name string) error {
	return w.enc.EncodeToken(xml.EndElement{Name: xml.Name{Local: name}})
}

func (w *writer) empty(name string, attrs ...xml.Attr) error {
	if err := w.open(name, attrs...); err != nil {
		return err
	}
	return w.close(name)
}

func attr(name, value string) xml.Attr {
	return xml.Attr{Name: xml.Name{Local: name}, Value: value}
}

// layerMemberships maps node and relation IDs to the names of the layers
// containing them.
func layerMemberships(g *graph.Graph) map[string][]string {
	m := make(map[string][]string)
	for _, l := range g.Layers() {
		for _, n := range l.Nodes() {
			m[n.ID()] = append(m[n.ID()], l.Name)
		}
		for _, r := range l.Relations() {
			m[r.ID()] = append(m[r.ID()], l.Name)
		}
	}
	return m
}
