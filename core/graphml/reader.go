package graphml

import (
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"

	"github.com/FocuswithJustin/hierarchizer/core/errors"
	"github.com/FocuswithJustin/hierarchizer/core/graph"
	"github.com/FocuswithJustin/hierarchizer/internal/logging"
)

var (
	rootSelector  = xpath.MustCompile("/graphml")
	keySelector   = xpath.MustCompile("/graphml/key")
	graphSelector = xpath.MustCompile("/graphml/graph")
	nodeSelector  = xpath.MustCompile("node")
	edgeSelector  = xpath.MustCompile("edge")
	dataSelector  = xpath.MustCompile("data")
)

type key struct {
	qname string
	kind  string // all, node or edge
}

type data struct {
	qname string
	value string
}

type element struct {
	id     string
	source string
	target string
	typ    string
	data   []data
}

func (e *element) value(qname string) (string, bool) {
	for _, d := range e.data {
		if d.qname == qname {
			return d.value, true
		}
	}
	return "", false
}

// Read decodes every graph in r into a document. Elements of unknown type
// are skipped with a warning. A nil logger uses the package default.
func Read(r io.Reader, logger *slog.Logger) ([]*graph.Document, error) {
	if logger == nil {
		logger = logging.GetLogger()
	}
	root, err := xmlquery.Parse(r)
	if err != nil {
		return nil, &errors.ParseError{Format: "GraphML", Message: err.Error(), Err: err}
	}
	if xmlquery.QuerySelector(root, rootSelector) == nil {
		return nil, errors.NewParse("GraphML", "", "missing graphml root element")
	}

	keys := make(map[string]key)
	for _, n := range xmlquery.QuerySelectorAll(root, keySelector) {
		id, name := n.SelectAttr("id"), n.SelectAttr("attr.name")
		if id == "" || name == "" {
			continue
		}
		if _, ok := keys[id]; !ok {
			keys[id] = key{qname: name, kind: n.SelectAttr("for")}
		}
	}

	var docs []*graph.Document
	for i, gn := range xmlquery.QuerySelectorAll(root, graphSelector) {
		name := gn.SelectAttr("id")
		if name == "" {
			name = "graph" + strconv.Itoa(i+1)
		}
		l := logging.ForDocument(logger, name)
		if ed := gn.SelectAttr("edgedefault"); ed != "directed" {
			l.Warn("graph edges are not directed, reading them as directed", "edgedefault", ed)
		}
		doc, err := readGraph(gn, name, keys, l)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func readElements(parent *xmlquery.Node, sel *xpath.Expr, keys map[string]key, kind string) []*element {
	var out []*element
	seen := make(map[string]bool)
	for _, n := range xmlquery.QuerySelectorAll(parent, sel) {
		e := &element{id: n.SelectAttr("id"), source: n.SelectAttr("source"), target: n.SelectAttr("target")}
		if e.id == "" || seen[e.id] {
			continue
		}
		seen[e.id] = true
		for _, dn := range xmlquery.QuerySelectorAll(n, dataSelector) {
			k, ok := keys[dn.SelectAttr("key")]
			if !ok || (k.kind != "" && k.kind != "all" && k.kind != kind) {
				continue
			}
			if k.qname == keyType {
				e.typ = strings.TrimSpace(dn.InnerText())
				continue
			}
			e.data = append(e.data, data{qname: k.qname, value: dn.InnerText()})
		}
		out = append(out, e)
	}
	return out
}

func readGraph(gn *xmlquery.Node, name string, keys map[string]key, l *slog.Logger) (*graph.Document, error) {
	nodes := readElements(gn, nodeSelector, keys, "node")
	edges := readElements(gn, edgeSelector, keys, "edge")

	textID := ""
	text := ""
	for _, n := range nodes {
		if n.typ != typeText {
			continue
		}
		if textID != "" {
			l.Warn("additional textual data source ignored", "node", n.id)
			continue
		}
		textID = n.id
		text, _ = n.value(keyData)
	}

	type offsets struct{ start, end int }
	tokenOffsets := make(map[string]offsets)
	for _, e := range edges {
		if e.typ != typeTextual || e.target != textID {
			continue
		}
		start, err1 := intValue(e, keyStart)
		end, err2 := intValue(e, keyEnd)
		if err1 != nil || err2 != nil {
			return nil, errors.NewParse("GraphML", "", "graph "+name+": textual relation "+e.id+" has invalid offsets")
		}
		tokenOffsets[e.source] = offsets{start, end}
	}

	doc := graph.NewDocument(name, text)
	g := doc.Graph
	byID := make(map[string]graph.Node)
	for _, n := range nodes {
		var node graph.Node
		switch n.typ {
		case typeText:
			continue
		case typeToken:
			off, ok := tokenOffsets[n.id]
			if !ok {
				l.Warn("token without textual relation skipped", "node", n.id)
				continue
			}
			t, err := g.CreateToken(off.start, off.end)
			if err != nil {
				return nil, errors.Wrapf(err, "graph %s: token %s", name, n.id)
			}
			node = t
		case typeSpan:
			s, err := g.CreateSpan()
			if err != nil {
				return nil, err
			}
			node = s
		case typeStructure:
			node = g.NewStructure()
		default:
			l.Warn("node of unsupported type skipped", "node", n.id, "type", n.typ)
			continue
		}
		applyData(g, node, n.data)
		byID[n.id] = node
	}

	for _, e := range edges {
		var kind graph.RelationKind
		switch e.typ {
		case typeTextual:
			continue
		case typeSpanning:
			kind = graph.Spanning
		case typeDominance:
			kind = graph.Dominance
		case typePointing:
			kind = graph.Pointing
		case typeOrder:
			kind = graph.Order
		default:
			l.Warn("edge of unsupported type skipped", "edge", e.id, "type", e.typ)
			continue
		}
		src, tgt := byID[e.source], byID[e.target]
		if src == nil || tgt == nil {
			l.Warn("edge with unknown endpoint skipped", "edge", e.id)
			continue
		}
		r, err := g.CreateRelation(kind, src, tgt)
		if err != nil {
			return nil, errors.Wrapf(err, "graph %s: edge %s", name, e.id)
		}
		if t, ok := e.value(keySType); ok {
			r.Type = t
		}
		for _, d := range e.data {
			if isFeature(d.qname) {
				continue
			}
			r.Annotate(d.qname, d.value)
		}
		for _, layer := range layerNames(e) {
			g.CreateLayer(layer).AddRelation(r)
		}
	}
	return doc, nil
}

func applyData(g *graph.Graph, n graph.Node, ds []data) {
	for _, d := range ds {
		if d.qname == keyLayer {
			for _, layer := range splitLayers(d.value) {
				g.CreateLayer(layer).AddNode(n)
			}
			continue
		}
		if isFeature(d.qname) {
			continue
		}
		n.Annotate(d.qname, d.value)
	}
}

func isFeature(qname string) bool {
	ns, _ := graph.SplitQName(qname)
	return ns == saltNamespace
}

func layerNames(e *element) []string {
	v, ok := e.value(keyLayer)
	if !ok {
		return nil
	}
	return splitLayers(v)
}

func splitLayers(v string) []string {
	var out []string
	for _, name := range strings.Split(v, layerSeparator) {
		if name = strings.TrimSpace(name); name != "" {
			out = append(out, name)
		}
	}
	return out
}

func intValue(e *element, qname string) (int, error) {
	v, ok := e.value(qname)
	if !ok {
		return 0, errors.NewNotFound("data", qname)
	}
	return strconv.Atoi(strings.TrimSpace(v))
}
