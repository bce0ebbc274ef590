package graph

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/zeebo/blake3"
)

// Digest holds the fingerprints of a graph's canonical form.
type Digest struct {
	SHA256 string `json:"sha256"`
	BLAKE3 string `json:"blake3"`
}

// Canonical returns a deterministic text dump of the graph: the text, every
// node with its annotations, every relation with type and annotations, and
// every non-empty layer with its members. Nodes and relations are named by their
// enumeration position rather than their ID, and layers are listed by name
// with members in enumeration order, so a graph and its decoded copy
// produce the same dump.
func (g *Graph) Canonical() []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "text %s\n", strconv.Quote(g.text))

	nodes, rels := g.Nodes(), g.Relations()
	ord := make(map[string]string, len(nodes)+len(rels))
	for i, n := range nodes {
		ord[n.ID()] = "n" + strconv.Itoa(i)
		switch v := n.(type) {
		case *Token:
			fmt.Fprintf(&b, "node %s %s %d %d\n", ord[n.ID()], v.Kind(), v.Start, v.End)
		default:
			fmt.Fprintf(&b, "node %s %s\n", ord[n.ID()], n.Kind())
		}
		writeAnnotations(&b, n.Annotations())
	}
	for i, r := range rels {
		ord[r.id] = "r" + strconv.Itoa(i)
		fmt.Fprintf(&b, "rel %s %s %s %s->%s\n", ord[r.id], r.Kind, strconv.Quote(r.Type), ord[r.Source.ID()], ord[r.Target.ID()])
		writeAnnotations(&b, r.Annotations())
	}
	layers := slices.Clone(g.layers)
	slices.SortFunc(layers, func(a, b *Layer) int { return strings.Compare(a.Name, b.Name) })
	for _, l := range layers {
		if len(l.nodes) == 0 && len(l.relations) == 0 {
			continue
		}
		fmt.Fprintf(&b, "layer %s\n", strconv.Quote(l.Name))
		for _, n := range nodes {
			if l.ContainsNode(n) {
				fmt.Fprintf(&b, "  member %s\n", ord[n.ID()])
			}
		}
		for _, r := range rels {
			if l.ContainsRelation(r) {
				fmt.Fprintf(&b, "  member %s\n", ord[r.id])
			}
		}
	}
	return []byte(b.String())
}

func writeAnnotations(b *strings.Builder, annos []*Annotation) {
	for _, a := range annos {
		fmt.Fprintf(b, "  anno %s=%s\n", strconv.Quote(a.QName()), strconv.Quote(a.Value))
	}
}

// Fingerprint hashes the canonical dump with SHA-256 and BLAKE3.
func (g *Graph) Fingerprint() Digest {
	data := g.Canonical()
	sha := sha256.Sum256(data)
	b3 := blake3.Sum256(data)
	return Digest{
		SHA256: hex.EncodeToString(sha[:]),
		BLAKE3: hex.EncodeToString(b3[:]),
	}
}
