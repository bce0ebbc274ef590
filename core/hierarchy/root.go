package hierarchy

import (
	"github.com/FocuswithJustin/hierarchizer/core/graph"
)

// buildRoot joins all structure trees of the document under one root
// structure annotated with the configured root value.
func (b *builder) buildRoot() error {
	roots := b.g.StructureRoots()
	if len(roots) == 0 {
		b.logger.Info("no structure roots, document root not created")
		return nil
	}
	children := make([]graph.Child, len(roots))
	for i, r := range roots {
		children[i] = graph.StructureChild(r)
	}
	root, rels, err := b.g.CreateStructure(children...)
	if err != nil {
		return err
	}
	root.Annotate(b.props.StructAnnoName, b.props.RootValue)
	for _, r := range rels {
		r.Type = b.props.EdgeType
	}
	if b.layer != nil {
		b.layer.AddNode(root)
		for _, r := range rels {
			b.layer.AddRelation(r)
		}
	}
	b.report.Root = root.ID()
	return nil
}
