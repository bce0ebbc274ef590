package hierarchy

import (
	"log/slog"

	"github.com/FocuswithJustin/hierarchizer/core/errors"
	"github.com/FocuswithJustin/hierarchizer/core/graph"
	"github.com/FocuswithJustin/hierarchizer/internal/logging"
)

// Options carries run-time collaborators.
type Options struct {
	// Logger receives diagnostics. Nil uses the package default logger.
	Logger *slog.Logger
}

// LevelReport summarizes the work done for one hierarchy level.
type LevelReport struct {
	Name     string `json:"name"`
	EdgeOnly bool   `json:"edge_only,omitempty"`
	// Spans is the number of spans collected for the level.
	Spans int `json:"spans"`
	// Skipped counts spans covering no tokens.
	Skipped    int `json:"skipped,omitempty"`
	Structures int `json:"structures"`
	// EdgeLabels counts deferred edge annotations recorded by an edge-only
	// level; LabeledEdges counts the ones applied at this level.
	EdgeLabels   int `json:"edge_labels,omitempty"`
	LabeledEdges int `json:"labeled_edges,omitempty"`
}

// Report summarizes a run over one document.
type Report struct {
	Document string `json:"document"`
	// Levels are in configuration order, most general first.
	Levels            []LevelReport `json:"levels"`
	DeletedSpans      int           `json:"deleted_spans"`
	RemovedStructures int           `json:"removed_structures"`
	PointerEdges      int           `json:"pointer_edges"`
	// Root is the ID of the common root structure, if one was built.
	Root string `json:"root,omitempty"`
}

// Structures returns the number of structures built for all levels,
// excluding the common root.
func (r *Report) Structures() int {
	n := 0
	for _, l := range r.Levels {
		n += l.Structures
	}
	return n
}

// Skipped returns the number of skipped spans over all levels.
func (r *Report) Skipped() int {
	n := 0
	for _, l := range r.Levels {
		n += l.Skipped
	}
	return n
}

// Run builds the configured hierarchy in doc's graph.
//
// A nil document or graph, invalid properties and a span whose level value
// cannot be determined abort the run with an error. Spans covering no
// tokens are skipped with a warning. On error the graph may be partially
// modified.
func Run(doc *graph.Document, p *Properties, opts Options) (*Report, error) {
	if doc == nil {
		return nil, errors.NewDocument("", "document is nil")
	}
	if doc.Graph == nil {
		return nil, errors.NewDocument(doc.Name, "document graph is nil")
	}
	if p == nil {
		return nil, errors.NewValidation("properties", "properties are required")
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	b := newBuilder(doc, p, logging.ForDocument(opts.Logger, doc.Name))
	if err := b.buildLevels(); err != nil {
		return nil, err
	}
	if err := b.cleanup(); err != nil {
		return nil, err
	}
	if p.CommonRoot {
		if err := b.buildRoot(); err != nil {
			return nil, err
		}
	}
	if p.Pointers {
		if err := b.resolvePointers(); err != nil {
			return nil, err
		}
	}
	return b.report, nil
}
