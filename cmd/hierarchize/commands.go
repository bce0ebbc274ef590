package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/FocuswithJustin/hierarchizer/core/graph"
	"github.com/FocuswithJustin/hierarchizer/core/hierarchy"
	"github.com/FocuswithJustin/hierarchizer/core/orderrel"
	"github.com/FocuswithJustin/hierarchizer/core/spansplit"
	"github.com/FocuswithJustin/hierarchizer/core/store"
	"github.com/FocuswithJustin/hierarchizer/internal/corpus"
	"github.com/FocuswithJustin/hierarchizer/internal/logging"
	"github.com/FocuswithJustin/hierarchizer/internal/pipeline"
)

// RunCmd hierarchizes every document of the inputs.
type RunCmd struct {
	Inputs []string `arg:"" help:"GraphML files, directories or tar archives"`
	PropertyFlags
	OutputFlags
	OrderFlags
	Workers        int    `help:"Documents processed concurrently (0 = one per CPU)" default:"0"`
	SplitSpans     bool   `name:"split-spans" help:"Split multi-annotation spans before building"`
	OrderRelations bool   `name:"order-relations" help:"Add order relations after building the hierarchy"`
	Store          string `help:"SQLite database recording the run" type:"path"`
}

func (c *RunCmd) Run(ctx context.Context, g *Globals) error {
	logger := g.logger()
	if err := c.OutputFlags.validate(); err != nil {
		return err
	}
	p, bag, err := c.PropertyFlags.properties()
	if err != nil {
		return err
	}
	var order *orderrel.Properties
	if c.OrderRelations {
		if order, err = c.OrderFlags.properties(); err != nil {
			return err
		}
	}
	entries, err := corpus.Load(c.Inputs, logger)
	if err != nil {
		return err
	}

	var st *store.Store
	var run *store.Run
	if c.Store != "" {
		if st, err = store.Open(c.Store); err != nil {
			return err
		}
		defer st.Close()
		if run, err = st.StartRun(ctx, bag); err != nil {
			return err
		}
		ctx = logging.WithRunID(ctx, run.ID)
	}

	results, runErr := pipeline.Run(ctx, corpus.Documents(entries), pipeline.Config{
		Properties: p,
		Workers:    c.Workers,
		SplitSpans: c.SplitSpans,
		Order:      order,
		Logger:     logger,
	})
	if results == nil {
		return runErr
	}

	outputs, writeErr := c.OutputFlags.write(entries)
	failed := pipeline.Failed(results)

	if st != nil {
		if err := record(ctx, st, run.ID, entries, results, outputs); err != nil {
			return err
		}
		if err := st.FinishRun(ctx, run.ID, failed > 0 || runErr != nil || writeErr != nil); err != nil {
			return err
		}
	}

	printResults(entries, results)
	switch {
	case runErr != nil:
		return runErr
	case writeErr != nil:
		return writeErr
	case failed > 0:
		return fmt.Errorf("%d of %d documents failed", failed, len(results))
	}
	return nil
}

// documentKey names a document uniquely within a run.
func documentKey(e *corpus.Entry, d *graph.Document) string {
	name := ""
	if d != nil {
		name = d.Name
	}
	return e.Path + "#" + name
}

// record stores one row per result. Results are in corpus.Documents order.
func record(ctx context.Context, st *store.Store, runID string, entries []*corpus.Entry, results []pipeline.Result, outputs map[string]string) error {
	i := 0
	for _, e := range entries {
		for _, d := range e.Documents {
			r := results[i]
			i++
			row := store.Document{
				RunID:  runID,
				Name:   documentKey(e, d),
				SHA256: r.Digest.SHA256,
				BLAKE3: r.Digest.BLAKE3,
				Output: outputs[e.Path],
			}
			if r.Report != nil {
				row.Structures = r.Report.Structures()
				row.Skipped = r.Report.Skipped()
				row.DeletedSpans = r.Report.DeletedSpans
				row.RemovedStructures = r.Report.RemovedStructures
				row.PointerEdges = r.Report.PointerEdges
			}
			if r.Err != nil {
				row.Error = r.Err.Error()
			}
			if err := st.RecordDocument(ctx, row); err != nil {
				return err
			}
		}
	}
	return nil
}

func printResults(entries []*corpus.Entry, results []pipeline.Result) {
	i := 0
	for _, e := range entries {
		for _, d := range e.Documents {
			r := results[i]
			i++
			if r.Err != nil {
				fmt.Fprintf(stdout, "%-40s FAILED %v\n", documentKey(e, d), r.Err)
				continue
			}
			order := ""
			if r.Order != nil {
				order = fmt.Sprintf(" order=%d", r.Order.Total())
			}
			fmt.Fprintf(stdout, "%-40s structures=%d skipped=%d deleted=%d removed=%d pointers=%d%s blake3=%s\n",
				documentKey(e, d), r.Report.Structures(), r.Report.Skipped(), r.Report.DeletedSpans,
				r.Report.RemovedStructures, r.Report.PointerEdges, order, short(r.Digest.BLAKE3))
		}
	}
}

func short(digest string) string {
	if len(digest) > 16 {
		return digest[:16]
	}
	return digest
}

// SplitCmd runs only the span splitter.
type SplitCmd struct {
	Inputs []string `arg:"" help:"GraphML files, directories or tar archives"`
	OutputFlags
}

func (c *SplitCmd) Run(g *Globals) error {
	logger := g.logger()
	if err := c.OutputFlags.validate(); err != nil {
		return err
	}
	entries, err := corpus.Load(c.Inputs, logger)
	if err != nil {
		return err
	}
	var total spansplit.Result
	for _, e := range entries {
		for _, d := range e.Documents {
			res, err := spansplit.Split(d.Graph)
			if err != nil {
				return fmt.Errorf("split %s: %w", documentKey(e, d), err)
			}
			total.Spans += res.Spans
			total.Tokens += res.Tokens
			total.Created += res.Created
			fmt.Fprintf(stdout, "%-40s spans=%d tokens=%d created=%d\n", documentKey(e, d), res.Spans, res.Tokens, res.Created)
		}
	}
	fmt.Fprintf(stdout, "total: spans=%d tokens=%d created=%d\n", total.Spans, total.Tokens, total.Created)
	_, err = c.OutputFlags.write(entries)
	return err
}

// OrderCmd adds order relations only.
type OrderCmd struct {
	Inputs []string `arg:"" help:"GraphML files, directories or tar archives"`
	OrderFlags
	OutputFlags
}

func (c *OrderCmd) Run(g *Globals) error {
	logger := g.logger()
	if err := c.OutputFlags.validate(); err != nil {
		return err
	}
	p, err := c.OrderFlags.properties()
	if err != nil {
		return err
	}
	entries, err := corpus.Load(c.Inputs, logger)
	if err != nil {
		return err
	}
	total := 0
	for _, e := range entries {
		for _, d := range e.Documents {
			res, err := orderrel.Add(d.Graph, p, logging.ForDocument(logger, d.Name))
			if err != nil {
				return fmt.Errorf("order relations %s: %w", documentKey(e, d), err)
			}
			total += res.Total()
			fmt.Fprintf(stdout, "%-40s tokens=%d%s\n", documentKey(e, d), res.Tokens, segmentCounts(p, res))
		}
	}
	fmt.Fprintf(stdout, "total: order=%d\n", total)
	_, err = c.OutputFlags.write(entries)
	return err
}

// segmentCounts renders the per-segmentation counts in configured order.
func segmentCounts(p *orderrel.Properties, res orderrel.Result) string {
	var b strings.Builder
	for _, seg := range p.Segmentations {
		fmt.Fprintf(&b, " %s=%d", seg, res.Segmentations[seg])
	}
	return b.String()
}

// FingerprintCmd prints the fingerprints of every document.
type FingerprintCmd struct {
	Inputs []string `arg:"" help:"GraphML files, directories or tar archives"`
}

func (c *FingerprintCmd) Run(g *Globals) error {
	entries, err := corpus.Load(c.Inputs, g.logger())
	if err != nil {
		return err
	}
	for _, e := range entries {
		for _, d := range e.Documents {
			digest := d.Graph.Fingerprint()
			fmt.Fprintf(stdout, "%s  %s  %s\n", digest.BLAKE3, digest.SHA256, documentKey(e, d))
		}
	}
	return nil
}

// PropsCmd lists the supported properties.
type PropsCmd struct {
	PropertyFlags
}

func (c *PropsCmd) Run(g *Globals) error {
	g.logger()
	bag, err := c.PropertyFlags.bag()
	if err != nil {
		return err
	}
	for _, info := range hierarchy.Describe() {
		value, set := bag.Lookup(info.Key)
		if !set {
			value = info.Default
		}
		marker := " "
		switch {
		case set:
			marker = "*"
		case info.Required:
			marker = "!"
		}
		fmt.Fprintf(stdout, "%s %-26s = %-12q %s\n", marker, info.Key, value, info.Help)
	}
	if len(bag) > 0 {
		if _, err := hierarchy.ParseProperties(bag); err != nil {
			return err
		}
	}
	return nil
}

// RunsCmd lists recorded runs, or the documents of one run.
type RunsCmd struct {
	Store string `required:"" help:"SQLite database written by run --store" type:"existingfile"`
	ID    string `arg:"" optional:"" help:"Run ID whose documents to list"`
}

func (c *RunsCmd) Run(ctx context.Context, g *Globals) error {
	g.logger()
	st, err := store.Open(c.Store)
	if err != nil {
		return err
	}
	defer st.Close()

	if c.ID == "" {
		runs, err := st.Runs(ctx)
		if err != nil {
			return err
		}
		for _, r := range runs {
			fmt.Fprintf(stdout, "%s  %-9s %s  %s\n", r.ID, r.Status, r.StartedAt, r.Properties[hierarchy.KeyHierarchyNames])
		}
		return nil
	}

	if _, err := st.Run(ctx, c.ID); err != nil {
		return err
	}
	docs, err := st.Documents(ctx, c.ID)
	if err != nil {
		return err
	}
	for _, d := range docs {
		status := "ok"
		if d.Error != "" {
			status = "FAILED " + strings.SplitN(d.Error, "\n", 2)[0]
		}
		fmt.Fprintf(stdout, "%-40s structures=%d blake3=%s %s\n", d.Name, d.Structures, short(d.BLAKE3), status)
	}
	return nil
}

// VersionCmd prints version information.
type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	fmt.Fprintf(stdout, "hierarchize version %s\n", version)
	return nil
}
