// Package pipeline hierarchizes many documents concurrently.
//
// Each document is processed by exactly one worker, which owns its graph for
// the duration of the run. A failing document does not affect the others.
package pipeline

import (
	"context"
	"log/slog"
	"runtime"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/FocuswithJustin/hierarchizer/core/errors"
	"github.com/FocuswithJustin/hierarchizer/core/graph"
	"github.com/FocuswithJustin/hierarchizer/core/hierarchy"
	"github.com/FocuswithJustin/hierarchizer/core/orderrel"
	"github.com/FocuswithJustin/hierarchizer/core/spansplit"
	"github.com/FocuswithJustin/hierarchizer/internal/logging"
)

// Config controls a pipeline run.
type Config struct {
	Properties *hierarchy.Properties
	// Workers bounds concurrent documents; zero or less uses one per CPU.
	Workers int
	// SplitSpans runs the span splitter on each document first.
	SplitSpans bool
	// Order, when set, adds order relations after the hierarchy is built.
	Order  *orderrel.Properties
	Logger *slog.Logger
}

// Result is the outcome for one document.
type Result struct {
	Document *graph.Document
	Report   *hierarchy.Report
	Split    *spansplit.Result
	Order    *orderrel.Result
	// Digest fingerprints the graph after processing. It is zero when the
	// document failed.
	Digest   graph.Digest
	Duration time.Duration
	Err      error
}

// Failed returns the number of results carrying an error.
func Failed(results []Result) int {
	n := 0
	for _, r := range results {
		if r.Err != nil {
			n++
		}
	}
	return n
}

func (c Config) workers() int {
	if c.Workers > 0 {
		return c.Workers
	}
	return runtime.NumCPU()
}

// Run processes docs and returns one result per document in input order.
//
// The run id is taken from ctx, or generated when absent. A nil cfg.Logger
// logs through the package default logger. Once ctx is cancelled no further
// document is started; results of unstarted documents carry the context
// error, which Run also returns.
func Run(ctx context.Context, docs []*graph.Document, cfg Config) ([]Result, error) {
	if cfg.Properties == nil {
		return nil, errors.NewValidation("properties", "properties are required")
	}
	if err := cfg.Properties.Validate(); err != nil {
		return nil, err
	}

	runID := logging.GetRunID(ctx)
	if runID == "" {
		runID = uuid.New().String()
		ctx = logging.WithRunID(ctx, runID)
	}
	logger := logging.LoggerFromContext(ctx)
	if cfg.Logger != nil {
		logger = cfg.Logger.With("run_id", runID)
	}

	results := make([]Result, len(docs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.workers())

	for i, doc := range docs {
		results[i].Document = doc
		if err := gctx.Err(); err != nil {
			results[i].Err = err
			continue
		}
		g.Go(func() error {
			results[i] = process(doc, cfg, logger)
			return nil
		})
	}
	_ = g.Wait()

	logger.Info("pipeline finished", "documents", len(docs), "failed", Failed(results))
	return results, ctx.Err()
}

// splitSpans is replaced in tests.
var splitSpans = spansplit.Split

func process(doc *graph.Document, cfg Config, logger *slog.Logger) Result {
	res := Result{Document: doc}
	name := ""
	if doc != nil {
		name = doc.Name
	}
	l := logging.ForDocument(logger, name)
	start := time.Now()

	if cfg.SplitSpans && doc != nil && doc.Graph != nil {
		split, err := splitSpans(doc.Graph)
		if err != nil {
			res.Duration = time.Since(start)
			res.Err = errors.Wrapf(err, "split spans of %s", name)
			logging.DocumentFailed(l, res.Err)
			return res
		}
		res.Split = &split
	}

	report, err := hierarchy.Run(doc, cfg.Properties, hierarchy.Options{Logger: logger})
	if err != nil {
		res.Duration = time.Since(start)
		res.Err = err
		logging.DocumentFailed(l, err)
		return res
	}
	res.Report = report

	orderRelations := 0
	if cfg.Order != nil {
		order, err := orderrel.Add(doc.Graph, cfg.Order, l)
		if err != nil {
			res.Duration = time.Since(start)
			res.Err = errors.Wrapf(err, "order relations of %s", name)
			logging.DocumentFailed(l, res.Err)
			return res
		}
		res.Order = &order
		orderRelations = order.Total()
	}

	res.Duration = time.Since(start)
	res.Digest = doc.Graph.Fingerprint()
	logging.DocumentDone(l, res.Duration,
		"structures", report.Structures(),
		"skipped", report.Skipped(),
		"deleted_spans", report.DeletedSpans,
		"removed_structures", report.RemovedStructures,
		"pointer_edges", report.PointerEdges,
		"order_relations", orderRelations,
	)
	return res
}
