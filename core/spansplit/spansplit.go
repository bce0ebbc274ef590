// Package spansplit rewrites multi-annotation spans and tokens into spans
// carrying one annotation each.
//
// The hierarchy builder deletes a consumed span only when it carries a
// single annotation. Splitting first lets every level consume, and delete,
// its own span.
//
// Split removes the multi-annotation span instead of keeping it next to its
// single-annotation copies, so that no level sees the same tokens twice.
package spansplit

import (
	"github.com/FocuswithJustin/hierarchizer/core/graph"
)

// Result counts the changes made by Split.
type Result struct {
	// Spans is the number of multi-annotation spans replaced.
	Spans int `json:"spans"`
	// Tokens is the number of multi-annotation tokens split.
	Tokens int `json:"tokens"`
	// Created is the number of single-annotation spans created.
	Created int `json:"created"`
}

// Split replaces every span with more than one annotation by one span per
// annotation over the same tokens, and creates one span per annotation for
// every token with more than one annotation. Token annotations stay in
// place. Nodes created by Split are not revisited.
func Split(g *graph.Graph) (Result, error) {
	var res Result
	spans := g.Spans()
	tokens := g.Tokens()

	for _, s := range spans {
		annos := s.Annotations()
		if len(annos) < 2 {
			continue
		}
		covered := g.OverlappedTokens(s)
		for _, a := range annos {
			if err := single(g, a, covered...); err != nil {
				return res, err
			}
			res.Created++
		}
		if err := g.RemoveNode(s); err != nil {
			return res, err
		}
		res.Spans++
	}

	for _, t := range tokens {
		annos := t.Annotations()
		if len(annos) < 2 {
			continue
		}
		for _, a := range annos {
			if err := single(g, a, t); err != nil {
				return res, err
			}
			res.Created++
		}
		res.Tokens++
	}
	return res, nil
}

func single(g *graph.Graph, a *graph.Annotation, tokens ...*graph.Token) error {
	s, err := g.CreateSpan(tokens...)
	if err != nil {
		return err
	}
	s.Annotate(a.QName(), a.Value)
	return nil
}
