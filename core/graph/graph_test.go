package graph

import (
	"testing"

	"github.com/FocuswithJustin/hierarchizer/core/errors"
)

func ids[T Node](nodes []T) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.ID()
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestCreateTokenBounds(t *testing.T) {
	g := New("hello")
	tests := []struct {
		start, end int
		wantErr    bool
	}{
		{0, 5, false},
		{1, 3, false},
		{-1, 2, true},
		{0, 6, true},
		{3, 3, true},
		{4, 2, true},
	}
	for _, tt := range tests {
		_, err := g.CreateToken(tt.start, tt.end)
		if (err != nil) != tt.wantErr {
			t.Errorf("CreateToken(%d, %d) error = %v, wantErr %v", tt.start, tt.end, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, errors.ErrInvalidInput) {
			t.Errorf("CreateToken(%d, %d) error should wrap ErrInvalidInput", tt.start, tt.end)
		}
	}
	if got := len(g.Tokens()); got != 2 {
		t.Errorf("len(Tokens()) = %d, want 2", got)
	}
}

func TestTokenText(t *testing.T) {
	g := New("The cat")
	tok, err := g.CreateToken(4, 7)
	if err != nil {
		t.Fatalf("CreateToken failed: %v", err)
	}
	if got := g.TokenText(tok); got != "cat" {
		t.Errorf("TokenText = %q, want %q", got, "cat")
	}
}

func TestCreateSpanDeduplicates(t *testing.T) {
	g := New("a b c")
	toks := g.Tokenize()
	s, err := g.CreateSpan(toks[0], toks[0], toks[2])
	if err != nil {
		t.Fatalf("CreateSpan failed: %v", err)
	}
	got := ids(g.OverlappedTokens(s))
	want := []string{toks[0].ID(), toks[2].ID()}
	if !equalStrings(got, want) {
		t.Errorf("OverlappedTokens = %v, want %v", got, want)
	}
	for _, r := range g.OutRelations(s) {
		if r.Kind != Spanning {
			t.Errorf("relation kind = %v, want spanning", r.Kind)
		}
	}

	empty, err := g.CreateSpan()
	if err != nil {
		t.Fatalf("CreateSpan() failed: %v", err)
	}
	if got := g.OverlappedTokens(empty); len(got) != 0 {
		t.Errorf("empty span covers %d tokens, want 0", len(got))
	}
}

func TestCreateSpanForeignToken(t *testing.T) {
	g := New("a b")
	other := New("x")
	foreign := other.Tokenize()[0]
	if _, err := g.CreateSpan(foreign); !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("CreateSpan(foreign) error = %v, want ErrNotFound", err)
	}
}

func TestCreateStructure(t *testing.T) {
	g := New("a b c")
	toks := g.Tokenize()

	inner, rels, err := g.CreateStructure(TokenChild(toks[1]), TokenChild(toks[2]), TokenChild(toks[1]))
	if err != nil {
		t.Fatalf("CreateStructure failed: %v", err)
	}
	if len(rels) != 2 {
		t.Fatalf("len(rels) = %d, want 2", len(rels))
	}
	if rels[0].Target != toks[1] || rels[1].Target != toks[2] {
		t.Errorf("children out of order: %s, %s", rels[0].Target.ID(), rels[1].Target.ID())
	}

	outer, _, err := g.CreateStructure(TokenChild(toks[0]), StructureChild(inner))
	if err != nil {
		t.Fatalf("CreateStructure failed: %v", err)
	}
	got := ids(g.OverlappedTokens(outer))
	want := ids(toks)
	if !equalStrings(got, want) {
		t.Errorf("OverlappedTokens = %v, want %v", got, want)
	}

	if _, _, err := g.CreateStructure(); !errors.Is(err, errors.ErrInvalidInput) {
		t.Errorf("CreateStructure() error = %v, want ErrInvalidInput", err)
	}
	if _, _, err := g.CreateStructure(Child{}); !errors.Is(err, errors.ErrInvalidInput) {
		t.Errorf("CreateStructure(zero) error = %v, want ErrInvalidInput", err)
	}
}

func TestCreateRelationConstraints(t *testing.T) {
	g := New("a b")
	toks := g.Tokenize()
	span, _ := g.CreateSpan(toks[0])
	st, _, _ := g.CreateStructure(TokenChild(toks[0]))
	st2, _, _ := g.CreateStructure(TokenChild(toks[1]))

	tests := []struct {
		name    string
		kind    RelationKind
		src     Node
		tgt     Node
		wantErr bool
	}{
		{"spanning ok", Spanning, span, toks[1], false},
		{"spanning from structure", Spanning, st, toks[1], true},
		{"dominance ok", Dominance, st, st2, false},
		{"dominance to span", Dominance, st, span, true},
		{"dominance loop", Dominance, st, st, true},
		{"pointing ok", Pointing, st, st2, false},
		{"pointing loop", Pointing, st2, st2, true},
		{"nil target", Pointing, st, nil, true},
		{"order tokens", Order, toks[0], toks[1], false},
		{"order structures", Order, st, st2, false},
		{"order loop", Order, toks[0], toks[0], true},
		{"order mixed kinds", Order, span, toks[1], true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := g.CreateRelation(tt.kind, tt.src, tt.tgt)
			if (err != nil) != tt.wantErr {
				t.Fatalf("CreateRelation error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && r.Kind != tt.kind {
				t.Errorf("Kind = %v, want %v", r.Kind, tt.kind)
			}
		})
	}
}

func TestRemoveNode(t *testing.T) {
	g := New("a b")
	toks := g.Tokenize()
	st, rels, _ := g.CreateStructure(TokenChild(toks[0]), TokenChild(toks[1]))
	layer := g.CreateLayer("syntax")
	layer.AddNode(st)
	layer.AddRelation(rels[0])

	before := len(g.Relations())
	if err := g.RemoveNode(st); err != nil {
		t.Fatalf("RemoveNode failed: %v", err)
	}
	if g.Contains(st) {
		t.Error("structure still contained after RemoveNode")
	}
	if got := len(g.Relations()); got != before-2 {
		t.Errorf("len(Relations()) = %d, want %d", got, before-2)
	}
	if len(g.InRelations(toks[0])) != 0 {
		t.Error("token still has incoming relations")
	}
	if layer.ContainsNode(st) || layer.ContainsRelation(rels[0]) {
		t.Error("layer still holds removed members")
	}
	if got := len(g.Structures()); got != 0 {
		t.Errorf("len(Structures()) = %d, want 0", got)
	}
	if err := g.RemoveNode(st); !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("second RemoveNode error = %v, want ErrNotFound", err)
	}
}

func TestRemoveRelation(t *testing.T) {
	g := New("a")
	tok := g.Tokenize()[0]
	_, rels, _ := g.CreateStructure(TokenChild(tok))
	if err := g.RemoveRelation(rels[0]); err != nil {
		t.Fatalf("RemoveRelation failed: %v", err)
	}
	if g.Relation(rels[0].ID()) != nil {
		t.Error("relation still indexed")
	}
	if err := g.RemoveRelation(rels[0]); !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("second RemoveRelation error = %v, want ErrNotFound", err)
	}
}

func TestEnumerationOrderAfterRemoval(t *testing.T) {
	g := New("a b c d")
	toks := g.Tokenize()
	s1, _ := g.CreateSpan(toks[0])
	s2, _ := g.CreateSpan(toks[1])
	s3, _ := g.CreateSpan(toks[2])
	if err := g.RemoveNode(s2); err != nil {
		t.Fatalf("RemoveNode failed: %v", err)
	}
	s4, _ := g.CreateSpan(toks[3])
	got := ids(g.Spans())
	want := []string{s1.ID(), s3.ID(), s4.ID()}
	if !equalStrings(got, want) {
		t.Errorf("Spans() = %v, want %v", got, want)
	}
	if g.Node(s2.ID()) != nil {
		t.Errorf("Node(%q) should be nil after removal", s2.ID())
	}
}

func TestSortByText(t *testing.T) {
	g := New("one two three")
	toks := g.Tokenize()
	shuffled := []*Token{toks[2], toks[0], toks[1]}
	got := ids(SortByText(shuffled))
	if !equalStrings(got, ids(toks)) {
		t.Errorf("SortByText = %v, want %v", got, ids(toks))
	}
	if shuffled[0] != toks[2] {
		t.Error("SortByText modified its input")
	}
}

func TestStructureRoots(t *testing.T) {
	g := New("a b c")
	toks := g.Tokenize()
	s1, _, _ := g.CreateStructure(TokenChild(toks[0]))
	s2, _, _ := g.CreateStructure(TokenChild(toks[1]))
	s3, _, _ := g.CreateStructure(StructureChild(s1), TokenChild(toks[2]))
	ptr, err := g.CreateRelation(Pointing, s3, s2)
	if err != nil {
		t.Fatalf("CreateRelation failed: %v", err)
	}
	ptr.Type = "refers_to"

	got := ids(g.StructureRoots())
	want := []string{s2.ID(), s3.ID()}
	if !equalStrings(got, want) {
		t.Errorf("StructureRoots = %v, want %v", got, want)
	}
}

func TestAnnotations(t *testing.T) {
	g := New("a")
	tok := g.Tokenize()[0]
	tok.Annotate("salt::pos", "DT")
	tok.Annotate("lemma", "a")
	tok.Annotate("salt::pos", "ART")

	if got := len(tok.Annotations()); got != 2 {
		t.Fatalf("len(Annotations()) = %d, want 2", got)
	}
	a := tok.Annotation("salt::pos")
	if a == nil || a.Value != "ART" || a.Namespace != "salt" || a.Name != "pos" {
		t.Errorf("Annotation(salt::pos) = %+v, want salt::pos=ART", a)
	}
	if !tok.RemoveAnnotation("lemma") {
		t.Error("RemoveAnnotation(lemma) = false, want true")
	}
	if tok.HasAnnotation("lemma") {
		t.Error("lemma still present")
	}
	if tok.RemoveAnnotation("missing") {
		t.Error("RemoveAnnotation(missing) = true, want false")
	}
}

func TestQName(t *testing.T) {
	tests := []struct {
		ns, name, want string
	}{
		{"", "cat", "cat"},
		{"salt", "cat", "salt::cat"},
		{"a::b", "c", "a::b::c"},
	}
	for _, tt := range tests {
		got := QName(tt.ns, tt.name)
		if got != tt.want {
			t.Errorf("QName(%q, %q) = %q, want %q", tt.ns, tt.name, got, tt.want)
		}
		ns, name := SplitQName(got)
		if ns != tt.ns || name != tt.name {
			t.Errorf("SplitQName(%q) = (%q, %q), want (%q, %q)", got, ns, name, tt.ns, tt.name)
		}
	}
}

func TestChildOf(t *testing.T) {
	g := New("a")
	tok := g.Tokenize()[0]
	span, _ := g.CreateSpan(tok)
	if c, ok := ChildOf(tok); !ok || c.Token != tok {
		t.Errorf("ChildOf(token) = %+v, %v", c, ok)
	}
	if _, ok := ChildOf(span); ok {
		t.Error("ChildOf(span) should fail")
	}
	if (Child{}).ID() != "" {
		t.Error("zero Child ID should be empty")
	}
}
