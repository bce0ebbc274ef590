package graph

import "testing"

func TestTokenize(t *testing.T) {
	tests := []struct {
		text string
		want []string
	}{
		{"", nil},
		{"   ", nil},
		{"Hello", []string{"Hello"}},
		{"Hello, world!", []string{"Hello", ",", "world", "!"}},
		{"  don't  stop...", []string{"don't", "stop", "..."}},
		{"über\tcafé\n", []string{"über", "café"}},
	}
	for _, tt := range tests {
		g := New(tt.text)
		toks := g.Tokenize()
		var got []string
		for _, tok := range toks {
			got = append(got, g.TokenText(tok))
		}
		if !equalStrings(got, tt.want) {
			t.Errorf("Tokenize(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}

func TestTokenizeOffsets(t *testing.T) {
	g := New("ab cd")
	toks := g.Tokenize()
	if len(toks) != 2 {
		t.Fatalf("len(tokens) = %d, want 2", len(toks))
	}
	if toks[1].Start != 3 || toks[1].End != 5 {
		t.Errorf("second token = [%d,%d), want [3,5)", toks[1].Start, toks[1].End)
	}
}
