package graph

// charClass groups bytes for tokenization.
type charClass int

const (
	classSpace charClass = iota
	classWord
	classPunct
)

func classify(c byte) charClass {
	switch {
	case c == ' ' || c == '\t' || c == '\n' || c == '\r':
		return classSpace
	case (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9') || c == '\'' || c >= 0x80:
		// Letters, numbers, apostrophe, and non-ASCII (for Unicode words)
		return classWord
	default:
		return classPunct
	}
}

// Tokenize splits the graph text into word and punctuation runs and creates
// one token per run. Whitespace separates tokens and is never covered.
// It returns the created tokens in text order.
func (g *Graph) Tokenize() []*Token {
	var tokens []*Token
	start := -1
	var current charClass

	finish := func(end int) {
		if start < 0 {
			return
		}
		// Offsets come from the text itself, so creation cannot fail.
		t, err := g.CreateToken(start, end)
		if err == nil {
			tokens = append(tokens, t)
		}
		start = -1
	}

	for i := 0; i < len(g.text); i++ {
		class := classify(g.text[i])
		if class == classSpace {
			finish(i)
			continue
		}
		if start >= 0 && class != current {
			finish(i)
		}
		if start < 0 {
			start = i
			current = class
		}
	}
	finish(len(g.text))
	return tokens
}
