package props

import (
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/FocuswithJustin/hierarchizer/core/errors"
)

// listGrammar is the participle grammar for comma separated lists.
// Examples: "a", "a, b", "a,,b", ""
//
//nolint:govet // participle grammar tags are not standard struct tags
type listGrammar struct {
	Items []string `parser:"( @Text | \",\" )*"`
}

var listLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Whitespace", Pattern: `\s+`},
	{Name: "Comma", Pattern: `,`},
	{Name: "Text", Pattern: `[^,\s][^,]*`},
})

var listParser = participle.MustBuild[listGrammar](
	participle.Lexer(listLexer),
	participle.Elide("Whitespace"),
)

// pairsGrammar is the participle grammar for comma separated pairs.
// Examples: "sentence:=S", "np:=NP, vp:=VP"
//
//nolint:govet // participle grammar tags are not standard struct tags
type pairsGrammar struct {
	Pairs []*pairGrammar `parser:"( @@ | \",\" )*"`
}

//nolint:govet // participle grammar tags are not standard struct tags
type pairGrammar struct {
	Key   string `parser:"@Text \":=\""`
	Value string `parser:"@Text"`
}

// A colon is part of a name unless it starts ":=".
var pairsLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Whitespace", Pattern: `\s+`},
	{Name: "Assign", Pattern: `:=`},
	{Name: "Comma", Pattern: `,`},
	{Name: "Text", Pattern: `[^,:\s](?:[^,:]|:[^=,])*`},
})

var pairsParser = participle.MustBuild[pairsGrammar](
	participle.Lexer(pairsLexer),
	participle.Elide("Whitespace"),
)

// Pair is one "key:=value" entry.
type Pair struct {
	Key   string
	Value string
}

// ParseList splits a comma separated list. Items are trimmed and empty
// items are dropped.
func ParseList(s string) ([]string, error) {
	g, err := listParser.ParseString("", s)
	if err != nil {
		return nil, &errors.ParseError{Format: "list", Message: err.Error(), Err: err}
	}
	var items []string
	for _, item := range g.Items {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items, nil
}

// ParsePairs splits comma separated "key:=value" pairs in input order.
// Keys and values are trimmed; both must be non-empty.
func ParsePairs(s string) ([]Pair, error) {
	g, err := pairsParser.ParseString("", s)
	if err != nil {
		return nil, &errors.ParseError{Format: "pairs", Message: err.Error(), Err: err}
	}
	pairs := make([]Pair, 0, len(g.Pairs))
	for _, p := range g.Pairs {
		key := strings.TrimSpace(p.Key)
		value := strings.TrimSpace(p.Value)
		if key == "" || value == "" {
			return nil, errors.NewParse("pairs", "", "empty key or value in "+strings.TrimSpace(p.Key+":="+p.Value))
		}
		pairs = append(pairs, Pair{Key: key, Value: value})
	}
	return pairs, nil
}
