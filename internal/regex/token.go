package regex

import (
	"strings"

	"github.com/alecthomas/participle/v2/lexer"

	"regexdfa/internal/automaton"
)

type TokenKind int

const (
	SymbolToken TokenKind = iota
	OperatorToken
	LeftParen
	RightParen
)

// Operator is one of the pattern operators. OpConcat never appears in user
// input; the tokenizer inserts it between adjacent atoms.
type Operator rune

const (
	OpUnion    Operator = '|'
	OpStar     Operator = '*'
	OpPlus     Operator = '+'
	OpOptional Operator = '?'
	OpConcat   Operator = '.'
)

func (o Operator) postfix() bool {
	return o == OpStar || o == OpPlus || o == OpOptional
}

func (o Operator) precedence() int {
	switch o {
	case OpStar, OpPlus, OpOptional:
		return 3
	case OpConcat:
		return 2
	case OpUnion:
		return 1
	}
	return 0
}

type Token struct {
	Kind   TokenKind
	Symbol automaton.Symbol // SymbolToken only
	Op     Operator         // OperatorToken only
	Pos    int              // byte offset of the source text
}

func (t Token) String() string {
	switch t.Kind {
	case SymbolToken:
		return quoteSymbol(t.Symbol)
	case OperatorToken:
		return string(rune(t.Op))
	case LeftParen:
		return "("
	case RightParen:
		return ")"
	}
	return "?"
}

func formatTokens(tokens []Token) string {
	parts := make([]string, len(tokens))
	for i, t := range tokens {
		parts[i] = t.String()
	}
	return strings.Join(parts, " ")
}

var patternLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Class", Pattern: `\[[^\]]*\]?`},
	{Name: "Escaped", Pattern: `\\(?s:.)?`},
	{Name: "Space", Pattern: ` `},
	{Name: "Operator", Pattern: `[|*+?]`},
	{Name: "Paren", Pattern: `[()]`},
	{Name: "Char", Pattern: `(?s:.)`},
})

var (
	classTok    = patternLexer.Symbols()["Class"]
	escapedTok  = patternLexer.Symbols()["Escaped"]
	spaceTok    = patternLexer.Symbols()["Space"]
	operatorTok = patternLexer.Symbols()["Operator"]
	parenTok    = patternLexer.Symbols()["Paren"]
	charTok     = patternLexer.Symbols()["Char"]
)

// Tokenize turns a pattern into tokens with explicit concatenation markers.
// Character classes are expanded into parenthesised alternations and bare
// spaces are dropped.
func Tokenize(pattern string) ([]Token, error) {
	lex, err := patternLexer.LexString("", pattern)
	if err != nil {
		return nil, parseErrorf(pattern, 0, "%v", err)
	}

	var raw []Token
	for {
		tok, err := lex.Next()
		if err != nil {
			return nil, parseErrorf(pattern, tok.Pos.Offset, "%v", err)
		}
		if tok.EOF() {
			break
		}
		pos := tok.Pos.Offset
		switch tok.Type {
		case classTok:
			expanded, err := expandClass(pattern, tok.Value, pos)
			if err != nil {
				return nil, err
			}
			raw = append(raw, expanded...)
		case escapedTok:
			r := []rune(tok.Value)
			if len(r) < 2 {
				return nil, parseErrorf(pattern, pos, "trailing backslash")
			}
			raw = append(raw, Token{Kind: SymbolToken, Symbol: automaton.Symbol(r[1]), Pos: pos})
		case spaceTok:
			// ignored
		case operatorTok:
			raw = append(raw, Token{Kind: OperatorToken, Op: Operator(tok.Value[0]), Pos: pos})
		case parenTok:
			kind := LeftParen
			if tok.Value == ")" {
				kind = RightParen
			}
			raw = append(raw, Token{Kind: kind, Pos: pos})
		case charTok:
			raw = append(raw, Token{Kind: SymbolToken, Symbol: automaton.Symbol([]rune(tok.Value)[0]), Pos: pos})
		default:
			return nil, parseErrorf(pattern, pos, "unexpected input %q", tok.Value)
		}
	}
	return insertConcat(raw), nil
}

// expandClass rewrites [x-y] as (x|...|y).
func expandClass(pattern, text string, pos int) ([]Token, error) {
	r := []rune(text)
	switch {
	case r[len(r)-1] != ']':
		return nil, parseErrorf(pattern, pos, "missing ']' in character class")
	case len(r) != 5 || r[2] != '-':
		return nil, parseErrorf(pattern, pos, "malformed character class %q, want [x-y]", text)
	}
	lo, hi := r[1], r[3]
	if hi < lo {
		return nil, parseErrorf(pattern, pos, "reversed range %q", text)
	}

	out := []Token{{Kind: LeftParen, Pos: pos}}
	for c := lo; c <= hi; c++ {
		out = append(out, Token{Kind: SymbolToken, Symbol: automaton.Symbol(c), Pos: pos})
		if c != hi {
			out = append(out, Token{Kind: OperatorToken, Op: OpUnion, Pos: pos})
		}
	}
	return append(out, Token{Kind: RightParen, Pos: pos}), nil
}

func endsAtom(t Token) bool {
	return t.Kind == SymbolToken || t.Kind == RightParen || (t.Kind == OperatorToken && t.Op.postfix())
}

func startsAtom(t Token) bool {
	return t.Kind == SymbolToken || t.Kind == LeftParen
}

func insertConcat(raw []Token) []Token {
	out := make([]Token, 0, 2*len(raw))
	for i, t := range raw {
		if i > 0 && endsAtom(raw[i-1]) && startsAtom(t) {
			out = append(out, Token{Kind: OperatorToken, Op: OpConcat, Pos: t.Pos})
		}
		out = append(out, t)
	}
	return out
}
