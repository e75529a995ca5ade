package regex

import (
	"slices"
)

// Parse compiles a pattern into an expression tree. Malformed patterns yield
// a *ParseError and no tree.
func Parse(pattern string) (Regex, error) {
	return parse(pattern, nil)
}

func parse(pattern string, log *Logger) (Regex, error) {
	tokens, err := Tokenize(pattern)
	if err != nil {
		return nil, err
	}
	log.Log("tokens: %s", formatTokens(tokens))

	if err := validate(pattern, tokens); err != nil {
		return nil, err
	}
	prefix := toPrefix(tokens)
	log.Log("prefix: %s", formatTokens(prefix))

	b := &builder{pattern: pattern, tokens: prefix}
	tree, err := b.build()
	if err != nil {
		return nil, err
	}
	if b.pos != len(prefix) {
		return nil, parseErrorf(pattern, prefix[b.pos].Pos, "dangling %s", prefix[b.pos])
	}
	return tree, nil
}

// validate checks the infix token sequence before reordering it: every
// operator has its operands, groups are non-empty and parentheses balance.
func validate(pattern string, tokens []Token) error {
	if len(tokens) == 0 {
		return parseErrorf(pattern, 0, "empty pattern")
	}
	var open []int // offsets of unmatched '('
	expectOperand := true
	for i, t := range tokens {
		switch t.Kind {
		case SymbolToken:
			expectOperand = false
		case LeftParen:
			open = append(open, t.Pos)
			expectOperand = true
		case RightParen:
			if len(open) == 0 {
				return parseErrorf(pattern, t.Pos, "unbalanced ')'")
			}
			if expectOperand {
				if i > 0 && tokens[i-1].Kind == LeftParen {
					return parseErrorf(pattern, t.Pos, "empty group")
				}
				return parseErrorf(pattern, t.Pos, "missing operand before ')'")
			}
			open = open[:len(open)-1]
		case OperatorToken:
			if expectOperand {
				return parseErrorf(pattern, t.Pos, "missing operand for '%c'", t.Op)
			}
			expectOperand = !t.Op.postfix()
		}
	}
	if len(open) > 0 {
		return parseErrorf(pattern, open[len(open)-1], "unbalanced '('")
	}
	if expectOperand {
		return parseErrorf(pattern, len(pattern), "missing operand at end of pattern")
	}
	return nil
}

// toPrefix reorders a validated infix sequence into prefix form with the
// shunting-yard algorithm run over the reversed input. Read backwards, ')'
// opens a group and postfix operators precede their operand.
func toPrefix(tokens []Token) []Token {
	out := make([]Token, 0, len(tokens))
	var stack []Token
	pop := func() Token {
		t := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		return t
	}

	for i := len(tokens) - 1; i >= 0; i-- {
		t := tokens[i]
		switch {
		case t.Kind == SymbolToken:
			out = append(out, t)
		case t.Kind == RightParen:
			stack = append(stack, t)
		case t.Kind == LeftParen:
			for stack[len(stack)-1].Kind != RightParen {
				out = append(out, pop())
			}
			pop()
		case t.Op.postfix():
			stack = append(stack, t)
		default:
			// Strict comparison keeps binary operators left-associative
			// once the output is reversed.
			for len(stack) > 0 {
				top := stack[len(stack)-1]
				if top.Kind != OperatorToken || top.Op.precedence() <= t.Op.precedence() {
					break
				}
				out = append(out, pop())
			}
			stack = append(stack, t)
		}
	}
	for len(stack) > 0 {
		out = append(out, pop())
	}
	slices.Reverse(out)
	return out
}

// builder consumes a prefix sequence left to right.
type builder struct {
	pattern string
	tokens  []Token
	pos     int
}

func (b *builder) build() (Regex, error) {
	if b.pos >= len(b.tokens) {
		return nil, parseErrorf(b.pattern, len(b.pattern), "operator is missing an operand")
	}
	t := b.tokens[b.pos]
	b.pos++

	switch t.Kind {
	case SymbolToken:
		return Literal{Symbol: t.Symbol}, nil
	case OperatorToken:
		if t.Op.postfix() {
			inner, err := b.build()
			if err != nil {
				return nil, err
			}
			switch t.Op {
			case OpStar:
				return KleeneStar{Inner: inner}, nil
			case OpPlus:
				return OneOrMore{Inner: inner}, nil
			default:
				return Optional{Inner: inner}, nil
			}
		}
		left, err := b.build()
		if err != nil {
			return nil, err
		}
		right, err := b.build()
		if err != nil {
			return nil, err
		}
		switch t.Op {
		case OpConcat:
			return Concatenation{Left: left, Right: right}, nil
		case OpUnion:
			return Union{Left: left, Right: right}, nil
		}
	}
	return nil, parseErrorf(b.pattern, t.Pos, "unexpected %s in prefix form", t)
}
