package regex

import (
	"strings"

	"regexdfa/internal/automaton"
)

// Regex is an immutable expression tree. The set of variants is closed:
// Literal, Concatenation, Union, KleeneStar, Optional and OneOrMore.
type Regex interface {
	// String renders the expression back into pattern syntax.
	String() string
	// ToNFA runs Thompson construction from a fresh allocator.
	ToNFA() *automaton.NFA

	regex()
}

type Literal struct {
	Symbol automaton.Symbol
}

type Concatenation struct {
	Left, Right Regex
}

type Union struct {
	Left, Right Regex
}

type KleeneStar struct {
	Inner Regex
}

// Optional matches Inner zero or one time.
type Optional struct {
	Inner Regex
}

type OneOrMore struct {
	Inner Regex
}

func (Literal) regex()       {}
func (Concatenation) regex() {}
func (Union) regex()         {}
func (KleeneStar) regex()    {}
func (Optional) regex()      {}
func (OneOrMore) regex()     {}

func (r Literal) ToNFA() *automaton.NFA       { return Thompson(r, new(Allocator)) }
func (r Concatenation) ToNFA() *automaton.NFA { return Thompson(r, new(Allocator)) }
func (r Union) ToNFA() *automaton.NFA         { return Thompson(r, new(Allocator)) }
func (r KleeneStar) ToNFA() *automaton.NFA    { return Thompson(r, new(Allocator)) }
func (r Optional) ToNFA() *automaton.NFA      { return Thompson(r, new(Allocator)) }
func (r OneOrMore) ToNFA() *automaton.NFA     { return Thompson(r, new(Allocator)) }

func (r Literal) String() string { return quoteSymbol(r.Symbol) }

func (r Concatenation) String() string {
	return group(r.Left, isUnion) + group(r.Right, isUnion)
}

func (r Union) String() string { return r.Left.String() + "|" + r.Right.String() }

func (r KleeneStar) String() string { return group(r.Inner, notLiteral) + "*" }

func (r Optional) String() string { return group(r.Inner, notLiteral) + "?" }

func (r OneOrMore) String() string { return group(r.Inner, notLiteral) + "+" }

func isUnion(r Regex) bool {
	_, ok := r.(Union)
	return ok
}

func notLiteral(r Regex) bool {
	_, ok := r.(Literal)
	return !ok
}

func group(r Regex, needParens func(Regex) bool) string {
	if needParens(r) {
		return "(" + r.String() + ")"
	}
	return r.String()
}

const metaChars = `|*+?()[]\ `

func quoteSymbol(s automaton.Symbol) string {
	if s == automaton.Epsilon {
		return "ε"
	}
	if strings.ContainsRune(metaChars, rune(s)) {
		return `\` + string(rune(s))
	}
	return string(rune(s))
}
