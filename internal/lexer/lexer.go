// Package lexer splits input into lexemes using a set of named patterns.
// Every rule is compiled on its own and the resulting automata are relabelled
// into disjoint state ranges before being joined into one DFA.
package lexer

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"regexdfa/internal/automaton"
	"regexdfa/internal/regex"
)

// Rule names a pattern. Earlier rules win ties on equal match length.
type Rule struct {
	Name    string
	Pattern string
}

type Lexeme struct {
	Rule   string
	Text   string
	Offset int // byte offset into the input
}

type Lexer struct {
	rules []Rule
	dfa   *automaton.DFA
	// owner maps accepting DFA states to the index of the rule they accept.
	owner map[automaton.State]int
}

// New compiles the rules into a single longest-match automaton.
func New(rules []Rule) (*Lexer, error) {
	if len(rules) == 0 {
		return nil, errors.New("lexer: no rules")
	}
	seen := make(map[string]bool, len(rules))

	const start automaton.State = 0
	next := start + 1
	alphabet := automaton.NewSet[automaton.Symbol]()
	states := []automaton.State{start}
	delta := map[automaton.Key][]automaton.State{}
	var accepting []automaton.State
	ruleOf := make(map[automaton.State]int)

	for i, r := range rules {
		if r.Name == "" {
			return nil, fmt.Errorf("lexer: rule %d has no name", i)
		}
		if seen[r.Name] {
			return nil, fmt.Errorf("lexer: duplicate rule %q", r.Name)
		}
		seen[r.Name] = true

		tree, err := regex.Parse(r.Pattern)
		if err != nil {
			return nil, fmt.Errorf("lexer: rule %q: %w", r.Name, err)
		}
		// Every rule NFA numbers its states from 0; shift it past the
		// states already placed.
		offset := next
		nfa, err := tree.ToNFA().RemapStates(func(s automaton.State) automaton.State { return s + offset })
		if err != nil {
			return nil, fmt.Errorf("lexer: rule %q: %w", r.Name, err)
		}

		for _, s := range nfa.States() {
			states = append(states, s)
			if s >= next {
				next = s + 1
			}
		}
		for _, sym := range nfa.Alphabet() {
			alphabet.Add(sym)
		}
		for k, dsts := range nfa.Transitions() {
			delta[k] = dsts
		}
		for _, s := range nfa.Accepting() {
			accepting = append(accepting, s)
			ruleOf[s] = i
		}
		delta[automaton.Key{State: start, Symbol: automaton.Epsilon}] = append(
			delta[automaton.Key{State: start, Symbol: automaton.Epsilon}], nfa.Start())
	}

	combined, err := automaton.NewNFA(alphabet.Sorted(), states, start, delta, accepting)
	if err != nil {
		return nil, fmt.Errorf("lexer: %w", err)
	}
	dfa := combined.ToDFA()

	owner := make(map[automaton.State]int)
	for _, s := range dfa.Accepting() {
		best := len(rules)
		for _, member := range dfa.Subset(s) {
			if i, ok := ruleOf[member]; ok && i < best {
				best = i
			}
		}
		owner[s] = best
	}
	return &Lexer{rules: rules, dfa: dfa, owner: owner}, nil
}

// DFA exposes the combined automaton.
func (l *Lexer) DFA() *automaton.DFA { return l.dfa }

// Tokenize splits input into lexemes, taking the longest match at each
// offset. Empty matches never count.
func (l *Lexer) Tokenize(input string) ([]Lexeme, error) {
	var out []Lexeme
	for pos := 0; pos < len(input); {
		n, rule := l.longest(input[pos:])
		if n == 0 {
			return out, fmt.Errorf("lexer: no rule matches at offset %d", pos)
		}
		out = append(out, Lexeme{Rule: l.rules[rule].Name, Text: input[pos : pos+n], Offset: pos})
		pos += n
	}
	return out, nil
}

// longest returns the byte length of the longest non-empty accepted prefix
// of s and the rule accepting it.
func (l *Lexer) longest(s string) (int, int) {
	cur := l.dfa.Start()
	length, rule := 0, -1
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		next, ok := l.dfa.Step(cur, automaton.Symbol(r))
		if !ok {
			break
		}
		cur, i = next, i+size
		if owner, ok := l.owner[cur]; ok {
			length, rule = i, owner
		}
	}
	return length, rule
}
