package regex

import (
	"io"

	"regexdfa/internal/automaton"
)

// Options configures Compile.
type Options struct {
	// Verbose logs each pipeline stage to Output.
	Verbose bool
	// Output receives verbose logs; nil means stderr.
	Output io.Writer
}

// Matcher is a compiled pattern. It is immutable and safe for concurrent use.
type Matcher struct {
	pattern string
	tree    Regex
	nfa     *automaton.NFA
	dfa     *automaton.DFA
}

// Compile runs the whole pipeline: tokens, prefix form, expression tree,
// Thompson NFA, subset-construction DFA.
func Compile(pattern string) (*Matcher, error) {
	return CompileWith(pattern, Options{})
}

func CompileWith(pattern string, opts Options) (*Matcher, error) {
	log := NewLogger(opts.Verbose, opts.Output)
	log.Log("pattern: %q", pattern)

	tree, err := parse(pattern, log)
	if err != nil {
		return nil, err
	}
	log.Log("tree: %s", tree)

	nfa := tree.ToNFA()
	log.Log("nfa: %d states, alphabet %v", nfa.NumStates(), nfa.Alphabet())

	dfa := nfa.ToDFA()
	log.Log("dfa: %d states, %d accepting", dfa.NumStates(), len(dfa.Accepting()))

	return &Matcher{pattern: pattern, tree: tree, nfa: nfa, dfa: dfa}, nil
}

func MustCompile(pattern string) *Matcher {
	m, err := Compile(pattern)
	if err != nil {
		panic(err)
	}
	return m
}

// Accept reports whether the whole word belongs to the pattern's language.
func (m *Matcher) Accept(word string) bool { return m.dfa.Accept(word) }

func (m *Matcher) Pattern() string     { return m.pattern }
func (m *Matcher) Tree() Regex         { return m.tree }
func (m *Matcher) NFA() *automaton.NFA { return m.nfa }
func (m *Matcher) DFA() *automaton.DFA { return m.dfa }
