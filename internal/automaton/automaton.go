// Package automaton holds the finite automata produced by the regex
// pipeline: nondeterministic automata with epsilon moves, their
// determinisation by subset construction, and deterministic simulation.
package automaton

import (
	"cmp"
	"errors"
	"maps"
	"slices"
	"strconv"
)

// State identifies a state inside one automaton.
type State int

// Symbol is a single code point read by an automaton.
type Symbol rune

// Epsilon labels transitions that consume no input. It is never a member of
// an alphabet.
const Epsilon Symbol = -1

func (s Symbol) String() string {
	if s == Epsilon {
		return "ε"
	}
	return strconv.QuoteRune(rune(s))
}

var (
	// ErrStateCollision reports two distinct states mapped onto one identifier.
	ErrStateCollision = errors.New("automaton: state identifier collision")
	// ErrInvalidAutomaton reports a start, accepting or transition state
	// that is not part of the state set, or a malformed alphabet.
	ErrInvalidAutomaton = errors.New("automaton: invalid automaton")
)

// Key is the left-hand side of a transition: the source state and the symbol
// read (Epsilon for NFA epsilon moves).
type Key struct {
	State  State
	Symbol Symbol
}

func compareKeys(a, b Key) int {
	if c := cmp.Compare(a.State, b.State); c != 0 {
		return c
	}
	return cmp.Compare(a.Symbol, b.Symbol)
}

// Set is an unordered collection compared by content.
type Set[T cmp.Ordered] map[T]struct{}

func NewSet[T cmp.Ordered](items ...T) Set[T] {
	s := make(Set[T], len(items))
	for _, it := range items {
		s[it] = struct{}{}
	}
	return s
}

func (s Set[T]) Add(v T) { s[v] = struct{}{} }

func (s Set[T]) Has(v T) bool {
	_, ok := s[v]
	return ok
}

// AddAll inserts every element of o into s.
func (s Set[T]) AddAll(o Set[T]) {
	for v := range o {
		s[v] = struct{}{}
	}
}

// Sorted returns the elements in ascending order.
func (s Set[T]) Sorted() []T {
	return slices.Sorted(maps.Keys(s))
}

func (s Set[T]) Clone() Set[T] {
	return maps.Clone(s)
}

// Equal reports whether both sets hold the same elements.
func (s Set[T]) Equal(o Set[T]) bool {
	if len(s) != len(o) {
		return false
	}
	for v := range s {
		if !o.Has(v) {
			return false
		}
	}
	return true
}
