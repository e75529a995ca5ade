package automaton

import (
	"fmt"
	"maps"
	"slices"
)

// NFA is a nondeterministic automaton with epsilon transitions. It is never
// mutated once NewNFA returns it.
type NFA struct {
	alphabet  Set[Symbol]
	states    Set[State]
	start     State
	delta     map[Key]Set[State]
	accepting Set[State]
}

// NewNFA validates and builds an NFA. Every state named by start, accepting
// or delta must be listed in states; delta symbols must belong to the
// alphabet or be Epsilon.
func NewNFA(alphabet []Symbol, states []State, start State, delta map[Key][]State, accepting []State) (*NFA, error) {
	n := &NFA{
		alphabet:  NewSet(alphabet...),
		states:    NewSet(states...),
		start:     start,
		delta:     make(map[Key]Set[State], len(delta)),
		accepting: NewSet(accepting...),
	}
	if n.alphabet.Has(Epsilon) {
		return nil, fmt.Errorf("%w: epsilon in alphabet", ErrInvalidAutomaton)
	}
	if !n.states.Has(start) {
		return nil, fmt.Errorf("%w: start state %d not in state set", ErrInvalidAutomaton, start)
	}
	for s := range n.accepting {
		if !n.states.Has(s) {
			return nil, fmt.Errorf("%w: accepting state %d not in state set", ErrInvalidAutomaton, s)
		}
	}
	for k, dsts := range delta {
		if !n.states.Has(k.State) {
			return nil, fmt.Errorf("%w: transition from unknown state %d", ErrInvalidAutomaton, k.State)
		}
		if k.Symbol != Epsilon && !n.alphabet.Has(k.Symbol) {
			return nil, fmt.Errorf("%w: symbol %v not in alphabet", ErrInvalidAutomaton, k.Symbol)
		}
		if len(dsts) == 0 {
			continue
		}
		set := NewSet[State]()
		for _, d := range dsts {
			if !n.states.Has(d) {
				return nil, fmt.Errorf("%w: transition %d --%v--> unknown state %d", ErrInvalidAutomaton, k.State, k.Symbol, d)
			}
			set.Add(d)
		}
		n.delta[k] = set
	}
	return n, nil
}

func (n *NFA) Start() State { return n.start }

// Alphabet returns the symbols in ascending order.
func (n *NFA) Alphabet() []Symbol { return n.alphabet.Sorted() }

func (n *NFA) States() []State { return n.states.Sorted() }

func (n *NFA) Accepting() []State { return n.accepting.Sorted() }

func (n *NFA) IsAccepting(s State) bool { return n.accepting.Has(s) }

func (n *NFA) NumStates() int { return len(n.states) }

// Next returns the destinations of s on sym in ascending order.
func (n *NFA) Next(s State, sym Symbol) []State {
	return n.delta[Key{s, sym}].Sorted()
}

// Transitions returns a copy of the transition relation.
func (n *NFA) Transitions() map[Key][]State {
	out := make(map[Key][]State, len(n.delta))
	for k, dsts := range n.delta {
		out[k] = dsts.Sorted()
	}
	return out
}

// EpsilonClosure returns every state reachable from s through zero or more
// epsilon transitions, s included.
func (n *NFA) EpsilonClosure(s State) Set[State] {
	closure := NewSet(s)
	stack := []State{s}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for next := range n.delta[Key{cur, Epsilon}] {
			if closure.Has(next) {
				continue
			}
			closure.Add(next)
			stack = append(stack, next)
		}
	}
	return closure
}

func (n *NFA) closureOf(set Set[State]) Set[State] {
	out := NewSet[State]()
	for s := range set {
		if out.Has(s) {
			continue
		}
		out.AddAll(n.EpsilonClosure(s))
	}
	return out
}

// Accept simulates the automaton over every nondeterministic choice at once.
func (n *NFA) Accept(word string) bool {
	current := n.EpsilonClosure(n.start)
	for _, r := range word {
		sym := Symbol(r)
		if !n.alphabet.Has(sym) {
			return false
		}
		moved := NewSet[State]()
		for s := range current {
			moved.AddAll(n.delta[Key{s, sym}])
		}
		if len(moved) == 0 {
			return false
		}
		current = n.closureOf(moved)
	}
	for s := range current {
		if n.accepting.Has(s) {
			return true
		}
	}
	return false
}

// RemapStates returns a copy of the automaton with every state s renamed to
// f(s). f must be injective over the state set; a collision yields
// ErrStateCollision.
func (n *NFA) RemapStates(f func(State) State) (*NFA, error) {
	rename, err := renaming(n.states, f)
	if err != nil {
		return nil, err
	}
	out := &NFA{
		alphabet:  maps.Clone(n.alphabet),
		states:    NewSet[State](),
		start:     rename[n.start],
		delta:     make(map[Key]Set[State], len(n.delta)),
		accepting: NewSet[State](),
	}
	for _, to := range rename {
		out.states.Add(to)
	}
	for s := range n.accepting {
		out.accepting.Add(rename[s])
	}
	for k, dsts := range n.delta {
		set := NewSet[State]()
		for d := range dsts {
			set.Add(rename[d])
		}
		out.delta[Key{rename[k.State], k.Symbol}] = set
	}
	return out, nil
}

// renaming evaluates f once per state and rejects non-injective mappings.
func renaming(states Set[State], f func(State) State) (map[State]State, error) {
	rename := make(map[State]State, len(states))
	seen := make(map[State]State, len(states))
	for _, s := range slices.Sorted(maps.Keys(states)) {
		to := f(s)
		if prev, ok := seen[to]; ok {
			return nil, fmt.Errorf("%w: states %d and %d both map to %d", ErrStateCollision, prev, s, to)
		}
		seen[to] = s
		rename[s] = to
	}
	return rename, nil
}
