package automaton

import (
	"fmt"
	"maps"
	"slices"
)

// DFA is a deterministic automaton with a partial transition function: a
// missing transition rejects. It is safe to share between goroutines.
type DFA struct {
	alphabet  Set[Symbol]
	states    Set[State]
	start     State
	delta     map[Key]State
	accepting Set[State]

	// NFA states each DFA state was built from; nil unless produced by ToDFA.
	subsets map[State][]State
}

// NewDFA validates and builds a DFA under the same membership rules as NewNFA.
// Epsilon transitions are not allowed.
func NewDFA(alphabet []Symbol, states []State, start State, delta map[Key]State, accepting []State) (*DFA, error) {
	d := &DFA{
		alphabet:  NewSet(alphabet...),
		states:    NewSet(states...),
		start:     start,
		delta:     maps.Clone(delta),
		accepting: NewSet(accepting...),
	}
	if d.delta == nil {
		d.delta = make(map[Key]State)
	}
	if d.alphabet.Has(Epsilon) {
		return nil, fmt.Errorf("%w: epsilon in alphabet", ErrInvalidAutomaton)
	}
	if !d.states.Has(start) {
		return nil, fmt.Errorf("%w: start state %d not in state set", ErrInvalidAutomaton, start)
	}
	for s := range d.accepting {
		if !d.states.Has(s) {
			return nil, fmt.Errorf("%w: accepting state %d not in state set", ErrInvalidAutomaton, s)
		}
	}
	for k, to := range d.delta {
		if !d.states.Has(k.State) || !d.states.Has(to) {
			return nil, fmt.Errorf("%w: transition %d --%v--> %d leaves state set", ErrInvalidAutomaton, k.State, k.Symbol, to)
		}
		if !d.alphabet.Has(k.Symbol) {
			return nil, fmt.Errorf("%w: symbol %v not in alphabet", ErrInvalidAutomaton, k.Symbol)
		}
	}
	return d, nil
}

func (d *DFA) Start() State { return d.start }

func (d *DFA) Alphabet() []Symbol { return d.alphabet.Sorted() }

func (d *DFA) States() []State { return d.states.Sorted() }

func (d *DFA) Accepting() []State { return d.accepting.Sorted() }

func (d *DFA) IsAccepting(s State) bool { return d.accepting.Has(s) }

func (d *DFA) NumStates() int { return len(d.states) }

// Step returns the successor of s on sym, if one is defined.
func (d *DFA) Step(s State, sym Symbol) (State, bool) {
	to, ok := d.delta[Key{s, sym}]
	return to, ok
}

// Transitions returns a copy of the transition function.
func (d *DFA) Transitions() map[Key]State {
	return maps.Clone(d.delta)
}

// Subset returns the NFA states that s stands for, or nil when the DFA was
// not produced by subset construction.
func (d *DFA) Subset(s State) []State {
	return slices.Clone(d.subsets[s])
}

// Accept runs the automaton over word. Symbols outside the alphabet and
// undefined transitions reject.
func (d *DFA) Accept(word string) bool {
	cur := d.start
	for _, r := range word {
		sym := Symbol(r)
		if !d.alphabet.Has(sym) {
			return false
		}
		next, ok := d.delta[Key{cur, sym}]
		if !ok {
			return false
		}
		cur = next
	}
	return d.accepting.Has(cur)
}

// RemapStates returns a structurally identical DFA with every state s renamed
// to f(s). f must be injective over the state set.
func (d *DFA) RemapStates(f func(State) State) (*DFA, error) {
	rename, err := renaming(d.states, f)
	if err != nil {
		return nil, err
	}
	out := &DFA{
		alphabet:  d.alphabet.Clone(),
		states:    NewSet[State](),
		start:     rename[d.start],
		delta:     make(map[Key]State, len(d.delta)),
		accepting: NewSet[State](),
	}
	for _, to := range rename {
		out.states.Add(to)
	}
	for s := range d.accepting {
		out.accepting.Add(rename[s])
	}
	for k, to := range d.delta {
		out.delta[Key{rename[k.State], k.Symbol}] = rename[to]
	}
	if d.subsets != nil {
		out.subsets = make(map[State][]State, len(d.subsets))
		for s, members := range d.subsets {
			out.subsets[rename[s]] = slices.Clone(members)
		}
	}
	return out, nil
}
