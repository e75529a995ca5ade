package regex

import (
	"fmt"

	"regexdfa/internal/automaton"
)

// Allocator mints state identifiers. One allocator must be threaded through
// the whole construction of a pattern so that fragments never share a state.
// The zero value starts at 0.
type Allocator struct {
	next automaton.State
}

// NewAllocator returns an allocator whose first state is first.
func NewAllocator(first automaton.State) *Allocator {
	return &Allocator{next: first}
}

func (a *Allocator) Fresh() automaton.State {
	s := a.next
	a.next++
	return s
}

// Next reports the identifier the allocator will hand out next.
func (a *Allocator) Next() automaton.State { return a.next }

// fragment is an NFA under construction. A combinator takes ownership of its
// children's fragments; they are not used again afterwards.
type fragment struct {
	alphabet  automaton.Set[automaton.Symbol]
	states    automaton.Set[automaton.State]
	start     automaton.State
	delta     map[automaton.Key]automaton.Set[automaton.State]
	accepting automaton.Set[automaton.State]
}

func newFragment(start automaton.State, rest ...automaton.State) *fragment {
	return &fragment{
		alphabet:  automaton.NewSet[automaton.Symbol](),
		states:    automaton.NewSet(append([]automaton.State{start}, rest...)...),
		start:     start,
		delta:     make(map[automaton.Key]automaton.Set[automaton.State]),
		accepting: automaton.NewSet[automaton.State](),
	}
}

func (f *fragment) link(from automaton.State, sym automaton.Symbol, to automaton.State) {
	k := automaton.Key{State: from, Symbol: sym}
	if f.delta[k] == nil {
		f.delta[k] = automaton.NewSet[automaton.State]()
	}
	f.delta[k].Add(to)
}

func (f *fragment) addState(s automaton.State) {
	if f.states.Has(s) {
		panic(fmt.Errorf("%w: state %d minted twice", automaton.ErrStateCollision, s))
	}
	f.states.Add(s)
}

// absorb moves every state and transition of o into f.
func (f *fragment) absorb(o *fragment) {
	for s := range o.states {
		f.addState(s)
	}
	f.alphabet.AddAll(o.alphabet)
	for k, dsts := range o.delta {
		for d := range dsts {
			f.link(k.State, k.Symbol, d)
		}
	}
}

func (f *fragment) nfa() *automaton.NFA {
	delta := make(map[automaton.Key][]automaton.State, len(f.delta))
	for k, dsts := range f.delta {
		delta[k] = dsts.Sorted()
	}
	n, err := automaton.NewNFA(f.alphabet.Sorted(), f.states.Sorted(), f.start, delta, f.accepting.Sorted())
	if err != nil {
		panic(fmt.Errorf("regex: thompson construction produced an invalid automaton: %w", err))
	}
	return n
}

// Thompson compiles r into an NFA, drawing every state from alloc. Sharing
// one allocator across several calls yields automata with disjoint states.
func Thompson(r Regex, alloc *Allocator) *automaton.NFA {
	return thompson(r, alloc).nfa()
}

func thompson(r Regex, alloc *Allocator) *fragment {
	switch r := r.(type) {
	case Literal:
		start, end := alloc.Fresh(), alloc.Fresh()
		f := newFragment(start, end)
		if r.Symbol != automaton.Epsilon {
			f.alphabet.Add(r.Symbol)
		}
		f.link(start, r.Symbol, end)
		f.accepting.Add(end)
		return f

	case Concatenation:
		left := thompson(r.Left, alloc)
		right := thompson(r.Right, alloc)
		left.absorb(right)
		for acc := range left.accepting {
			left.link(acc, automaton.Epsilon, right.start)
		}
		left.accepting = right.accepting
		return left

	case Union:
		left := thompson(r.Left, alloc)
		right := thompson(r.Right, alloc)
		start, end := alloc.Fresh(), alloc.Fresh()
		f := newFragment(start, end)
		f.absorb(left)
		f.absorb(right)
		f.link(start, automaton.Epsilon, left.start)
		f.link(start, automaton.Epsilon, right.start)
		for acc := range left.accepting {
			f.link(acc, automaton.Epsilon, end)
		}
		for acc := range right.accepting {
			f.link(acc, automaton.Epsilon, end)
		}
		f.accepting.Add(end)
		return f

	case KleeneStar:
		inner := thompson(r.Inner, alloc)
		start, end := alloc.Fresh(), alloc.Fresh()
		f := newFragment(start, end)
		f.absorb(inner)
		f.link(start, automaton.Epsilon, inner.start)
		f.link(start, automaton.Epsilon, end)
		for acc := range inner.accepting {
			f.link(acc, automaton.Epsilon, inner.start)
			f.link(acc, automaton.Epsilon, end)
		}
		f.accepting.Add(end)
		return f

	case Optional:
		return thompson(Union{Left: r.Inner, Right: Literal{Symbol: automaton.Epsilon}}, alloc)

	case OneOrMore:
		return thompson(Concatenation{Left: r.Inner, Right: KleeneStar{Inner: r.Inner}}, alloc)

	default:
		panic(fmt.Sprintf("regex: unhandled expression %T", r))
	}
}
