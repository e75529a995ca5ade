package automaton

import (
	"github.com/bits-and-blooms/bitset"
)

// ToDFA determinises the automaton by subset construction. Each DFA state
// stands for an epsilon-closed set of NFA states; sets are deduplicated by
// content. Moves that reach no NFA state are left undefined.
func (n *NFA) ToDFA() *DFA {
	order := n.States()
	index := make(map[State]uint, len(order))
	for i, s := range order {
		index[s] = uint(i)
	}
	size := uint(len(order))

	closures := make([]*bitset.BitSet, len(order))
	closure := func(s State) *bitset.BitSet {
		i := index[s]
		if closures[i] == nil {
			bits := bitset.New(size)
			for c := range n.EpsilonClosure(s) {
				bits.Set(index[c])
			}
			closures[i] = bits
		}
		return closures[i]
	}

	final := bitset.New(size)
	for s := range n.accepting {
		final.Set(index[s])
	}

	alphabet := n.Alphabet()
	subsets := []*bitset.BitSet{closure(n.start).Clone()}
	ids := map[string]State{subsets[0].String(): 0}
	delta := make(map[Key]State)

	// subsets doubles as the worklist: entries past cur are unexplored.
	for cur := 0; cur < len(subsets); cur++ {
		src := subsets[cur]
		for _, sym := range alphabet {
			dst := bitset.New(size)
			for i, ok := src.NextSet(0); ok; i, ok = src.NextSet(i + 1) {
				for to := range n.delta[Key{order[i], sym}] {
					dst.InPlaceUnion(closure(to))
				}
			}
			if dst.None() {
				continue
			}
			key := dst.String()
			id, seen := ids[key]
			if !seen {
				id = State(len(subsets))
				ids[key] = id
				subsets = append(subsets, dst)
			}
			delta[Key{State(cur), sym}] = id
		}
	}

	d := &DFA{
		alphabet:  n.alphabet.Clone(),
		states:    NewSet[State](),
		start:     0,
		delta:     delta,
		accepting: NewSet[State](),
		subsets:   make(map[State][]State, len(subsets)),
	}
	for i, bits := range subsets {
		id := State(i)
		d.states.Add(id)
		if bits.IntersectionCardinality(final) > 0 {
			d.accepting.Add(id)
		}
		members := make([]State, 0, bits.Count())
		for j, ok := bits.NextSet(0); ok; j, ok = bits.NextSet(j + 1) {
			members = append(members, order[j])
		}
		d.subsets[id] = members
	}
	return d
}
