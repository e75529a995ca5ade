package automaton

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"
)

// ExportDOT writes a Graphviz rendering of an *NFA or *DFA to w.
func ExportDOT(w io.Writer, g any) error {
	var b strings.Builder
	b.WriteString("digraph G {\n")
	b.WriteString("    rankdir=LR;\n")

	switch t := g.(type) {
	case *DFA:
		for _, s := range t.States() {
			label := fmt.Sprintf("q%d", s)
			if members := t.subsets[s]; members != nil {
				label += "\\n" + stateList(members)
			}
			fmt.Fprintf(&b, "    q%d [shape=%s, label=\"%s\"];\n", s, shape(t.IsAccepting(s)), label)
		}
		keys := slices.SortedFunc(maps.Keys(t.delta), compareKeys)
		for _, k := range keys {
			fmt.Fprintf(&b, "    q%d -> q%d [label=\"%s\"];\n", k.State, t.delta[k], symbolLabel(k.Symbol))
		}
		fmt.Fprintf(&b, "    _start [shape=point]; _start -> q%d;\n", t.start)

	case *NFA:
		for _, s := range t.States() {
			fmt.Fprintf(&b, "    n%d [shape=%s];\n", s, shape(t.IsAccepting(s)))
		}
		keys := slices.SortedFunc(maps.Keys(t.delta), compareKeys)
		for _, k := range keys {
			for _, to := range t.delta[k].Sorted() {
				fmt.Fprintf(&b, "    n%d -> n%d [label=\"%s\"];\n", k.State, to, symbolLabel(k.Symbol))
			}
		}
		fmt.Fprintf(&b, "    _start [shape=point]; _start -> n%d;\n", t.start)

	default:
		return fmt.Errorf("automaton: cannot export %T as DOT", g)
	}

	b.WriteString("}\n")
	_, err := io.WriteString(w, b.String())
	return err
}

func shape(accepting bool) string {
	if accepting {
		return "doublecircle"
	}
	return "circle"
}

func symbolLabel(s Symbol) string {
	switch s {
	case Epsilon:
		return "ε"
	case '"', '\\':
		return "\\" + string(rune(s))
	}
	return string(rune(s))
}

func stateList(states []State) string {
	parts := make([]string, len(states))
	for i, s := range states {
		parts[i] = fmt.Sprint(int(s))
	}
	return "{" + strings.Join(parts, ",") + "}"
}
