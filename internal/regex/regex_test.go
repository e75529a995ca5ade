package regex

import (
	"bytes"
	"errors"
	"slices"
	"strings"
	"testing"

	"regexdfa/internal/automaton"
)

// ------------------------------------------------------------------- helpers

func acc(t *testing.T, m *Matcher, in string, want bool) {
	t.Helper()
	if got := m.Accept(in); got != want {
		t.Fatalf("pattern %q on %q want %v got %v", m.Pattern(), in, want, got)
	}
}

func newRE(t *testing.T, pat string) *Matcher {
	t.Helper()
	m, err := Compile(pat)
	if err != nil {
		t.Fatalf("compile %q: %v", pat, err)
	}
	return m
}

func words(alphabet string, maxLen int) []string {
	out := []string{""}
	frontier := []string{""}
	for l := 0; l < maxLen; l++ {
		var next []string
		for _, w := range frontier {
			for _, r := range alphabet {
				next = append(next, w+string(r))
			}
		}
		out = append(out, next...)
		frontier = next
	}
	return out
}

func lit(r rune) Literal { return Literal{Symbol: automaton.Symbol(r)} }

// ------------------------------------------------------------------- Tokenizer

func TestTokenize(t *testing.T) {
	tests := []struct {
		pattern string
		want    string
	}{
		{"a", "a"},
		{"ab", "a . b"},
		{"a b", "a . b"},
		{"a|b", "a | b"},
		{"a*b", "a * . b"},
		{"a*(b)", "a * . ( b )"},
		{"(a)(b)", "( a ) . ( b )"},
		{"(a)b", "( a ) . b"},
		{"a?+", "a ? +"},
		{`\*a`, `\* . a`},
		{`a\|b`, `a . \| . b`},
		{`\ x`, `\  . x`},
		{"[a-c]", "( a | b | c )"},
		{"x[0-1]", "x . ( 0 | 1 )"},
		{"[a-a]*", "( a ) *"},
		{"a.b", "a . . . b"},
	}
	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			tokens, err := Tokenize(tt.pattern)
			if err != nil {
				t.Fatalf("tokenize: %v", err)
			}
			if got := formatTokens(tokens); got != tt.want {
				t.Fatalf("got %q want %q", got, tt.want)
			}
		})
	}
}

func TestTokenizeDotIsLiteral(t *testing.T) {
	tokens, err := Tokenize("a.")
	if err != nil {
		t.Fatal(err)
	}
	if len(tokens) != 3 || tokens[2].Kind != SymbolToken || tokens[2].Symbol != '.' {
		t.Fatalf("want literal '.', got %v", tokens)
	}
}

func TestTokenizePositions(t *testing.T) {
	tokens, err := Tokenize("é|[x-y]")
	if err != nil {
		t.Fatal(err)
	}
	if tokens[0].Symbol != 'é' || tokens[0].Pos != 0 {
		t.Fatalf("first token %+v", tokens[0])
	}
	if tokens[1].Op != OpUnion || tokens[1].Pos != 2 {
		t.Fatalf("union token %+v", tokens[1])
	}
	if tokens[2].Kind != LeftParen || tokens[2].Pos != 3 {
		t.Fatalf("class token %+v", tokens[2])
	}
}

// ------------------------------------------------------------------- Parser

func TestPrefixForm(t *testing.T) {
	tests := []struct {
		pattern string
		want    string
	}{
		{"ab", ". a b"},
		{"abc", ". . a b c"},
		{"a|b|c", "| | a b c"},
		{"a|bc*", "| a . b * c"},
		{"(a|b)*c", ". * | a b c"},
		{"a**", "* * a"},
		{"(ab)+", "+ . a b"},
		{"a(b|c)?d", ". . a ? | b c d"},
	}
	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			tokens, err := Tokenize(tt.pattern)
			if err != nil {
				t.Fatal(err)
			}
			if err := validate(tt.pattern, tokens); err != nil {
				t.Fatal(err)
			}
			if got := formatTokens(toPrefix(tokens)); got != tt.want {
				t.Fatalf("got %q want %q", got, tt.want)
			}
		})
	}
}

func TestParseTree(t *testing.T) {
	tests := []struct {
		pattern string
		want    Regex
	}{
		{"a", lit('a')},
		{"a|bc*", Union{lit('a'), Concatenation{lit('b'), KleeneStar{lit('c')}}}},
		{"abc", Concatenation{Concatenation{lit('a'), lit('b')}, lit('c')}},
		{"(a|b)*c", Concatenation{KleeneStar{Union{lit('a'), lit('b')}}, lit('c')}},
		{"a+?", Optional{OneOrMore{lit('a')}}},
		{"((a))", lit('a')},
		{"[a-b]", Union{lit('a'), lit('b')}},
	}
	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			got, err := Parse(tt.pattern)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Fatalf("got %s want %s", got, tt.want)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		pattern string
		pos     int
	}{
		{"", 0},
		{"(", 0},
		{"*a", 0},
		{"[z-a]", 0},
		{"ab)", 2},
		{"a|", 2},
		{"|a", 0},
		{"a||b", 2},
		{"()", 1},
		{"(|a)", 1},
		{"a(b", 1},
		{"x[ab]", 1},
		{"[a-c", 0},
		{"[a-bc]", 0},
		{`a\`, 1},
		{"+", 0},
		{" ", 0},
	}
	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			tree, err := Parse(tt.pattern)
			if tree != nil {
				t.Fatalf("partial tree %v returned with error", tree)
			}
			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("want *ParseError, got %v", err)
			}
			if pe.Pos != tt.pos {
				t.Fatalf("error %q at %d, want %d", pe.Msg, pe.Pos, tt.pos)
			}
			if _, err := Compile(tt.pattern); !errors.As(err, &pe) {
				t.Fatalf("Compile: want *ParseError, got %v", err)
			}
		})
	}
}

func TestTreeString(t *testing.T) {
	tests := []struct {
		pattern string
		want    string
	}{
		{"(a|b)*c", "(a|b)*c"},
		{"a|bc*", "a|bc*"},
		{`\*\(x`, `\*\(x`},
		{"(ab)?", "(ab)?"},
		{"(a|b)(c|d)", "(a|b)(c|d)"},
		{"[0-2]+", "(0|1|2)+"},
	}
	for _, tt := range tests {
		tree, err := Parse(tt.pattern)
		if err != nil {
			t.Fatal(err)
		}
		if got := tree.String(); got != tt.want {
			t.Errorf("%q renders as %q, want %q", tt.pattern, got, tt.want)
		}
		again := newRE(t, tree.String())
		orig := newRE(t, tt.pattern)
		for _, w := range words("abcd012*(x", 3) {
			if again.Accept(w) != orig.Accept(w) {
				t.Fatalf("%q and %q disagree on %q", tt.pattern, tree.String(), w)
			}
		}
	}
}

// ------------------------------------------------------------------- Thompson

func TestThompsonConcatenationShape(t *testing.T) {
	n := newRE(t, "ab").NFA()
	if !slices.Equal(n.States(), []automaton.State{0, 1, 2, 3}) {
		t.Fatalf("states %v", n.States())
	}
	if n.Start() != 0 || !slices.Equal(n.Accepting(), []automaton.State{3}) {
		t.Fatalf("start %d accepting %v", n.Start(), n.Accepting())
	}
	if got := n.Next(0, 'a'); !slices.Equal(got, []automaton.State{1}) {
		t.Fatalf("0 --a--> %v", got)
	}
	if got := n.Next(1, automaton.Epsilon); !slices.Equal(got, []automaton.State{2}) {
		t.Fatalf("1 --ε--> %v", got)
	}
	if got := n.Next(2, 'b'); !slices.Equal(got, []automaton.State{3}) {
		t.Fatalf("2 --b--> %v", got)
	}
}

func TestThompsonFreshStatesForRepeatedSubexpression(t *testing.T) {
	// a+ compiles a twice: once alone and once under the star.
	n := newRE(t, "a+").NFA()
	if n.NumStates() != 6 {
		t.Fatalf("want 6 states, got %d", n.NumStates())
	}
	n = newRE(t, "(ab|ab)+").NFA()
	// inner union: 2*4 + 2 = 10; OneOrMore: 10 + (10 + 2) = 22
	if n.NumStates() != 22 {
		t.Fatalf("want 22 states, got %d", n.NumStates())
	}
}

func TestThompsonSharedAllocator(t *testing.T) {
	alloc := NewAllocator(10)
	first := Thompson(lit('a'), alloc)
	second := Thompson(lit('a'), alloc)
	if !slices.Equal(first.States(), []automaton.State{10, 11}) {
		t.Fatalf("first %v", first.States())
	}
	if !slices.Equal(second.States(), []automaton.State{12, 13}) {
		t.Fatalf("second %v", second.States())
	}
	if alloc.Next() != 14 {
		t.Fatalf("next = %d", alloc.Next())
	}
}

func TestThompsonReproducible(t *testing.T) {
	tree, err := Parse("(a|b)*abb")
	if err != nil {
		t.Fatal(err)
	}
	a, b := tree.ToNFA(), tree.ToNFA()
	if !slices.Equal(a.States(), b.States()) || a.Start() != b.Start() {
		t.Fatal("two compilations of one tree differ")
	}
}

func TestFragmentCollisionPanics(t *testing.T) {
	defer func() {
		r := recover()
		err, ok := r.(error)
		if !ok || !errors.Is(err, automaton.ErrStateCollision) {
			t.Fatalf("want ErrStateCollision panic, got %v", r)
		}
	}()
	f := newFragment(0, 1)
	f.absorb(newFragment(1, 2))
}

func TestOptionalHasNoEpsilonInAlphabet(t *testing.T) {
	m := newRE(t, "a?")
	if !slices.Equal(m.NFA().Alphabet(), []automaton.Symbol{'a'}) {
		t.Fatalf("nfa alphabet %v", m.NFA().Alphabet())
	}
	if !slices.Equal(m.DFA().Alphabet(), []automaton.Symbol{'a'}) {
		t.Fatalf("dfa alphabet %v", m.DFA().Alphabet())
	}
}

// ------------------------------------------------------------------- Pipeline

func TestCombinators(t *testing.T) {
	tests := []struct {
		pattern string
		accept  []string
		reject  []string
	}{
		{"a", []string{"a"}, []string{"", "aa", "b"}},
		{"ab", []string{"ab"}, []string{"", "a", "b", "ba", "abb"}},
		{"a|b", []string{"a", "b"}, []string{"ab", ""}},
		{"a*", []string{"", "a", "aaaa"}, []string{"b"}},
		{"a+", []string{"a", "aaa"}, []string{""}},
		{"a?", []string{"", "a"}, []string{"aa"}},
		{"[a-c]", []string{"a", "b", "c"}, []string{"d"}},
		{"(a|b)*c", []string{"c", "abc", "aabbc"}, []string{"ab"}},
		{"a|bc*", []string{"a", "b", "bc", "bccc"}, []string{"ab", "ac"}},
		{`\(\)`, []string{"()"}, []string{"", "("}},
		{"a b", []string{"ab"}, []string{"a b"}},
		{`a\ b`, []string{"a b"}, []string{"ab"}},
		{"(ab)*", []string{"", "ab", "abab"}, []string{"aba"}},
		{"(a*)*", []string{"", "aaa"}, []string{"b"}},
		{"x(y|z)?[0-9]+", []string{"x0", "xy12", "xz9"}, []string{"x", "xyz1", "xy"}},
		{"é+", []string{"é", "éé"}, []string{"e"}},
	}
	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			m := newRE(t, tt.pattern)
			for _, w := range tt.accept {
				acc(t, m, w, true)
			}
			for _, w := range tt.reject {
				acc(t, m, w, false)
			}
		})
	}
}

func TestNFAtoDFAEquivalence(t *testing.T) {
	for _, pat := range []string{"(ab|a)*c", "(a|b)*abb", "a?b+c*", "((a|b)(a|b))*", "(a*b*)*c?"} {
		m := newRE(t, pat)
		for _, w := range words("abc", 6) {
			if m.NFA().Accept(w) != m.DFA().Accept(w) {
				t.Fatalf("%q: nfa and dfa disagree on %q", pat, w)
			}
		}
	}
}

func TestRemapPreservesLanguage(t *testing.T) {
	m := newRE(t, "(a|b)*abb")
	d, err := m.DFA().RemapStates(func(s automaton.State) automaton.State { return s })
	if err != nil {
		t.Fatal(err)
	}
	for _, w := range words("ab", 6) {
		if d.Accept(w) != m.Accept(w) {
			t.Fatalf("identity remap changed %q", w)
		}
	}
}

func TestVerboseLogging(t *testing.T) {
	var buf bytes.Buffer
	if _, err := CompileWith("a|b", Options{Verbose: true, Output: &buf}); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{`[regexdfa] pattern: "a|b"`, "[regexdfa] tokens: a | b", "[regexdfa] prefix: | a b", "[regexdfa] dfa:"} {
		if !strings.Contains(out, want) {
			t.Errorf("log missing %q:\n%s", want, out)
		}
	}

	buf.Reset()
	if _, err := CompileWith("a|b", Options{Output: &buf}); err != nil {
		t.Fatal(err)
	}
	if buf.Len() != 0 {
		t.Fatalf("quiet compile logged %q", buf.String())
	}
}

func TestMustCompilePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("MustCompile(\"(\") did not panic")
		}
	}()
	MustCompile("(")
}

// ------------------------------------------------------------------- Fuzz

func FuzzCompile(f *testing.F) {
	f.Add("(a|b)*c", "aabc")
	f.Add("a+?", "")
	f.Add("[a-c]x", "bx")
	f.Add(`\(|)`, "(")
	f.Add("((", "")

	f.Fuzz(func(t *testing.T, pattern, input string) {
		if len(pattern) > 24 || strings.ContainsRune(pattern, '[') {
			return
		}
		m, err := Compile(pattern)
		if err != nil {
			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("non-parse error %v", err)
			}
			return
		}
		if m.NFA().Accept(input) != m.Accept(input) {
			t.Fatalf("%q: nfa and dfa disagree on %q", pattern, input)
		}
	})
}

// ------------------------------------------------------------------- Bench

func BenchmarkMillionBs(b *testing.B) {
	m := MustCompile("ab*")
	txt := "a" + strings.Repeat("b", 1_000_000)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = m.Accept(txt)
	}
}
