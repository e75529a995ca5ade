// Package codegen renders a compiled DFA as a standalone Go function.
package codegen

import (
	"errors"
	"fmt"
	"go/token"
	"io"
	"maps"
	"slices"

	"github.com/dave/jennifer/jen"

	"regexdfa/internal/automaton"
)

// Options configures the generated file.
type Options struct {
	// Package is the package clause of the generated file.
	Package string
	// Name prefixes the generated function: Name + "Accept".
	Name string
	// Pattern is quoted in the doc comment; optional.
	Pattern string
}

// Validate checks if the options are valid.
func (o Options) Validate() error {
	if o.Package == "" {
		return errors.New("package cannot be empty")
	}
	if !token.IsIdentifier(o.Package) {
		return fmt.Errorf("package %q is not an identifier", o.Package)
	}
	if o.Name == "" {
		return errors.New("name cannot be empty")
	}
	if !token.IsIdentifier(o.Name + "Accept") {
		return fmt.Errorf("name %q does not form an identifier", o.Name)
	}
	return nil
}

// Generate builds a file holding func <Name>Accept(word string) bool that
// simulates d with nested switches over the current state and rune.
func Generate(d *automaton.DFA, opts Options) (*jen.File, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	f := jen.NewFile(opts.Package)
	f.HeaderComment("Code generated by regexdfa. DO NOT EDIT.")

	fn := opts.Name + "Accept"
	if opts.Pattern != "" {
		f.Comment(fmt.Sprintf("%s reports whether word matches %q in full.", fn, opts.Pattern))
	} else {
		f.Comment(fmt.Sprintf("%s reports whether word is accepted by the automaton.", fn))
	}
	f.Func().Id(fn).Params(jen.Id("word").String()).Bool().Block(body(d)...)
	return f, nil
}

// Render writes the generated source to w.
func Render(w io.Writer, d *automaton.DFA, opts Options) error {
	f, err := Generate(d, opts)
	if err != nil {
		return err
	}
	if err := f.Render(w); err != nil {
		return fmt.Errorf("failed to render: %w", err)
	}
	return nil
}

func body(d *automaton.DFA) []jen.Code {
	// state -> symbol -> destination
	table := map[automaton.State]map[automaton.Symbol]automaton.State{}
	for k, to := range d.Transitions() {
		if table[k.State] == nil {
			table[k.State] = map[automaton.Symbol]automaton.State{}
		}
		table[k.State][k.Symbol] = to
	}

	var code []jen.Code
	if len(table) == 0 {
		code = append(code,
			jen.If(jen.Id("word").Op("!=").Lit("")).Block(jen.Return(jen.False())),
			jen.Return(jen.Lit(d.IsAccepting(d.Start()))),
		)
		return code
	}

	var stateCases []jen.Code
	for _, s := range slices.Sorted(maps.Keys(table)) {
		var runeCases []jen.Code
		row := table[s]
		for _, sym := range slices.Sorted(maps.Keys(row)) {
			runeCases = append(runeCases,
				jen.Case(jen.LitRune(rune(sym))).Block(jen.Id("state").Op("=").Lit(int(row[sym]))))
		}
		runeCases = append(runeCases, jen.Default().Block(jen.Return(jen.False())))
		stateCases = append(stateCases, jen.Case(jen.Lit(int(s))).Block(jen.Switch(jen.Id("r")).Block(runeCases...)))
	}
	stateCases = append(stateCases, jen.Default().Block(jen.Return(jen.False())))

	code = append(code,
		jen.Id("state").Op(":=").Lit(int(d.Start())),
		jen.For(jen.List(jen.Id("_"), jen.Id("r")).Op(":=").Range().Id("word")).Block(
			jen.Switch(jen.Id("state")).Block(stateCases...),
		),
	)

	accepting := d.Accepting()
	if len(accepting) == 0 {
		return append(code, jen.Return(jen.False()))
	}
	lits := make([]jen.Code, len(accepting))
	for i, s := range accepting {
		lits[i] = jen.Lit(int(s))
	}
	return append(code,
		jen.Switch(jen.Id("state")).Block(jen.Case(lits...).Block(jen.Return(jen.True()))),
		jen.Return(jen.False()),
	)
}
