package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"regexdfa/internal/automaton"
	"regexdfa/internal/codegen"
	"regexdfa/internal/lexer"
	"regexdfa/internal/regex"
)

type ruleFlags []lexer.Rule

func (r *ruleFlags) String() string { return fmt.Sprint(*r) }

func (r *ruleFlags) Set(v string) error {
	name, pattern, ok := strings.Cut(v, "=")
	if !ok {
		return fmt.Errorf("rule %q: want name=pattern", v)
	}
	*r = append(*r, lexer.Rule{Name: name, Pattern: pattern})
	return nil
}

func main() {
	log.SetFlags(0)
	log.SetPrefix("regexdfa: ")

	var rules ruleFlags
	pattern := flag.String("re", "", "pattern to compile")
	dot := flag.String("dot", "", "export Graphviz for `nfa` or dfa instead of matching")
	gen := flag.Bool("gen", false, "emit a Go matcher function instead of matching")
	pkg := flag.String("pkg", "matchers", "package name for -gen")
	name := flag.String("name", "Pattern", "function name prefix for -gen")
	outFile := flag.String("o", "-", "output file for -dot and -gen")
	verbose := flag.Bool("v", false, "log compilation stages to stderr")
	flag.Var(&rules, "rule", "lexer rule `name=pattern`; repeatable, switches to tokenizing mode")
	flag.Parse()

	if len(rules) > 0 {
		lx, err := lexer.New(rules)
		if err != nil {
			log.Fatal(err)
		}
		for _, in := range inputs(flag.Args()) {
			lexemes, err := lx.Tokenize(in)
			for _, l := range lexemes {
				fmt.Printf("%d\t%s\t%q\n", l.Offset, l.Rule, l.Text)
			}
			if err != nil {
				log.Print(err)
			}
		}
		return
	}

	if *pattern == "" {
		fmt.Fprintln(os.Stderr, "usage: regexdfa -re <pattern> [-dot nfa|dfa] [-gen] [-o file] [words...]")
		fmt.Fprintln(os.Stderr, "       regexdfa -rule name=pattern [-rule ...] [inputs...]")
		flag.PrintDefaults()
		os.Exit(2)
	}

	m, err := regex.CompileWith(*pattern, regex.Options{Verbose: *verbose})
	if err != nil {
		log.Fatal(err)
	}

	switch {
	case *dot != "":
		var g any
		switch *dot {
		case "nfa":
			g = m.NFA()
		case "dfa":
			g = m.DFA()
		default:
			log.Fatalf("-dot wants nfa or dfa, got %q", *dot)
		}
		writeOutput(*outFile, func(w io.Writer) error { return automaton.ExportDOT(w, g) })
	case *gen:
		opts := codegen.Options{Package: *pkg, Name: *name, Pattern: *pattern}
		writeOutput(*outFile, func(w io.Writer) error { return codegen.Render(w, m.DFA(), opts) })
	default:
		for _, word := range inputs(flag.Args()) {
			verdict := "reject"
			if m.Accept(word) {
				verdict = "accept"
			}
			fmt.Printf("%s\t%q\n", verdict, word)
		}
	}
}

// inputs returns args, or the lines of stdin when there are none.
func inputs(args []string) []string {
	if len(args) > 0 {
		return args
	}
	var lines []string
	sc := bufio.NewScanner(os.Stdin)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		log.Fatal(err)
	}
	return lines
}

func writeOutput(path string, write func(io.Writer) error) {
	if path == "-" {
		if err := write(os.Stdout); err != nil {
			log.Fatal(err)
		}
		return
	}
	f, err := os.Create(path)
	if err != nil {
		log.Fatalf("cannot create %s: %v", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		log.Fatal(err)
	}
	if err := f.Close(); err != nil {
		log.Fatal(err)
	}
	log.Printf("written to %s", path)
}
