package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"badger/ast"
	"badger/diag"
	"badger/interpreter"
	"badger/lexer"
	"badger/lower"
	"badger/parser"
)

// compileAndRun is used for normal file execution (fresh interpreter each time).
func compileAndRun(cfg Config, out io.Writer, filename, src string) error {
	in := interpreter.New(cfg.options(interpreter.WithOutput(out))...)
	return compileAndRunWith(in, filename, src)
}

// compileAndRunWith runs code using an existing interpreter instance.
// This is what makes the REPL stateful across inputs.
func compileAndRunWith(in *interpreter.Interpreter, filename, src string) error {
	_, err := in.Eval(filename, src)
	return err
}

func tokenize(cfg Config, src string) ([]lexer.Token, []int, error) {
	if cfg.Interpreter.StrictLexer {
		return lexer.TokenizeStrict(src)
	}
	toks, lines := lexer.Tokenize(src)
	return toks, lines, nil
}

func parseSource(cfg Config, src string) ([]ast.Stmt, []int, error) {
	toks, lines, err := tokenize(cfg, src)
	if err != nil {
		return nil, nil, err
	}
	stmts, err := parser.New(toks, lines).ParseProgram()
	return stmts, lines, err
}

// compileSource writes the lowered instruction listing, one per line.
func compileSource(cfg Config, out io.Writer, src string) error {
	stmts, lines, err := parseSource(cfg, src)
	if err != nil {
		return err
	}
	code, err := lower.Program(stmts, lines)
	if err != nil {
		return err
	}
	for _, c := range code {
		fmt.Fprintln(out, c)
	}
	return nil
}

func dumpTokens(cfg Config, out io.Writer, src string) error {
	toks, lines, err := tokenize(cfg, src)
	if err != nil {
		return err
	}
	fmt.Fprint(out, lexer.Dump(toks, lines))
	return nil
}

// reportError prints every diagnostic in err. Runtime errors are prefixed
// with the chunk they were raised in. With snippets on, positioned errors also
// show the offending line and the fxn call stack.
func reportError(w io.Writer, err error, src string, snippets bool) {
	errs := []error{err}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		errs = joined.Unwrap()
	}
	for _, e := range errs {
		var d *diag.Error
		positioned := errors.As(e, &d)
		if positioned && d.File != "" {
			fmt.Fprintf(w, "%s: %v\n", d.File, e)
		} else {
			fmt.Fprintln(w, e)
		}
		if !snippets || !positioned {
			continue
		}
		text := src
		if d.File != "" {
			text = d.Source
		}
		if s := d.Snippet(text); s != "" {
			fmt.Fprintln(w, s)
		}
		if len(d.Stack) > 0 {
			var b strings.Builder
			b.WriteString("Stack:\n")
			for _, fn := range d.Stack {
				b.WriteString(fmt.Sprintf("  at %s()\n", fn))
			}
			fmt.Fprint(w, b.String())
		}
	}
}
