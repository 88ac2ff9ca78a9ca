package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

func usage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  badger [-config file.yaml] <file.bdg>")
	fmt.Fprintln(w, "  badger run <file.bdg>        Interpret a program")
	fmt.Fprintln(w, "  badger compile <file.bdg>    Print the lowered instruction listing")
	fmt.Fprintln(w, "  badger tokens <file.bdg>     Print the token stream")
	fmt.Fprintln(w, "  badger repl                  Start the interactive session (default)")
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run dispatches one command line and returns the process exit code.
func run(argv []string, stdout, stderr io.Writer) int {
	cfgPath, args, err := splitConfigFlag(argv)
	if err != nil {
		fmt.Fprintln(stderr, "Error:", err)
		usage(stderr)
		return 2
	}
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		fmt.Fprintln(stderr, "Error:", err)
		return 1
	}

	if len(args) == 0 || args[0] == "repl" {
		if len(args) > 1 {
			usage(stderr)
			return 2
		}
		if err := runREPL(cfg); err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
		return 0
	}

	mode := "run"
	filename := args[0]
	switch args[0] {
	case "help", "-h", "--help":
		usage(stdout)
		return 0
	case "run", "compile", "tokens":
		if len(args) != 2 {
			usage(stderr)
			return 2
		}
		mode, filename = args[0], args[1]
	default:
		if len(args) != 1 {
			usage(stderr)
			return 2
		}
	}

	if !strings.HasSuffix(filename, ".bdg") {
		fmt.Fprintf(stderr, "Error: expected a .bdg file, got %q\n", filename)
		return 1
	}
	src, err := os.ReadFile(filename)
	if err != nil {
		fmt.Fprintf(stderr, "Error reading %s: %v\n", filename, err)
		return 1
	}

	switch mode {
	case "compile":
		err = compileSource(cfg, stdout, string(src))
	case "tokens":
		err = dumpTokens(cfg, stdout, string(src))
	default:
		err = compileAndRun(cfg, stdout, filepath.Base(filename), string(src))
	}
	if err != nil {
		reportError(stderr, err, string(src), cfg.Output.ShowSnippet)
		return 1
	}
	return 0
}
