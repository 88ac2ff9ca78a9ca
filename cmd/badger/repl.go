package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"badger/interpreter"

	"github.com/chzyer/readline"
)

func runREPL(cfg Config) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:                 replPrompt(cfg, 0),
		HistoryFile:            cfg.REPL.HistoryFile,
		InterruptPrompt:        "^C",
		EOFPrompt:              "exit",
		HistorySearchFold:      true,
		DisableAutoSaveHistory: false,
	})
	if err != nil {
		return err
	}
	defer rl.Close()

	fmt.Println("Badger REPL. :help for commands, :quit to exit.")
	fmt.Println("Multi-line input continues until every '{' is closed.")
	fmt.Println("Paste Mode: type :paste, then end with '.' or :endpaste")
	fmt.Println()

	// One interpreter for the whole session, so declarations persist.
	session := interpreter.New(cfg.options(interpreter.WithOutput(rl.Stdout()))...)
	r := &repl{cfg: cfg, session: session, stderr: rl.Stderr()}

	for {
		if r.pasteMode {
			rl.SetPrompt(pastePrompt(cfg))
		} else {
			rl.SetPrompt(replPrompt(cfg, r.depth))
		}

		line, err := rl.Readline()

		// Ctrl+C
		if err == readline.ErrInterrupt {
			if r.pasteMode {
				r.pasteMode = false
				r.pasteBuf.Reset()
				fmt.Println("^C (paste cancelled)")
				continue
			}
			if r.buf.Len() > 0 || r.depth > 0 {
				r.buf.Reset()
				r.depth = 0
				fmt.Println("^C (buffer cleared)")
			}
			continue
		}

		// Ctrl+D
		if err == io.EOF {
			fmt.Println()
			return nil
		}
		if err != nil {
			return err
		}

		if quit := r.feed(line); quit {
			return nil
		}
	}
}

type repl struct {
	cfg     Config
	session *interpreter.Interpreter
	stderr  io.Writer

	buf   strings.Builder
	depth int
	chunk int

	pasteMode bool
	pasteBuf  strings.Builder
}

// feed handles one input line. It reports whether the session should end.
func (r *repl) feed(line string) bool {
	trim := strings.TrimSpace(line)

	if r.pasteMode {
		switch trim {
		case ".", ":endpaste":
			src := r.pasteBuf.String()
			r.pasteBuf.Reset()
			r.pasteMode = false
			if strings.TrimSpace(src) == "" {
				fmt.Println("(paste buffer empty)")
				return false
			}
			r.eval(src)
		case ":cancel":
			r.pasteBuf.Reset()
			r.pasteMode = false
			fmt.Println("(paste cancelled)")
		default:
			r.pasteBuf.WriteString(line)
			r.pasteBuf.WriteString("\n")
		}
		return false
	}

	// Commands only when not buffering a block.
	if r.depth == 0 && r.buf.Len() == 0 && strings.HasPrefix(trim, ":") {
		quit, err := r.command(trim)
		if err != nil {
			fmt.Fprintln(r.stderr, err.Error())
		}
		return quit
	}

	r.buf.WriteString(line)
	r.buf.WriteString("\n")
	r.depth = updateDepth(r.depth, line)
	if r.depth > 0 {
		return false
	}

	src := r.buf.String()
	r.buf.Reset()
	if strings.TrimSpace(src) != "" {
		r.eval(src)
	}
	return false
}

func (r *repl) eval(src string) {
	r.chunk++
	if err := compileAndRunWith(r.session, fmt.Sprintf("<repl:%d>", r.chunk), src); err != nil {
		reportError(r.stderr, err, src, r.cfg.Output.ShowSnippet)
	}
}

func replPrompt(cfg Config, depth int) string {
	if depth > 0 {
		return strings.Repeat(".", len(cfg.REPL.Prompt)) + "> "
	}
	return cfg.REPL.Prompt + "> "
}

func pastePrompt(cfg Config) string {
	return "paste[" + cfg.REPL.Prompt + "]> "
}

func (r *repl) command(cmd string) (bool, error) {
	switch {
	case cmd == ":q" || cmd == ":quit" || cmd == ":exit":
		return true, nil

	case cmd == ":h" || cmd == ":help":
		fmt.Println("Commands:")
		fmt.Println("  :help              Show this help")
		fmt.Println("  :quit              Exit the REPL")
		fmt.Println("  :pwd               Print current directory")
		fmt.Println("  :cd <dir>          Change directory")
		fmt.Println("  :load <file>       Run a .bdg file inside this session")
		fmt.Println("  :reset             Clear buffered multi-line input")
		fmt.Println("  :reset session     Forget every variable and function")
		fmt.Println("  :clear             Clear the screen")
		fmt.Println("  :paste             Start paste mode (end with '.' or :endpaste)")
		fmt.Println("  :vars              Show global variables")
		fmt.Println("  :funcs             Show user-defined functions")
		fmt.Println()
		fmt.Println("Paste mode controls:")
		fmt.Println("  .                  End + run pasted program")
		fmt.Println("  :endpaste          End + run pasted program")
		fmt.Println("  :cancel            Cancel paste without running")
		return false, nil

	case cmd == ":pwd":
		cwd, err := os.Getwd()
		if err != nil {
			return false, err
		}
		fmt.Println(cwd)
		return false, nil

	case strings.HasPrefix(cmd, ":cd"):
		dir := strings.TrimSpace(strings.TrimPrefix(cmd, ":cd"))
		if dir == "" {
			return false, fmt.Errorf("Usage: :cd <dir>")
		}
		return false, os.Chdir(dir)

	case strings.HasPrefix(cmd, ":load"):
		path := strings.TrimSpace(strings.TrimPrefix(cmd, ":load"))
		if path == "" {
			return false, fmt.Errorf("Usage: :load <file.bdg>")
		}
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
		b, err := os.ReadFile(path)
		if err != nil {
			return false, fmt.Errorf("Failed to read %s: %s", path, err.Error())
		}
		if err := compileAndRunWith(r.session, filepath.Base(path), string(b)); err != nil {
			reportError(r.stderr, err, string(b), r.cfg.Output.ShowSnippet)
		}
		return false, nil

	case cmd == ":reset":
		r.buf.Reset()
		r.depth = 0
		fmt.Println("(buffer cleared)")
		return false, nil

	case cmd == ":reset session":
		r.buf.Reset()
		r.depth = 0
		r.session.Reset()
		fmt.Println("(session cleared)")
		return false, nil

	case cmd == ":clear":
		fmt.Print("\033[2J\033[H")
		return false, nil

	case cmd == ":paste":
		r.buf.Reset()
		r.depth = 0
		r.pasteBuf.Reset()
		r.pasteMode = true
		fmt.Println("(paste mode: end with '.' or :endpaste, cancel with :cancel)")
		return false, nil

	case cmd == ":vars":
		names := r.session.VarNames()
		if len(names) == 0 {
			fmt.Println("(no globals)")
			return false, nil
		}
		globs := r.session.Globals()
		for _, k := range names {
			fmt.Printf("%s %s = %s\n", globs[k].TypeName(), k, display(globs[k]))
		}
		return false, nil

	case cmd == ":funcs":
		names := r.session.FuncNames()
		if len(names) == 0 {
			fmt.Println("(no user functions)")
			return false, nil
		}
		globs := r.session.Globals()
		for _, n := range names {
			fmt.Printf("%s(%s)\n", n, strings.Join(globs[n].Fn.Fn.Params, ", "))
		}
		return false, nil

	default:
		fmt.Println("Unknown command. Try :help")
		return false, nil
	}
}

func display(v interpreter.Value) string {
	if v.Kind == interpreter.ValString {
		return fmt.Sprintf("%q", v.Str)
	}
	return v.ToString()
}

// updateDepth adds the braces opened on line and subtracts those closed,
// ignoring braces inside string literals and '#' comments.
func updateDepth(depth int, line string) int {
	inString := false
	for idx := 0; idx < len(line); idx++ {
		ch := line[idx]
		if inString {
			switch ch {
			case '\\':
				idx++
			case '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '#':
			return clampDepth(depth)
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
		}
	}
	return clampDepth(depth)
}

func clampDepth(depth int) int {
	if depth < 0 {
		return 0
	}
	return depth
}
