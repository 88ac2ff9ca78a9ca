package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"badger/interpreter"

	"gopkg.in/yaml.v3"
)

const (
	defaultConfigFile = "badger.yaml"
	configEnv         = "BADGER_CONFIG"
)

// Config mirrors badger.yaml. Keys left out of the file keep their defaults.
type Config struct {
	Interpreter InterpreterConfig `yaml:"interpreter"`
	REPL        REPLConfig        `yaml:"repl"`
	Output      OutputConfig      `yaml:"output"`
}

type InterpreterConfig struct {
	MaxScopeDepth int  `yaml:"max_scope_depth"`
	MaxCallDepth  int  `yaml:"max_call_depth"`
	EchoReturns   bool `yaml:"echo_returns"`
	StrictLexer   bool `yaml:"strict_lexer"`
}

type REPLConfig struct {
	Prompt      string `yaml:"prompt"`
	HistoryFile string `yaml:"history_file"`
}

type OutputConfig struct {
	ShowSnippet bool `yaml:"show_snippet"`
}

func defaultConfig() Config {
	history := ""
	if home, err := os.UserHomeDir(); err == nil && home != "" {
		history = filepath.Join(home, ".badger_history")
	}
	return Config{
		Interpreter: InterpreterConfig{
			MaxScopeDepth: interpreter.DefaultMaxScopeDepth,
			MaxCallDepth:  interpreter.DefaultMaxCallDepth,
			EchoReturns:   true,
		},
		REPL: REPLConfig{
			Prompt:      "badger",
			HistoryFile: history,
		},
		Output: OutputConfig{ShowSnippet: true},
	}
}

// loadConfig reads the explicit path if given, else $BADGER_CONFIG, else
// ./badger.yaml. Only the last one may be absent.
func loadConfig(explicit string) (Config, error) {
	path := explicit
	if path == "" {
		path = os.Getenv(configEnv)
	}
	if path == "" {
		if _, err := os.Stat(defaultConfigFile); err != nil {
			return defaultConfig(), nil
		}
		path = defaultConfigFile
	}

	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: open %s: %w", path, err)
	}
	defer f.Close()
	return parseConfig(f, path)
}

func parseConfig(r io.Reader, name string) (Config, error) {
	cfg := defaultConfig()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return defaultConfig(), nil
		}
		return Config{}, fmt.Errorf("config: parse %s: %w", name, err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("config: %s: %w", name, err)
	}
	cfg.REPL.HistoryFile = expandHome(cfg.REPL.HistoryFile)
	return cfg, nil
}

func (c Config) validate() error {
	var issues []string
	if c.Interpreter.MaxScopeDepth <= 0 {
		issues = append(issues, "interpreter.max_scope_depth must be positive")
	}
	if c.Interpreter.MaxCallDepth <= 0 {
		issues = append(issues, "interpreter.max_call_depth must be positive")
	}
	if len(issues) > 0 {
		return errors.New(strings.Join(issues, "; "))
	}
	return nil
}

// options translates the interpreter section into constructor options.
func (c Config) options(extra ...interpreter.Option) []interpreter.Option {
	opts := []interpreter.Option{
		interpreter.WithMaxScopeDepth(c.Interpreter.MaxScopeDepth),
		interpreter.WithMaxCallDepth(c.Interpreter.MaxCallDepth),
		interpreter.WithEchoReturns(c.Interpreter.EchoReturns),
		interpreter.WithStrictLexer(c.Interpreter.StrictLexer),
	}
	return append(opts, extra...)
}

func expandHome(p string) string {
	if !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return p
	}
	return filepath.Join(home, p[2:])
}

// splitConfigFlag pulls "-config path" or "-config=path" (one or two dashes)
// out of args and returns the remaining arguments in order.
func splitConfigFlag(args []string) (string, []string, error) {
	path := ""
	rest := make([]string, 0, len(args))
	for idx := 0; idx < len(args); idx++ {
		a := args[idx]
		name := strings.TrimLeft(a, "-")
		if a == name {
			rest = append(rest, a)
			continue
		}
		switch {
		case name == "config":
			if idx+1 >= len(args) {
				return "", nil, fmt.Errorf("flag %s needs a path", a)
			}
			path = args[idx+1]
			idx++
		case strings.HasPrefix(name, "config="):
			path = strings.TrimPrefix(name, "config=")
		default:
			rest = append(rest, a)
		}
	}
	return path, rest, nil
}
