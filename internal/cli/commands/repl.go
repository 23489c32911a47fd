package commands

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/leapstack-labs/leapprose/internal/cli/config"
	"github.com/leapstack-labs/leapprose/internal/cli/output"
	"github.com/leapstack-labs/leapprose/pkg/core"
	"github.com/leapstack-labs/leapprose/pkg/lint"
)

const replPrompt = "leapprose> "

// ReplOptions holds options for the repl command.
type ReplOptions struct {
	Format string
}

// NewReplCommand creates the repl command.
func NewReplCommand() *cobra.Command {
	opts := &ReplOptions{}
	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Lint text interactively",
		Long: `Start an interactive shell. Each line you type is linted as you
enter it. Dot-commands change which checks run for the rest of the session
without touching leapprose.yaml.

History is kept in repl.history_file (default .leapprose_history in the
project root).`,
		Example: `  # Start the shell
  leapprose repl

  # Lint piped lines one by one
  printf 'This is very good.\nA free gift.\n' | leapprose repl`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runREPL(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, markdown, json")
	// Read through the config loader (repl.history_file)
	cmd.Flags().String("history", "", "History file (default .leapprose_history in the project root)")

	return cmd
}

// lineReader is the input side of the shell: readline on a terminal, a
// plain scanner otherwise.
type lineReader interface {
	Readline() (string, error)
	SetPrompt(prompt string)
	Close() error
}

// scanReader reads lines without prompts or history.
type scanReader struct {
	sc *bufio.Scanner
}

func (s *scanReader) Readline() (string, error) {
	if !s.sc.Scan() {
		if err := s.sc.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return s.sc.Text(), nil
}

func (s *scanReader) SetPrompt(string) {}

func (s *scanReader) Close() error { return nil }

// replOp is a session change applied on top of the project configuration.
type replOp struct {
	desc  string
	apply func(*lint.Config)
}

// replSession holds the shell state between lines.
type replSession struct {
	cmdCtx  *CommandContext
	project *config.Config
	engine  *lint.Engine
	ops     []replOp
	logger  *slog.Logger
}

func runREPL(cmd *cobra.Command, opts *ReplOptions) error {
	cmdCtx, err := NewCommandContext(cmd, opts.Format)
	if err != nil {
		return err
	}
	s := &replSession{
		cmdCtx:  cmdCtx,
		project: cmdCtx.Cfg,
		engine:  cmdCtx.Engine,
		logger:  cmdCtx.Logger,
	}

	rl, interactive, err := s.openReader(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = rl.Close() }()

	r := cmdCtx.Renderer
	if interactive {
		r.Println(fmt.Sprintf("LeapProse REPL (%d checks active)", s.engine.Active().Len()))
		r.Println("Type .help for commands, .quit to exit")
		r.Println("")
	}

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, ".") {
			if quit := s.handleDotCommand(line); quit {
				return nil
			}
			continue
		}

		s.lint("<input>", line)
		if interactive {
			r.Println("")
		}
	}
}

// openReader returns readline when stdin is a terminal and a scanner
// otherwise, so piped input and tests work without a TTY.
func (s *replSession) openReader(cmd *cobra.Command) (lineReader, bool, error) {
	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); !ok || !term.IsTerminal(int(f.Fd())) {
		return &scanReader{sc: bufio.NewScanner(in)}, false, nil
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          replPrompt,
		HistoryFile:     s.historyFile(),
		AutoComplete:    s.completer(),
		InterruptPrompt: "^C",
		EOFPrompt:       ".quit",
	})
	if err != nil {
		return nil, false, fmt.Errorf("failed to initialize REPL: %w", err)
	}
	return rl, true, nil
}

// historyFile resolves the configured history file against the project root.
func (s *replSession) historyFile() string {
	path := config.DefaultHistoryFile
	if s.project.Repl != nil && s.project.Repl.HistoryFile != "" {
		path = s.project.Repl.HistoryFile
	}
	if filepath.IsAbs(path) || s.project.ProjectRoot == "" {
		return path
	}
	return filepath.Join(s.project.ProjectRoot, path)
}

func (s *replSession) completer() *readline.PrefixCompleter {
	keys := readline.PcItemDynamic(func(string) []string {
		return s.engine.Registry().Categories()
	})
	return readline.NewPrefixCompleter(
		readline.PcItem(".help"),
		readline.PcItem(".disable", keys),
		readline.PcItem(".enable", keys),
		readline.PcItem(".severity", keys),
		readline.PcItem(".checks", keys),
		readline.PcItem(".file"),
		readline.PcItem(".config"),
		readline.PcItem(".reset"),
		readline.PcItem(".quit"),
		readline.PcItem(".exit"),
	)
}

func (s *replSession) lint(name, text string) {
	res := lintText(s.engine, name, text, core.SeveritySuggestion)
	if err := reportLint(s.cmdCtx.Renderer, []output.LintFileResult{res}); err != nil && !errors.Is(err, errLintIssues) {
		s.logger.Debug("lint failed", "error", err)
	}
}

// handleDotCommand runs one dot-command and reports whether the shell
// should exit.
func (s *replSession) handleDotCommand(line string) bool {
	r := s.cmdCtx.Renderer
	parts := strings.Fields(line)
	command := strings.ToLower(parts[0])
	args := parts[1:]

	switch command {
	case ".quit", ".exit":
		return true

	case ".help":
		printREPLHelp(r)

	case ".disable", ".enable":
		if len(args) == 0 {
			r.Error(fmt.Sprintf("Usage: %s <check-id or prefix>...", command))
			return false
		}
		for _, key := range args {
			if !s.knownKey(key) {
				r.Error(fmt.Sprintf("unknown check or category %q", key))
				return false
			}
		}
		enable := command == ".enable"
		for _, key := range args {
			s.ops = append(s.ops, s.toggle(key, enable))
		}
		s.rebuild()

	case ".severity":
		if len(args) != 2 {
			r.Error("Usage: .severity <check-id or prefix> <error|warning|suggestion>")
			return false
		}
		key := args[0]
		sev, ok := core.ParseSeverity(args[1])
		if !ok {
			r.Error(fmt.Sprintf("invalid severity %q: expected error, warning, or suggestion", args[1]))
			return false
		}
		if !s.isCheckKey(key) {
			r.Error(fmt.Sprintf("unknown check or category %q", key))
			return false
		}
		s.ops = append(s.ops, replOp{
			desc:  fmt.Sprintf("severity %s %s", key, sev),
			apply: func(c *lint.Config) { c.SetSeverity(key, sev) },
		})
		s.rebuild()

	case ".reset":
		s.ops = nil
		s.rebuild()

	case ".config":
		if len(s.ops) == 0 {
			r.Muted("No session changes; using the project configuration")
		}
		for _, op := range s.ops {
			r.Println("  " + op.desc)
		}
		r.Muted(fmt.Sprintf("%d checks active", s.engine.Active().Len()))

	case ".checks":
		ids := s.engine.Active().IDs()
		for _, id := range ids {
			if len(args) > 0 && id != args[0] && !strings.HasPrefix(id, args[0]+".") {
				continue
			}
			r.Println("  " + id)
		}

	case ".file":
		if len(args) != 1 {
			r.Error("Usage: .file <path>")
			return false
		}
		res := lintFile(s.engine, args[0], s.engine.Limits().MaxTextBytes, core.SeveritySuggestion)
		if err := reportLint(r, []output.LintFileResult{res}); err != nil && !errors.Is(err, errLintIssues) {
			s.logger.Debug("lint failed", "path", args[0], "error", err)
		}

	default:
		r.Error(fmt.Sprintf("Unknown command: %s (type .help for commands)", command))
	}
	return false
}

// toggle returns the op enabling or disabling key. Declared meta flags are
// switched through Config.Meta, check IDs and prefixes through Config.Checks.
func (s *replSession) toggle(key string, enable bool) replOp {
	verb := "disable "
	if enable {
		verb = "enable "
	}
	_, isMeta := s.engine.Registry().Meta(key)
	isCheck := s.isCheckKey(key)
	return replOp{
		desc: verb + key,
		apply: func(c *lint.Config) {
			// a disabled category goes through Checks so its checks can be re-enabled one by one
			if isMeta && (enable || !isCheck) {
				if c.Meta == nil {
					c.Meta = make(map[string]bool)
				}
				c.Meta[key] = enable
			}
			if isCheck {
				if enable {
					c.Enable(key)
				} else {
					c.Disable(key)
				}
			}
		},
	}
}

// knownKey reports whether key names a check, a dotted prefix of one, or a
// meta flag.
func (s *replSession) knownKey(key string) bool {
	if _, ok := s.engine.Registry().Meta(key); ok {
		return true
	}
	return s.isCheckKey(key)
}

// isCheckKey reports whether key is a check ID or a dotted prefix of one.
func (s *replSession) isCheckKey(key string) bool {
	for _, id := range s.engine.Registry().IDs() {
		if id == key || strings.HasPrefix(id, key+".") {
			return true
		}
	}
	return false
}

// rebuild applies the session changes to the project configuration and
// swaps in a new engine. Compiled matchers carry over.
func (s *replSession) rebuild() {
	r := s.cmdCtx.Renderer
	lintCfg, err := s.project.Project().Lint.ToLint()
	if err != nil {
		r.Error(err.Error())
		return
	}
	for _, op := range s.ops {
		op.apply(lintCfg)
	}

	s.engine = lint.NewEngine(s.engine.Registry(),
		lint.WithConfig(lintCfg),
		lint.WithLimits(s.engine.Limits()),
		lint.WithCache(s.engine.Cache()),
		lint.WithLogger(s.logger),
	)
	r.Muted(fmt.Sprintf("%d checks active", s.engine.Active().Len()))
}

func printREPLHelp(r *output.Renderer) {
	help := `
Commands:
  .help                     Show this help message
  .disable <key>...         Disable checks by ID, prefix, or meta flag
  .enable <key>...          Enable checks by ID, prefix, or meta flag
  .severity <key> <level>   Override severity (error, warning, suggestion)
  .checks [prefix]          List active checks
  .file <path>              Lint a file
  .config                   Show session changes
  .reset                    Drop session changes
  .quit / .exit             Exit the REPL

Any other line is linted as prose.
`
	r.Println(help)
}

