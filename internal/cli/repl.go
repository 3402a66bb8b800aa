package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/HartBrook/promptcraft/internal/config"
	"github.com/HartBrook/promptcraft/internal/optimize"
	"github.com/spf13/cobra"
)

// maxLineSize bounds a single REPL input line.
const maxLineSize = 1 << 20

type replOptions struct {
	settings settingsFlags
}

// NewREPLCmd creates the repl command.
func NewREPLCmd(root *rootOptions) *cobra.Command {
	opts := &replOptions{}

	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Optimize prompts interactively",
		Long: `Starts an interactive session.

Type a prompt to optimize it, then pick a result with :select and ask
why it is better with :explain. The session keeps its prompts and
selection until the next optimization.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.loadConfig()
			if err != nil {
				return err
			}
			settings, err := opts.settings.resolve(cmd, cfg)
			if err != nil {
				return err
			}
			optimizer, err := root.newOptimizer(cfg)
			if err != nil {
				return err
			}

			sh := newShell(cmd.InOrStdin(), cmd.OutOrStdout(), cfg, optimizer, settings)
			return sh.run(cmd.Context())
		},
	}

	opts.settings.register(cmd)

	return cmd
}

// shell is the interactive loop behind the repl command.
type shell struct {
	in        io.Reader
	out       io.Writer
	cfg       *config.Config
	optimizer *optimize.Optimizer
	sess      *optimize.Session
	settings  optimize.Settings
	running   bool
}

func newShell(in io.Reader, out io.Writer, cfg *config.Config, optimizer *optimize.Optimizer, settings optimize.Settings) *shell {
	return &shell{
		in:        in,
		out:       out,
		cfg:       cfg,
		optimizer: optimizer,
		sess:      optimize.NewSession(settings),
		settings:  settings,
	}
}

func (s *shell) run(ctx context.Context) error {
	s.running = true
	fmt.Fprintln(s.out, bold("PromptCraft")+" interactive mode")
	fmt.Fprintln(s.out, dim("Type a prompt to optimize it, :help for commands, :quit to exit."))
	fmt.Fprintln(s.out)

	scanner := bufio.NewScanner(s.in)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for s.running {
		fmt.Fprintf(s.out, "promptcraft [%s]> ", info(s.settings.Model))
		if !scanner.Scan() {
			break
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if err := s.execute(ctx, line); err != nil {
			printError(s.out, "%v", err)
		}
	}

	return scanner.Err()
}

func (s *shell) execute(ctx context.Context, line string) error {
	if !strings.HasPrefix(line, ":") {
		s.optimize(ctx, line)
		return nil
	}

	name, arg, _ := strings.Cut(strings.TrimPrefix(line, ":"), " ")
	arg = strings.TrimSpace(arg)

	switch strings.ToLower(name) {
	case "optimize", "o":
		s.optimize(ctx, arg)
	case "select", "s":
		n, err := strconv.Atoi(arg)
		if err != nil {
			return fmt.Errorf("usage: :select <number>")
		}
		out := s.optimizer.SelectIndex(s.sess, n)
		if !out.OK() {
			renderOutcome(s.out, out)
			return nil
		}
		renderPrompts(s.out, out.Snapshot)
	case "explain", "e":
		fmt.Fprintln(s.out, dim("Explaining..."))
		out := s.optimizer.Explain(ctx, s.sess, "", "")
		if !out.OK() {
			renderOutcome(s.out, out)
			return nil
		}
		renderExplanation(s.out, out.Snapshot)
	case "table", "t":
		snap := s.sess.Snapshot()
		if len(snap.Prompts) == 0 {
			printWarning(s.out, "There are no optimized prompts yet.")
			return nil
		}
		renderTable(s.out, snap.Comparison())
	case "model":
		return s.setModel(arg)
	case "temp", "temperature":
		return s.setTemperature(arg)
	case "count", "n":
		return s.setCount(arg)
	case "show":
		s.show()
	case "help", "h", "?":
		s.help()
	case "quit", "exit", "q":
		s.running = false
	default:
		return fmt.Errorf("unknown command: :%s (type :help for available commands)", name)
	}
	return nil
}

func (s *shell) optimize(ctx context.Context, prompt string) {
	fmt.Fprintf(s.out, "%s\n", dim(fmt.Sprintf("Optimizing with %s...", s.settings.Model)))
	out := s.optimizer.Optimize(ctx, s.sess, prompt, s.settings)
	if !out.OK() {
		renderOutcome(s.out, out)
		return
	}
	printSuccess(s.out, "%s", out.Message)
	renderPrompts(s.out, out.Snapshot)
}

func (s *shell) setModel(model string) error {
	if model == "" {
		for _, m := range s.cfg.Models {
			marker := "  "
			if m == s.settings.Model {
				marker = success("▸ ")
			}
			fmt.Fprintf(s.out, "%s%s %s\n", marker, m, dim("("+config.ModelLabel(m)+")"))
		}
		return nil
	}
	return s.apply(optimize.Settings{Model: model, Temperature: s.settings.Temperature, Count: s.settings.Count})
}

func (s *shell) setTemperature(arg string) error {
	t, err := strconv.ParseFloat(arg, 64)
	if err != nil {
		return fmt.Errorf("usage: :temp <0.0-2.0>")
	}
	return s.apply(optimize.Settings{Model: s.settings.Model, Temperature: t, Count: s.settings.Count})
}

func (s *shell) setCount(arg string) error {
	n, err := strconv.Atoi(arg)
	if err != nil {
		return fmt.Errorf("usage: :count <1-10>")
	}
	return s.apply(optimize.Settings{Model: s.settings.Model, Temperature: s.settings.Temperature, Count: n})
}

// apply validates and installs new settings. Prompts and selection are kept.
func (s *shell) apply(settings optimize.Settings) error {
	if err := s.cfg.ValidateChoice(settings.Model, settings.Temperature, settings.Count); err != nil {
		return err
	}
	settings.Temperature = optimize.RoundTemperature(settings.Temperature)
	s.settings = settings
	s.sess.SetSettings(settings)
	printSuccess(s.out, "model %s, temperature %.1f, %d prompts", settings.Model, settings.Temperature, settings.Count)
	return nil
}

func (s *shell) show() {
	snap := s.sess.Snapshot()
	printInfo(s.out, "Model", s.settings.Model)
	printInfo(s.out, "Temperature", fmt.Sprintf("%.1f", s.settings.Temperature))
	printInfo(s.out, "Prompts", strconv.Itoa(s.settings.Count))
	if snap.OriginalPrompt != "" {
		printInfo(s.out, "Original", snap.OriginalPrompt)
	}
	selected := optimize.Placeholder
	if snap.HasSelection() {
		selected = fmt.Sprintf("#%d", snap.SelectedIndex())
	}
	printInfo(s.out, "Selected", selected)
	fmt.Fprintln(s.out)
	renderPrompts(s.out, snap)
	renderExplanation(s.out, snap)
}

func (s *shell) help() {
	fmt.Fprintln(s.out, bold("Commands"))
	for _, line := range [][2]string{
		{"<prompt>", "Optimize the prompt"},
		{":optimize <prompt>", "Same as above"},
		{":select <n>", "Select prompt n (0 clears the selection)"},
		{":explain", "Explain why the selected prompt is better"},
		{":table", "Show the comparison table"},
		{":model [id]", "List models or switch model"},
		{":temp <t>", "Set temperature (0.0-2.0)"},
		{":count <n>", "Set the number of prompts (1-10)"},
		{":show", "Show the session state"},
		{":quit", "Exit"},
	} {
		fmt.Fprintf(s.out, "  %-20s %s\n", line[0], dim(line[1]))
	}
}
