package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/HartBrook/promptcraft/internal/errors"
	"github.com/HartBrook/promptcraft/internal/optimize"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

type optimizeOptions struct {
	settings settingsFlags
	explain  int
	noTable  bool
}

// NewOptimizeCmd creates the optimize command.
func NewOptimizeCmd(root *rootOptions) *cobra.Command {
	opts := &optimizeOptions{}

	cmd := &cobra.Command{
		Use:   "optimize [prompt]",
		Short: "Generate optimized versions of a prompt",
		Long: `Sends a prompt to the configured chat model and prints a numbered list
of optimized rewrites followed by a comparison table.

The prompt is read from standard input when no argument is given.
Use --explain to pick one of the results and ask why it is better.`,
		Example: `  promptcraft optimize "Write a poem about the sea"
  promptcraft optimize -m gpt-4 -t 0.2 -n 3 "Summarize this article"
  echo "Explain recursion" | promptcraft optimize --explain 1`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOptimize(cmd, root, opts, args)
		},
	}

	opts.settings.register(cmd)
	cmd.Flags().IntVar(&opts.explain, "explain", 0, "Select prompt N and explain why it is better")
	cmd.Flags().BoolVar(&opts.noTable, "no-table", false, "Skip the comparison table")

	return cmd
}

func runOptimize(cmd *cobra.Command, root *rootOptions, opts *optimizeOptions, args []string) error {
	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}

	settings, err := opts.settings.resolve(cmd, cfg)
	if err != nil {
		return err
	}

	prompt, err := promptInput(cmd.InOrStdin(), args)
	if err != nil {
		return err
	}

	optimizer, err := root.newOptimizer(cfg)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	sess := optimize.NewSession(settings)

	out := optimizer.Optimize(cmd.Context(), sess, prompt, settings)
	if !out.OK() {
		return out.Err
	}

	printSuccess(w, "%s", out.Message)
	printInfo(w, "Model", settings.Model)
	fmt.Fprintln(w)
	renderPrompts(w, out.Snapshot)

	if !opts.noTable {
		fmt.Fprintln(w)
		renderTable(w, out.Snapshot.Comparison())
	}

	if opts.explain == 0 {
		return nil
	}

	if out = optimizer.SelectIndex(sess, opts.explain); !out.OK() {
		return errors.New(errors.ErrNoSelection, out.Message, "Pass a number from the list to --explain")
	}
	if out = optimizer.Explain(cmd.Context(), sess, "", ""); !out.OK() {
		return out.Err
	}

	fmt.Fprintln(w)
	renderExplanation(w, out.Snapshot)
	return nil
}

// promptInput returns the prompt argument, or reads it from in when none was given.
func promptInput(in io.Reader, args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}

	if f, ok := in.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		return "", errors.New(errors.ErrEmptyInput, "no prompt given", "Pass the prompt as an argument or pipe it on stdin")
	}

	data, err := io.ReadAll(in)
	if err != nil {
		return "", errors.Wrap(errors.ErrEmptyInput, "failed to read prompt from stdin", "", err)
	}
	return strings.TrimRight(string(data), "\r\n"), nil
}
