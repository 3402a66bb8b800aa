// Package cli implements the promptcraft command-line interface.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/HartBrook/promptcraft/internal/config"
	"github.com/HartBrook/promptcraft/internal/errors"
	"github.com/HartBrook/promptcraft/internal/llm"
	"github.com/HartBrook/promptcraft/internal/optimize"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	// Version is set at build time.
	Version = "dev"

	// Output helpers.
	successIcon = color.New(color.FgGreen).Sprint("✓")
	warningIcon = color.New(color.FgYellow).Sprint("⚠")
	errorIcon   = color.New(color.FgRed).Sprint("✗")

	success = color.New(color.FgGreen).SprintFunc()
	warning = color.New(color.FgYellow).SprintFunc()
	info    = color.New(color.FgCyan).SprintFunc()
	dim     = color.New(color.Faint).SprintFunc()
	bold    = color.New(color.Bold).SprintFunc()
)

// rootOptions are shared by every subcommand.
type rootOptions struct {
	configPath string

	// backend replaces the OpenAI client; set by tests.
	backend llm.Backend
}

// NewRootCmd creates the root command.
func NewRootCmd() *cobra.Command {
	return newRootCmd(&rootOptions{})
}

func newRootCmd(opts *rootOptions) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "promptcraft",
		Short: "Auto prompt optimizer",
		Long: `PromptCraft crafts high-quality prompts.

It sends your prompt to a chat model, shows a list of optimized rewrites,
lets you pick the best one and explains why it is more effective.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "Config file (default ~/.config/promptcraft/config.yaml)")

	// Add subcommands
	rootCmd.AddCommand(NewOptimizeCmd(opts))
	rootCmd.AddCommand(NewREPLCmd(opts))
	rootCmd.AddCommand(NewServeCmd(opts))
	rootCmd.AddCommand(NewModelsCmd(opts))
	rootCmd.AddCommand(NewInitCmd(opts))
	rootCmd.AddCommand(NewVersionCmd())

	return rootCmd
}

// NewVersionCmd creates the version command.
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "promptcraft %s\n", Version)
		},
	}
}

// Execute runs the CLI.
func Execute() error {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		// Print error with hint if available
		fmt.Fprintf(os.Stderr, "%s %s\n", errorIcon, err.Error())
		if hint := errors.HintOf(err); hint != "" {
			fmt.Fprintf(os.Stderr, "  %s\n", dim(hint))
		}
		return err
	}
	return nil
}

// paths returns the filesystem paths, honoring --config.
func (o *rootOptions) paths() *config.Paths {
	paths := config.NewPaths()
	if o.configPath != "" {
		paths.ConfigFile = o.configPath
	}
	return paths
}

// loadConfig reads the config file, falling back to defaults when it does not exist.
func (o *rootOptions) loadConfig() (*config.Config, error) {
	return config.LoadOrDefault(o.paths().ConfigFile)
}

// newOptimizer wires the text generation backend described by cfg.
func (o *rootOptions) newOptimizer(cfg *config.Config) (*optimize.Optimizer, error) {
	if o.backend != nil {
		return optimize.NewOptimizer(o.backend), nil
	}

	cwd, _ := os.Getwd()
	apiKey, err := config.ResolveAPIKey(config.ProjectSecretsFile(cwd), o.paths().SecretsFile)
	if err != nil {
		return nil, err
	}

	clientOpts := []llm.ClientOption{llm.WithTimeout(cfg.API.TimeoutDuration())}
	if cfg.API.BaseURL != "" {
		clientOpts = append(clientOpts, llm.WithBaseURL(cfg.API.BaseURL))
	}
	if cfg.API.Organization != "" {
		clientOpts = append(clientOpts, llm.WithOrganization(cfg.API.Organization))
	}

	return optimize.NewOptimizer(llm.NewClient(apiKey, clientOpts...)), nil
}

// printSuccess prints a success message.
func printSuccess(w io.Writer, format string, args ...interface{}) {
	fmt.Fprintf(w, "%s %s\n", successIcon, fmt.Sprintf(format, args...))
}

// printWarning prints a warning message.
func printWarning(w io.Writer, format string, args ...interface{}) {
	fmt.Fprintf(w, "%s %s\n", warningIcon, fmt.Sprintf(format, args...))
}

// printError prints an error message.
func printError(w io.Writer, format string, args ...interface{}) {
	fmt.Fprintf(w, "%s %s\n", errorIcon, fmt.Sprintf(format, args...))
}

// printInfo prints an info line.
func printInfo(w io.Writer, label, value string) {
	fmt.Fprintf(w, "  %s: %s\n", dim(label), value)
}
