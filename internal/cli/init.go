package cli

import (
	"fmt"
	"os"

	"github.com/HartBrook/promptcraft/internal/config"
	"github.com/spf13/cobra"
)

type initOptions struct {
	force  bool
	apiKey string
}

// NewInitCmd creates the init command.
func NewInitCmd(root *rootOptions) *cobra.Command {
	opts := &initOptions{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default configuration file",
		Long: `Creates ~/.config/promptcraft/config.yaml with the default model set,
temperature and number of suggestions.

Pass --api-key to also store your OpenAI API key in secrets.toml next to it.`,
		Example: `  promptcraft init
  promptcraft init --force --api-key sk-...`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(cmd, root, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.force, "force", false, "Overwrite an existing config file")
	cmd.Flags().StringVar(&opts.apiKey, "api-key", "", "Store this API key in the user secrets file")

	return cmd
}

func runInit(cmd *cobra.Command, root *rootOptions, opts *initOptions) error {
	w := cmd.OutOrStdout()
	paths := root.paths()

	if _, err := os.Stat(paths.ConfigFile); err == nil && !opts.force {
		printWarning(w, "Config already exists at %s", paths.ConfigFile)
		fmt.Fprintf(w, "  %s\n", dim("Use --force to overwrite it"))
	} else {
		if err := config.SaveTo(config.Default(), paths.ConfigFile); err != nil {
			return err
		}
		printSuccess(w, "Wrote %s", paths.ConfigFile)
	}

	if opts.apiKey != "" {
		if err := config.SaveSecret(paths.SecretsFile, config.APIKeyName, opts.apiKey); err != nil {
			return err
		}
		printSuccess(w, "Saved %s to %s", config.APIKeyName, paths.SecretsFile)
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Next: %s\n", info(`promptcraft optimize "your prompt"`))
	return nil
}
