package cli

import (
	"fmt"

	"github.com/HartBrook/promptcraft/internal/config"
	"github.com/spf13/cobra"
)

// NewModelsCmd creates the models command.
func NewModelsCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List the selectable chat models",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.loadConfig()
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			for _, m := range cfg.Models {
				if m == cfg.Model {
					fmt.Fprintf(w, "%s %-22s %s %s\n", success("▸"), m, config.ModelLabel(m), warning("(default)"))
					continue
				}
				fmt.Fprintf(w, "  %-22s %s\n", m, dim(config.ModelLabel(m)))
			}
			return nil
		},
	}
}
