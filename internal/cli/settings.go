package cli

import (
	"github.com/HartBrook/promptcraft/internal/config"
	"github.com/HartBrook/promptcraft/internal/optimize"
	"github.com/spf13/cobra"
)

// settingsFlags are the generation flags shared by optimize and repl.
type settingsFlags struct {
	model       string
	temperature float64
	count       int
}

func (f *settingsFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.model, "model", "m", "", "Model to use (default from config)")
	cmd.Flags().Float64VarP(&f.temperature, "temperature", "t", config.DefaultTemperature, "Creativity, 0.0-2.0 in steps of 0.1")
	cmd.Flags().IntVarP(&f.count, "count", "n", config.DefaultSuggestions, "Number of optimized prompts, 1-10")
}

// resolve merges explicitly set flags over the config defaults.
func (f *settingsFlags) resolve(cmd *cobra.Command, cfg *config.Config) (optimize.Settings, error) {
	s := optimize.Settings{
		Model:       cfg.Model,
		Temperature: cfg.GenerationTemperature(),
		Count:       cfg.Suggestions,
	}
	if cmd.Flags().Changed("model") {
		s.Model = f.model
	}
	if cmd.Flags().Changed("temperature") {
		s.Temperature = f.temperature
	}
	if cmd.Flags().Changed("count") {
		s.Count = f.count
	}
	if err := cfg.ValidateChoice(s.Model, s.Temperature, s.Count); err != nil {
		return optimize.Settings{}, err
	}
	s.Temperature = optimize.RoundTemperature(s.Temperature)
	return s, nil
}
