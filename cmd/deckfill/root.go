package main

import (
	"github.com/spf13/cobra"

	"github.com/sant0-9/deckfill/internal/config"
)

var (
	cfgPath  string
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:   "deckfill",
	Short: "Fill a Google Slides template with AI-written content",
	Long: `deckfill reads the structure of a Google Slides template, asks a language
model to map your content onto its text boxes, and writes the result back.

Open the panel on a presentation with:

  deckfill open https://docs.google.com/presentation/d/<id>/edit`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if cfgPath != "" {
			config.SetPath(cfgPath)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "config file (default ~/.config/deckfill/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error (default from config)")
}

// loadConfig returns the stored config, or defaults when none is written yet.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return cfg, nil
}
