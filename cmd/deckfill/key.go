package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/sant0-9/deckfill/internal/bridge"
	"github.com/sant0-9/deckfill/internal/config"
)

var keyCmd = &cobra.Command{
	Use:   "key",
	Short: "Manage the AI provider API key",
}

var keySetCmd = &cobra.Command{
	Use:   "set <api-key>",
	Short: "Save the API key",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if err := config.NewCredentialStore(cfg).Set(args[0]); err != nil {
			return err
		}
		saved := color.New(color.Bold, color.FgHiGreen).Sprint("API key saved.")

		if err := bridge.PushCredential(cmd.Context(), cfg.Host.ListenAddr, strings.TrimSpace(args[0])); err != nil {
			fmt.Println(saved, "No open panel took it; panels opened from now on will use it.")
			return nil
		}
		fmt.Println(saved, "The open panel uses it from the next generate.")
		return nil
	},
}

var keyShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the masked API key",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		name := cfg.Provider
		if p := config.GetProvider(cfg.Provider); p != nil {
			name = p.Name
		}
		fmt.Printf("%s %s\n", color.New(color.Bold).Sprint("Provider:"), name)
		masked := cfg.MaskedKey()
		if cfg.Key() == "" && cfg.NeedsAPIKey() {
			masked = color.New(color.FgHiYellow).Sprint(masked)
		}
		fmt.Printf("%s %s\n", color.New(color.Bold).Sprint("API key: "), masked)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(keyCmd)
	keyCmd.AddCommand(keySetCmd)
	keyCmd.AddCommand(keyShowCmd)
}
