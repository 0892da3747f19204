package main

import (
	"os"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/sant0-9/deckfill/internal/config"
)

var providersCmd = &cobra.Command{
	Use:     "providers",
	Aliases: []string{"models"},
	Short:   "List supported AI providers and their models",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		table := tablewriter.NewWriter(os.Stdout)
		table.SetAutoWrapText(false)
		table.SetHeader([]string{"ID", "Name", "Default model", "API key"})

		for _, p := range config.Providers {
			id := p.ID
			if p.ID == cfg.Provider {
				id = color.New(color.Bold, color.FgHiGreen).Sprint(p.ID)
			}
			needsKey := "no"
			if p.NeedsAPIKey {
				needsKey = "yes"
			}
			table.Append([]string{id, p.Name, p.DefaultModel, needsKey})
		}
		table.Render()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(providersCmd)
}
