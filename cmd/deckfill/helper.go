package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sant0-9/deckfill/internal/bridge"
	"github.com/sant0-9/deckfill/internal/config"
)

var helperCmd = &cobra.Command{
	Use:   "helper",
	Short: "Print the script to run in the Slides tab",
	Long: `Prints the page helper. Paste it into the developer console of the Google
Slides tab (or save it as a bookmarklet) so the panel can read and write the
presentation through the page.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if addr := cfg.Host.ListenAddr; addr != config.DefaultConfig().Host.ListenAddr {
			fmt.Printf("window.DECKFILL_BRIDGE = 'ws://%s';\n", addr)
		}
		fmt.Print(bridge.HelperScript)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(helperCmd)
}
