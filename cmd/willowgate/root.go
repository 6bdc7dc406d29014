package main

import (
	"github.com/spf13/cobra"
)

// Global flags available to all subcommands.
var configFile string

// NewRootCmd creates the root command for the Willowgate CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "willowgate",
		Short: "Willowgate - A town facility server",
		Long: `Willowgate runs a town of adventurer facilities (guild, inn, shop,
temple, magic guild) behind a TCP line protocol. Each connection gets its
own party and walks the town's confirm-then-execute service flow.`,
	}

	// Global flag for config file path
	cmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path")

	// Add subcommands
	cmd.AddCommand(NewTownCmd())
	cmd.AddCommand(NewValidateCatalogsCmd())

	return cmd
}
