package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/mPokornyETM/oaprojects/cmd"
	"github.com/mPokornyETM/oaprojects/cmd/config"
	"github.com/mPokornyETM/oaprojects/pkg/service"
)

var svc *service.Service

func main() {
	rootCmd := &cobra.Command{
		Use:           "oaprojects",
		Short:         "Browse WinCC OA projects on this machine",
		Long: `oaprojects reads the WinCC OA installation registry, scans the
configured search roots for unregistered projects and presents the
result as a categorized, filterable inventory.`,
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	config.AddGlobalFlags(rootCmd)

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		// This runs once before any subcommand
		config.InitConfig()
		svc = config.InitService()
		return nil
	}

	// Add subcommands
	rootCmd.AddCommand(cmd.NewListCmd(&svc))
	rootCmd.AddCommand(cmd.NewTreeCmd(&svc))
	rootCmd.AddCommand(cmd.NewVersionsCmd(&svc))
	rootCmd.AddCommand(cmd.NewDoctorCmd(&svc))
	rootCmd.AddCommand(cmd.NewWatchCmd(&svc))
	rootCmd.AddCommand(cmd.NewBrowseCmd(&svc))
	rootCmd.AddCommand(cmd.NewVersionCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
