// Motectl is a companion utility for Mote devices and their relay gateway.
//
// It provides device discovery, first-time device setup over the device's
// configuration hotspot, and a persistent bridge connection to the cloud
// gateway for remote control. Device setup communicates with the device
// over a local WebSocket and does not require hardware modification.
//
// Usage:
//
//	motectl [command] [flags]
//
// Running without arguments launches the interactive setup wizard.
// See 'motectl --help' for available commands.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nebaura-labs/motectl/internal/logging"
	"github.com/nebaura-labs/motectl/internal/version"
)

func main() {
	if err := logging.InitializeFromEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logging: %v\n", err)
	}
	defer logging.Sync()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "motectl",
	Short: "Mote Device Companion Utility",
	Long: `A companion utility for Mote devices and their relay gateway.

Provides device discovery, first-time setup over the device's
configuration hotspot, and a persistent bridge connection to the
cloud gateway for remote control.

If no command is specified, the interactive setup wizard will launch
automatically.`,
	Version: version.Version,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Default behavior: run setup wizard when no subcommand provided
		return runSetup(cmd, args)
	},
}

func init() {
	// Disable automatic completion command generation
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("motectl %s\n", version.Full())
	},
}
