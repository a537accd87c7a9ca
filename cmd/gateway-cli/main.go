package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "gateway-cli",
		Short: "Operator tooling for the AI gateway",
		Long: `gateway-cli inspects the provider configuration the gateway would start with.

Examples:
  # Which providers are configured in this environment
  gateway-cli providers
  gateway-cli providers chat --format json

  # Provider overrides file
  gateway-cli config schema -o config
  gateway-cli config validate -f config/providers.yml`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newProvidersCmd())
	return rootCmd
}
