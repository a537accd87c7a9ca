package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/janhq/ai-gateway/internal/config"
	"github.com/janhq/ai-gateway/internal/domain/provider"
	"github.com/janhq/ai-gateway/internal/infrastructure"
)

func newProvidersCmd() *cobra.Command {
	providersCmd := &cobra.Command{
		Use:   "providers [capability]",
		Short: "Show which providers are configured in the current environment",
		Long: `Loads configuration exactly like the gateway (environment, .env files and
PROVIDER_CONFIG_FILE) and prints the provider status per capability.
Credential values are never printed.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runProviders,
	}
	providersCmd.Flags().String("format", "table", "Output format: table, json")
	return providersCmd
}

func runProviders(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")

	capabilities := provider.Capabilities()
	if len(args) == 1 {
		capability, ok := provider.ParseCapability(args[0])
		if !ok {
			return fmt.Errorf("unknown capability %q", args[0])
		}
		capabilities = []provider.Capability{capability}
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	registry := infrastructure.ProvideRegistry(cfg, zerolog.Nop())

	statuses := make(map[provider.Capability]provider.StatusList, len(capabilities))
	for _, capability := range capabilities {
		statuses[capability] = registry.ConfigurationStatus(capability)
	}

	switch format {
	case "json":
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(statuses)
	case "table":
		return writeProviderTable(cmd, capabilities, statuses)
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
}

func writeProviderTable(cmd *cobra.Command, capabilities []provider.Capability, statuses map[provider.Capability]provider.StatusList) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "CAPABILITY\tPROVIDER\tCONFIGURED\tDEFAULT\tREQUIRED KEYS")
	for _, capability := range capabilities {
		status := statuses[capability]
		for _, d := range status.Providers {
			isDefault := status.DefaultProvider != nil && *status.DefaultProvider == d.Type
			fmt.Fprintf(w, "%s\t%s\t%t\t%t\t%s\n",
				capability, d.Type, d.IsConfigured, isDefault, strings.Join(d.RequiredConfigKeys, ","))
		}
	}
	return w.Flush()
}
