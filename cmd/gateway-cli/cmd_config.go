package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/janhq/ai-gateway/internal/config"
)

func newConfigCmd() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Provider overrides file commands",
	}

	schemaCmd := &cobra.Command{
		Use:   "schema",
		Short: "Write the JSON Schema of the provider overrides file",
		Args:  cobra.NoArgs,
		RunE:  runConfigSchema,
	}
	schemaCmd.Flags().StringP("output", "o", "config", "Output directory for the schema")

	validateCmd := &cobra.Command{
		Use:   "validate",
		Short: "Parse a provider overrides file the way the gateway does",
		Args:  cobra.NoArgs,
		RunE:  runConfigValidate,
	}
	validateCmd.Flags().StringP("file", "f", "config/providers.yml", "Provider overrides file to validate")

	configCmd.AddCommand(schemaCmd)
	configCmd.AddCommand(validateCmd)
	return configCmd
}

func runConfigSchema(cmd *cobra.Command, args []string) error {
	outputDir, _ := cmd.Flags().GetString("output")

	path, err := config.WriteProviderOverridesSchema(outputDir)
	if err != nil {
		return fmt.Errorf("generate schema: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Generated %s\n", path)
	return nil
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	file, _ := cmd.Flags().GetString("file")
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "Validating %s\n", file)
	overrides, err := config.LoadProviderOverrides(file)
	if err != nil {
		return err
	}

	types := overrides.Types()
	sort.Strings(types)
	for _, t := range types {
		entry, _ := overrides.Get(t)
		fmt.Fprintf(out, "  %-12s enabled=%t max_concurrency=%d disabled=%v\n",
			t, entry.Enabled, entry.MaxConcurrency, entry.DisabledCapabilities)
	}
	fmt.Fprintf(out, "Provider overrides file is valid (%d providers)\n", len(types))
	return nil
}
