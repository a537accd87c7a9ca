package provider

import (
	"context"
	"fmt"

	"github.com/janhq/ai-gateway/internal/utils/platformerrors"
)

const restartInstruction = "Restart the gateway after updating its environment."

// NewNoProviderConfiguredError builds the setup-required failure for a
// capability, listing which keys would enable each provider.
func NewNoProviderConfiguredError(ctx context.Context, capability Capability, defs []Definition) *platformerrors.PlatformError {
	steps := make([]string, 0, len(defs)+1)
	for _, d := range defs {
		steps = append(steps, enableInstruction(d, d.RequiredKeys))
	}
	steps = append(steps, restartInstruction)

	return platformerrors.NewErrorWithContext(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeNoProviderConfigured,
		fmt.Sprintf("no %s provider configured", capability), nil, "3a1f5e0b-7d2c-4a8e-9f61-0c4b2d8e7a15",
		map[string]any{"capability": string(capability)}).
		WithInstructions(steps...)
}

// NewProviderNotConfiguredError reports an explicitly requested provider whose
// settings are incomplete.
func NewProviderNotConfiguredError(ctx context.Context, def Definition, missing []string) *platformerrors.PlatformError {
	return platformerrors.NewErrorWithContext(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeProviderNotConfigured,
		fmt.Sprintf("%s provider %s is not configured", def.Capability, def.Type), nil, "b84c2e9d-1f3a-4c7b-8e05-6a9d3f2c1e70",
		map[string]any{"capability": string(def.Capability), "provider": string(def.Type), "missing_keys": missing}).
		WithInstructions(enableInstruction(def, missing), restartInstruction)
}

// NewUnknownProviderError reports a provider name outside the catalog.
func NewUnknownProviderError(ctx context.Context, capability Capability) *platformerrors.PlatformError {
	return platformerrors.NewValidationError(ctx, "provider",
		fmt.Sprintf("provider is not a known %s provider", capability), "e27b6d14-5c90-4f3e-a8b1-9d0c7e4f2a63")
}

func enableInstruction(def Definition, keys []string) string {
	if len(keys) == 1 {
		return fmt.Sprintf("Set %s to enable %s.", keys[0], def.DisplayName)
	}
	list := ""
	for i, k := range keys {
		switch {
		case i == 0:
			list = k
		case i == len(keys)-1:
			list += " and " + k
		default:
			list += ", " + k
		}
	}
	return fmt.Sprintf("Set %s to enable %s.", list, def.DisplayName)
}
