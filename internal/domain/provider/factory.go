package provider

import (
	"context"
	"fmt"
	"strings"

	"github.com/janhq/ai-gateway/internal/utils/platformerrors"
)

// Builder creates the client of one provider type from the settings snapshot.
type Builder[C any] func(def Definition, settings Settings) (C, error)

// Factory resolves clients of one capability.
type Factory[C any] struct {
	capability Capability
	registry   *Registry
	builders   map[Type]Builder[C]
	pool       *Pool
}

// NewFactory wires a factory for capability. Every catalog entry of the
// capability should have a builder; a missing builder surfaces as an
// internal error on resolution.
func NewFactory[C any](capability Capability, registry *Registry, pool *Pool, builders map[Type]Builder[C]) *Factory[C] {
	copied := make(map[Type]Builder[C], len(builders))
	for t, b := range builders {
		copied[t] = b
	}
	return &Factory[C]{
		capability: capability,
		registry:   registry,
		builders:   copied,
		pool:       pool,
	}
}

func (f *Factory[C]) Capability() Capability {
	return f.capability
}

// ConfiguredProviders lists every provider of the capability with its
// current status.
func (f *Factory[C]) ConfiguredProviders() StatusList {
	return f.registry.ConfigurationStatus(f.capability)
}

// DefaultProviderType returns the first configured provider in registration
// order. ok is false when nothing is configured.
func (f *Factory[C]) DefaultProviderType() (Type, bool) {
	status := f.ConfiguredProviders()
	if status.DefaultProvider == nil {
		return "", false
	}
	return *status.DefaultProvider, true
}

func (f *Factory[C]) HasAnyConfigured() bool {
	return f.ConfiguredProviders().HasAnyConfigured
}

// ValidateRequested rejects a non-blank provider name that is not part of
// this capability's catalogue. Configuration is not checked here.
func (f *Factory[C]) ValidateRequested(ctx context.Context, requested string) error {
	if strings.TrimSpace(requested) == "" {
		return nil
	}
	if _, ok := f.registry.Lookup(f.capability, requested); !ok {
		return NewUnknownProviderError(ctx, f.capability)
	}
	return nil
}

// ResolveClient returns a handle for requested, or for the default provider
// when requested is blank.
func (f *Factory[C]) ResolveClient(ctx context.Context, requested string) (*Handle[C], error) {
	var def Definition
	if strings.TrimSpace(requested) == "" {
		defaultType, ok := f.DefaultProviderType()
		if !ok {
			return nil, NewNoProviderConfiguredError(ctx, f.capability, f.registry.Definitions(f.capability))
		}
		def, _ = f.registry.Lookup(f.capability, string(defaultType))
	} else {
		found, ok := f.registry.Lookup(f.capability, requested)
		if !ok {
			return nil, NewUnknownProviderError(ctx, f.capability)
		}
		if !f.registry.IsConfigured(found) {
			return nil, NewProviderNotConfiguredError(ctx, found, f.registry.MissingKeys(found))
		}
		def = found
	}

	build, ok := f.builders[def.Type]
	if !ok {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeInternal,
			fmt.Sprintf("no client builder registered for %s provider %s", f.capability, def.Type), nil, "")
	}
	client, err := build(def, f.registry.Settings())
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err,
			fmt.Sprintf("build %s client for %s", f.capability, def.Type))
	}

	return &Handle[C]{
		Type:        def.Type,
		Capability:  def.Capability,
		DisplayName: def.DisplayName,
		Client:      client,
		pool:        f.pool,
	}, nil
}
