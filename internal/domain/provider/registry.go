package provider

import "strings"

// Registry holds the static provider catalog and evaluates configuration
// against a settings snapshot. It is immutable after construction and safe
// for concurrent use.
type Registry struct {
	settings    Settings
	definitions []Definition
	disabled    map[registryKey]struct{}
}

type registryKey struct {
	capability   Capability
	providerType Type
}

// RegistryOption customizes a Registry at construction.
type RegistryOption func(*Registry)

// WithDisabled turns a provider off for one capability regardless of its
// settings.
func WithDisabled(capability Capability, providerType Type) RegistryOption {
	return func(r *Registry) {
		r.disabled[registryKey{capability, providerType}] = struct{}{}
	}
}

// NewRegistry builds a registry over definitions, keeping their order.
func NewRegistry(settings Settings, definitions []Definition, opts ...RegistryOption) *Registry {
	defs := make([]Definition, len(definitions))
	for i, d := range definitions {
		d.RequiredKeys = append([]string(nil), d.RequiredKeys...)
		defs[i] = d
	}
	r := &Registry{
		settings:    settings,
		definitions: defs,
		disabled:    make(map[registryKey]struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Settings returns the snapshot the registry evaluates against.
func (r *Registry) Settings() Settings {
	return r.settings
}

// Definitions returns the definitions of one capability in registration order.
func (r *Registry) Definitions(capability Capability) []Definition {
	out := make([]Definition, 0, len(r.definitions))
	for _, d := range r.definitions {
		if d.Capability == capability {
			out = append(out, d)
		}
	}
	return out
}

// Lookup finds the definition of providerType for capability. Matching is
// case-insensitive on the type name.
func (r *Registry) Lookup(capability Capability, providerType string) (Definition, bool) {
	want := Type(strings.ToLower(strings.TrimSpace(providerType)))
	for _, d := range r.definitions {
		if d.Capability == capability && d.Type == want {
			return d, true
		}
	}
	return Definition{}, false
}

// IsConfigured reports whether every required key of def is present.
// A partially configured provider is not configured.
func (r *Registry) IsConfigured(def Definition) bool {
	if _, off := r.disabled[registryKey{def.Capability, def.Type}]; off {
		return false
	}
	return len(r.MissingKeys(def)) == 0
}

// MissingKeys lists the required keys of def that are absent, in declaration
// order. Only key names are returned, never values.
func (r *Registry) MissingKeys(def Definition) []string {
	var missing []string
	for _, key := range def.RequiredKeys {
		if r.settings == nil || !IsPresent(r.settings.Value(key)) {
			missing = append(missing, key)
		}
	}
	return missing
}

// ConfigurationStatus evaluates every provider of capability against the
// snapshot. It has no side effects.
func (r *Registry) ConfigurationStatus(capability Capability) StatusList {
	defs := r.Definitions(capability)
	descriptors := make([]Descriptor, 0, len(defs))
	for _, d := range defs {
		descriptors = append(descriptors, Descriptor{
			Type:               d.Type,
			Capability:         d.Capability,
			DisplayName:        d.DisplayName,
			RequiredConfigKeys: append([]string(nil), d.RequiredKeys...),
			IsConfigured:       r.IsConfigured(d),
		})
	}
	return NewStatusList(descriptors)
}
