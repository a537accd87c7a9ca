package provider

// Descriptor is the public view of one provider variant. IsConfigured is
// derived at query time and never stored.
type Descriptor struct {
	Type               Type       `json:"type"`
	Capability         Capability `json:"capability"`
	DisplayName        string     `json:"displayName"`
	RequiredConfigKeys []string   `json:"requiredConfigKeys"`
	IsConfigured       bool       `json:"isConfigured"`
}

// StatusList is the ordered provider status of one capability.
type StatusList struct {
	Providers        []Descriptor `json:"providers"`
	DefaultProvider  *Type        `json:"defaultProvider"`
	HasAnyConfigured bool         `json:"hasAnyConfigured"`
}

// NewStatusList derives DefaultProvider and HasAnyConfigured from the
// descriptors, keeping their order.
func NewStatusList(descriptors []Descriptor) StatusList {
	list := StatusList{Providers: make([]Descriptor, 0, len(descriptors))}
	for _, d := range descriptors {
		list.Providers = append(list.Providers, d)
		if d.IsConfigured && list.DefaultProvider == nil {
			t := d.Type
			list.DefaultProvider = &t
			list.HasAnyConfigured = true
		}
	}
	return list
}
