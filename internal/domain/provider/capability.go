package provider

import "strings"

// Capability is a category of AI function served by interchangeable providers.
type Capability string

const (
	CapabilityChat   Capability = "chat"
	CapabilityImage  Capability = "image"
	CapabilitySpeech Capability = "speech"
)

// Capabilities lists every capability in a stable order.
func Capabilities() []Capability {
	return []Capability{CapabilityChat, CapabilityImage, CapabilitySpeech}
}

// ParseCapability resolves a raw path or body value.
func ParseCapability(raw string) (Capability, bool) {
	c := Capability(strings.ToLower(strings.TrimSpace(raw)))
	switch c {
	case CapabilityChat, CapabilityImage, CapabilitySpeech:
		return c, true
	}
	return "", false
}
