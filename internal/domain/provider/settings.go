package provider

import "strings"

// Settings is a read-only view of configuration values fixed at process start.
type Settings interface {
	Value(key string) string
}

// StaticSettings is an immutable Settings snapshot.
type StaticSettings struct {
	values map[string]string
}

// NewStaticSettings copies values so later mutation of the input is not observed.
func NewStaticSettings(values map[string]string) StaticSettings {
	copied := make(map[string]string, len(values))
	for k, v := range values {
		copied[k] = v
	}
	return StaticSettings{values: copied}
}

func (s StaticSettings) Value(key string) string {
	return s.values[key]
}

// placeholder values shipped in sample env files.
var placeholders = map[string]struct{}{
	"none":     {},
	"changeme": {},
}

// IsPresent reports whether value counts as a configured setting.
func IsPresent(value string) bool {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return false
	}
	_, isPlaceholder := placeholders[strings.ToLower(trimmed)]
	return !isPlaceholder
}
