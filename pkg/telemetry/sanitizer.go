// Package telemetry redacts user content before it reaches logs and spans.
package telemetry

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"regexp"
	"unicode/utf8"
)

// PIILevel defines how much user content survives in diagnostics.
type PIILevel string

const (
	// PIILevelNone redacts all user content
	PIILevelNone PIILevel = "none"
	// PIILevelHashed replaces detected PII and credentials with salted hashes
	PIILevelHashed PIILevel = "hashed"
	// PIILevelFull keeps user content but still masks credentials
	PIILevelFull PIILevel = "full"
)

// ParsePIILevel falls back to PIILevelHashed for unknown values.
func ParsePIILevel(raw string) PIILevel {
	switch PIILevel(raw) {
	case PIILevelNone, PIILevelHashed, PIILevelFull:
		return PIILevel(raw)
	default:
		return PIILevelHashed
	}
}

type pattern struct {
	re      *regexp.Regexp
	replace func(s *Sanitizer, match string) string
}

// Sanitizer masks PII and provider credentials in prompts and generated text.
type Sanitizer struct {
	level PIILevel
	salt  string

	secrets []pattern
	pii     []pattern
}

func hashed(label string) func(*Sanitizer, string) string {
	return func(s *Sanitizer, match string) string {
		return fmt.Sprintf("[%s:%s]", label, s.hash(match))
	}
}

func redacted(label string) func(*Sanitizer, string) string {
	return func(*Sanitizer, string) string {
		return fmt.Sprintf("[%s:REDACTED]", label)
	}
}

// NewSanitizer creates a sanitizer whose hashes are salted with salt.
func NewSanitizer(level PIILevel, salt string) *Sanitizer {
	return &Sanitizer{
		level: level,
		salt:  salt,
		secrets: []pattern{
			{regexp.MustCompile(`(?i)bearer\s+[A-Za-z0-9._~+/=-]{8,}`), redacted("TOKEN")},
			{regexp.MustCompile(`\bsk-[A-Za-z0-9_-]{8,}`), redacted("KEY")},
			{regexp.MustCompile(`\bxi-[A-Za-z0-9]{16,}`), redacted("KEY")},
		},
		pii: []pattern{
			{regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`), hashed("EMAIL")},
			{regexp.MustCompile(`\b\d{3}-\d{2}-\d{4}\b`), redacted("SSN")},
			{regexp.MustCompile(`\b\d{4}[- ]?\d{4}[- ]?\d{4}[- ]?\d{4}\b`), redacted("CC")},
			{regexp.MustCompile(`\b\d{3}[-.\s]?\d{3}[-.\s]?\d{4}\b`), hashed("PHONE")},
			{regexp.MustCompile(`\b(?:\d{1,3}\.){3}\d{1,3}\b`), hashed("IP")},
			{regexp.MustCompile(`\b(?:[A-Fa-f0-9]{1,4}:){7}[A-Fa-f0-9]{1,4}\b`), hashed("IP")},
		},
	}
}

// Level returns the configured level.
func (s *Sanitizer) Level() PIILevel {
	return s.level
}

// SanitizePrompt sanitizes user supplied text according to the level.
func (s *Sanitizer) SanitizePrompt(input string) string {
	switch s.level {
	case PIILevelNone:
		if input == "" {
			return ""
		}
		return "[REDACTED]"
	case PIILevelFull:
		return s.apply(input, s.secrets)
	default:
		return s.apply(s.apply(input, s.secrets), s.pii)
	}
}

// Preview sanitizes input and truncates the result to maxRunes runes.
func (s *Sanitizer) Preview(input string, maxRunes int) string {
	out := s.SanitizePrompt(input)
	if maxRunes <= 0 || utf8.RuneCountInString(out) <= maxRunes {
		return out
	}
	runes := []rune(out)
	return string(runes[:maxRunes]) + "…"
}

// SanitizeMetadata sanitizes every value of metadata.
func (s *Sanitizer) SanitizeMetadata(metadata map[string]string) map[string]string {
	if metadata == nil {
		return nil
	}
	result := make(map[string]string, len(metadata))
	for k, v := range metadata {
		result[k] = s.SanitizePrompt(v)
	}
	return result
}

func (s *Sanitizer) apply(input string, patterns []pattern) string {
	result := input
	for _, p := range patterns {
		result = p.re.ReplaceAllStringFunc(result, func(match string) string {
			return p.replace(s, match)
		})
	}
	return result
}

// hash returns the first 8 hex chars of the salted SHA-256 of data.
func (s *Sanitizer) hash(data string) string {
	sum := sha256.Sum256([]byte(data + s.salt))
	return hex.EncodeToString(sum[:])[:8]
}
