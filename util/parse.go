// Package util holds small helpers shared by config and logging code.
package util

import (
	"fmt"
	"strings"
)

const (
	kb = int64(1024)
	mb = 1024 * kb
	gb = 1024 * mb
)

// ParseSize parses a human-readable size ("10MB", "512KB", "2GB", "1024")
// into bytes. Returns defaultBytes if the string cannot be parsed.
func ParseSize(s string, defaultBytes int64) int64 {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return defaultBytes
	}

	multiplier := int64(1)
	switch {
	case strings.HasSuffix(s, "GB"):
		multiplier, s = gb, s[:len(s)-2]
	case strings.HasSuffix(s, "MB"):
		multiplier, s = mb, s[:len(s)-2]
	case strings.HasSuffix(s, "KB"):
		multiplier, s = kb, s[:len(s)-2]
	case strings.HasSuffix(s, "B"):
		s = s[:len(s)-1]
	}

	var val int64
	if _, err := fmt.Sscanf(strings.TrimSpace(s), "%d", &val); err == nil && val >= 0 {
		return val * multiplier
	}
	return defaultBytes
}

// FormatSize renders bytes in the largest whole unit, e.g. 10485760 -> "10MB".
// Sizes that are not a whole number of the unit fall back to the next smaller one.
func FormatSize(n int64) string {
	switch {
	case n >= gb && n%gb == 0:
		return fmt.Sprintf("%dGB", n/gb)
	case n >= mb && n%mb == 0:
		return fmt.Sprintf("%dMB", n/mb)
	case n >= kb && n%kb == 0:
		return fmt.Sprintf("%dKB", n/kb)
	default:
		return fmt.Sprintf("%dB", n)
	}
}

// MaskSecret hides all but the first visiblePrefix characters of a secret.
func MaskSecret(s string, visiblePrefix int) string {
	if len(s) <= visiblePrefix {
		return "***"
	}
	return s[:visiblePrefix] + "***"
}
