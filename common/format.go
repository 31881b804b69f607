package common

import (
	"fmt"
	"strings"
)

const (
	SymbolCheck = "✅"
	SymbolWarn  = "⚠️"
	SymbolCross = "❌"
	SymbolInfo  = "ℹ️"
)

const colorReset = "\033[0m"

// FormatCheckResults formats check results with consistent styling
func FormatCheckResults(title string, results []*CheckResult) string {
	if len(results) == 0 {
		return "No checks performed"
	}

	var result strings.Builder
	result.WriteString(title)
	for _, r := range results {
		if r == nil {
			continue
		}
		prefix := "   " + SymbolCheck + " "
		switch {
		case r.Skipped:
			prefix = "   " + SymbolInfo + " "
		case !r.Passed:
			prefix = "   " + SymbolCross + " "
		}
		result.WriteString("\n" + prefix + r.Name + ": " + r.Message)
	}
	return result.String()
}

// FormatFileSize renders a byte count with a binary unit suffix
func FormatFileSize(size int64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}
	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(size)/float64(div), "KMGTPE"[exp])
}

// FormatPermissions renders memory permissions in rwx order
func FormatPermissions(executable, readable, writable bool) string {
	var sb strings.Builder
	sb.WriteByte(map[bool]byte{true: 'r', false: '-'}[readable])
	sb.WriteByte(map[bool]byte{true: 'w', false: '-'}[writable])
	sb.WriteByte(map[bool]byte{true: 'x', false: '-'}[executable])
	return sb.String()
}

// TruncateString shortens s to at most n runes, marking the cut with '~'
func TruncateString(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "~"
}

// GetEntropyColor returns the ANSI color used to print an entropy value
func GetEntropyColor(entropy float64) string {
	switch {
	case entropy >= 7.0:
		return "\033[31m"
	case entropy >= 6.0:
		return "\033[33m"
	default:
		return "\033[32m"
	}
}

// ColorReset returns the ANSI sequence that ends a colored span
func ColorReset() string {
	return colorReset
}
