package utils

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// ContainsString reports whether target is present in items.
func ContainsString(items []string, target string) bool {
	for _, item := range items {
		if item == target {
			return true
		}
	}
	return false
}

// CleanToValidUTF8 drops invalid UTF-8 sequences from s.
func CleanToValidUTF8(s string) string {
	if utf8.ValidString(s) {
		return s
	}
	return strings.ToValidUTF8(s, "")
}

// SafeText removes control characters that break JSON payloads and logs.
func SafeText(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) && r != '\n' {
			return -1
		}
		return r
	}, s)
}

// NormalizeWhitespace trims the text and collapses runs of spaces and tabs
// into a single space, keeping paragraph breaks (blank lines) intact. This is
// the only post-processing applied to generated text.
func NormalizeWhitespace(s string) string {
	paragraphs := strings.Split(s, "\n\n")
	for i, p := range paragraphs {
		lines := strings.Split(p, "\n")
		for j, line := range lines {
			lines[j] = strings.Join(strings.Fields(line), " ")
		}
		paragraphs[i] = strings.TrimSpace(strings.Join(lines, "\n"))
	}

	var kept []string
	for _, p := range paragraphs {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, "\n\n")
}

// TruncateString cuts s to at most max runes.
func TruncateString(s string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
