// Package sanitize normalizes untrusted prompt input before it reaches the
// model: length capping, control-character stripping and removal of the
// obvious prompt-injection phrasings.
package sanitize

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// MaxPromptLength caps user prompts; anything longer is truncated.
const MaxPromptLength = 5000

var injectionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)ignore (all )?previous instructions`),
	regexp.MustCompile(`(?i)disregard (all )?previous`),
	regexp.MustCompile(`(?i)forget (all )?previous`),
	regexp.MustCompile(`(?i)new instructions:`),
	regexp.MustCompile(`(?i)system:\s*you are now`),
}

// Prompt sanitizes free-form prompt text. The result is safe to embed in a
// prompt template but is still untrusted content.
func Prompt(input string) string {
	s := strings.TrimSpace(input)
	if s == "" {
		return ""
	}
	if len(s) > MaxPromptLength {
		// Back off to a rune boundary so the cap never splits a multibyte
		// character.
		cut := MaxPromptLength
		for cut > 0 && !utf8.RuneStart(s[cut]) {
			cut--
		}
		s = s[:cut]
	}

	// Strip null bytes and other control characters, keeping line breaks.
	s = strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, s)

	for _, pattern := range injectionPatterns {
		s = pattern.ReplaceAllString(s, "[removed]")
	}
	return s
}
