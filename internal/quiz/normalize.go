package quiz

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var (
	whitespaceRun = regexp.MustCompile(`\s+`)
	ordinalPrefix = regexp.MustCompile(`^\d+\.\s*`)
)

// Normalize canonicalizes text for comparison: Unicode NFC composition,
// whitespace runs collapsed to single spaces, leading/trailing whitespace
// trimmed. Applied identically to stored and submitted text so equality
// is robust to incidental formatting. Idempotent.
func Normalize(s string) string {
	s = norm.NFC.String(s)
	s = whitespaceRun.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// StripOrdinal removes a leading "<digits>. " prefix from submitted
// question text. The quiz form numbers questions client-side; the stored
// dataset does not, so the prefix is stripped on the submission side only.
func StripOrdinal(s string) string {
	return ordinalPrefix.ReplaceAllString(s, "")
}
