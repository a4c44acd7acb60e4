// Package textnorm cleans extracted document text before analysis.
package textnorm

import (
	"regexp"
	"strings"
	"unicode"
)

// CanonicalCurrency replaces every recognised currency symbol.
const CanonicalCurrency = "£"

var (
	horizontalSpace = regexp.MustCompile(`[ \t\f\v\x{00A0}]+`)
	spaceAroundNL   = regexp.MustCompile(` *\n *`)
	blankLines      = regexp.MustCompile(`\n{2,}`)
	currency        = regexp.MustCompile(`[£$€]`)
)

// Normalize strips control characters, collapses whitespace, canonicalises
// currency symbols and trims. Runs of blank lines collapse to a single blank
// line so section boundaries survive for the chunker.
func Normalize(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = strings.Map(func(r rune) rune {
		switch {
		case r == '\n' || r == '\t':
			return r
		case r == '\uFEFF':
			return -1
		case unicode.IsControl(r):
			return -1
		case !unicode.IsPrint(r) && !unicode.IsSpace(r):
			return -1
		}
		return r
	}, text)
	text = horizontalSpace.ReplaceAllString(text, " ")
	text = spaceAroundNL.ReplaceAllString(text, "\n")
	text = blankLines.ReplaceAllString(text, "\n\n")
	text = currency.ReplaceAllString(text, CanonicalCurrency)
	return strings.TrimSpace(text)
}
