package text

import (
	"regexp"
	"strings"
	"unicode"
)

// bulgarianRatio is the minimum fraction of alphabetic characters that must
// be Cyrillic for text to count as Bulgarian. The boundary is inclusive.
const bulgarianRatio = 0.30

var (
	htmlTagRe     = regexp.MustCompile(`<[^>]+>`)
	bracketSpanRe = regexp.MustCompile(`\[.*?\]`)
	parenSpanRe   = regexp.MustCompile(`\(.*?\)`)
)

// IsBulgarian reports whether text is predominantly Bulgarian, using the
// ratio of Cyrillic letters to all alphabetic characters. Text without any
// alphabetic characters is never Bulgarian.
func IsBulgarian(text string) bool {
	var alphabetic, cyrillic int
	for _, r := range text {
		if !unicode.IsLetter(r) {
			continue
		}
		alphabetic++
		if unicode.In(r, unicode.Cyrillic) {
			cyrillic++
		}
	}
	if alphabetic == 0 {
		return false
	}
	return float64(cyrillic) >= bulgarianRatio*float64(alphabetic)
}

// Clean prepares card field content for speech synthesis. It strips HTML
// tags, removes bracketed and parenthesized spans (pronunciation guides),
// collapses whitespace and trims. Results of one or two characters get a
// trailing period because the TTS backend rejects very short inputs.
func Clean(text string) string {
	text = htmlTagRe.ReplaceAllString(text, "")
	text = bracketSpanRe.ReplaceAllString(text, "")
	text = parenSpanRe.ReplaceAllString(text, "")
	text = strings.Join(strings.Fields(text), " ")

	// Already-padded input must come out unchanged.
	if n := len([]rune(text)); n >= 1 && n <= 2 && !strings.HasSuffix(text, ".") {
		text += "."
	}

	return text
}

// Suitability reports whether cleaned text can be synthesized. The returned
// reason is suitable for run summaries ("no text", "not Bulgarian", ...).
func Suitability(text string) (bool, string) {
	if strings.TrimSpace(text) == "" {
		return false, "no text"
	}

	hasWordChar := false
	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			hasWordChar = true
			break
		}
	}
	if !hasWordChar {
		return false, "only punctuation or symbols"
	}

	if !IsBulgarian(text) {
		return false, "not Bulgarian"
	}

	return true, "OK"
}
