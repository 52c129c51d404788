// Package tokens assigns token counts to message text.
//
// Two strategies exist: a subword tokenizer (tiktoken) when its encoding can be
// loaded, and a character-count heuristic otherwise. The choice is made once by
// Select and the resulting Counter is passed down to the annotation stage.
package tokens

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Counter maps text to a non-negative token count.
type Counter interface {
	Count(text string) int
	Name() string
}

const (
	codeCharsPerToken  = 3.1
	proseCharsPerToken = 4.0
)

var codeHints = regexp.MustCompile("(?i)(\\bSELECT\\b|\\bCREATE\\b|\\bFROM\\b|\\bWHERE\\b|def\\s+|import\\s+|```|\\{|\\};)")

// Heuristic estimates tokens from character counts. It is deterministic and has no dependencies.
type Heuristic struct{}

// Name implements Counter.
func (Heuristic) Name() string { return "heuristic" }

// Count returns 0 for blank text and at least 1 otherwise. Code-looking text
// is assumed to be denser (~3.1 chars per token) than prose (~4 chars per token).
func (Heuristic) Count(text string) int {
	t := strings.TrimSpace(text)
	if t == "" {
		return 0
	}
	divisor := proseCharsPerToken
	if IsCodey(t) {
		divisor = codeCharsPerToken
	}
	n := int(float64(utf8.RuneCountInString(t)) / divisor)
	if n < 1 {
		return 1
	}
	return n
}

// IsCodey reports whether text contains structural code markers.
func IsCodey(text string) bool {
	return codeHints.MatchString(text)
}
