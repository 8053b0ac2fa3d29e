package chunker

import "unicode"

// EstimateTokens gives a rough token count without running a tokenizer.
// Hangul and CJK characters cost roughly two tokens each in practice,
// while space-delimited words cost about one. This is intentionally
// approximate — exact tokenization is not required for chunking, only
// determinism.
func EstimateTokens(text string) int {
	if text == "" {
		return 0
	}

	dense := 0
	wordRuns := 0
	digitRuns := 0
	runes := 0

	inWord := false
	inDigits := false

	for _, r := range text {
		runes++
		switch {
		case isDense(r):
			dense++
			inWord, inDigits = false, false
		case r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z':
			if !inWord {
				wordRuns++
			}
			inWord, inDigits = true, false
		case r >= '0' && r <= '9':
			if !inDigits {
				digitRuns++
			}
			inWord, inDigits = false, true
		default:
			inWord, inDigits = false, false
		}
	}

	tokens := dense*2 + wordRuns + digitRuns + runes/10
	if tokens < 1 {
		tokens = 1
	}
	return tokens
}

// isDense reports whether a rune belongs to a script where characters
// are not space-delimited and therefore tokenize expensively.
func isDense(r rune) bool {
	if r >= 0xAC00 && r <= 0xD7A3 { // Hangul syllables
		return true
	}
	if r >= 0x1100 && r <= 0x11FF { // Hangul jamo
		return true
	}
	return unicode.Is(unicode.Han, r)
}
