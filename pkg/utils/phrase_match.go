package utils

import (
	"strings"
	"unicode/utf8"
)

// arabicProclitics are prefixes written attached to the following word.
// Longer forms come first.
var arabicProclitics = []string{"وال", "بال", "فال", "كال", "لل", "ال", "و", "ب", "ف", "ل", "ك"}

// ContainsPhrase reports whether phrase occurs in text starting at a word
// boundary. The boundary may be preceded by an attached proclitic, so
// "صداع" is found in "والصداع" but "كسر" is not found in "مكسرات". Both
// arguments must already be normalized.
func ContainsPhrase(text, phrase string) bool {
	if phrase == "" {
		return false
	}
	for offset := 0; offset < len(text); {
		i := strings.Index(text[offset:], phrase)
		if i < 0 {
			return false
		}
		i += offset
		if atWordStart(text, i) {
			return true
		}
		_, size := utf8.DecodeRuneInString(text[i:])
		offset = i + size
	}
	return false
}

// ContainsWord reports whether phrase occurs in text as whole words. The
// first word may carry an attached proclitic. Both arguments must already be
// normalized.
func ContainsWord(text, phrase string) bool {
	want := strings.Fields(phrase)
	if len(want) == 0 {
		return false
	}
	tokens := strings.Fields(text)
	for i := 0; i+len(want) <= len(tokens); i++ {
		if !sameWord(tokens[i], want[0]) {
			continue
		}
		matched := true
		for j := 1; j < len(want); j++ {
			if tokens[i+j] != want[j] {
				matched = false
				break
			}
		}
		if matched {
			return true
		}
	}
	return false
}

func sameWord(token, word string) bool {
	if token == word {
		return true
	}
	for _, p := range arabicProclitics {
		if rest, ok := strings.CutPrefix(token, p); ok && rest == word {
			return true
		}
	}
	return false
}

func atWordStart(text string, i int) bool {
	start := strings.LastIndexByte(text[:i], ' ') + 1
	prefix := text[start:i]
	if prefix == "" {
		return true
	}
	for _, p := range arabicProclitics {
		if prefix == p {
			return true
		}
	}
	return false
}
