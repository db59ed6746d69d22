package utils

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const tatweel = 'ـ'

// stripMarks removes combining marks (harakat, shadda, sukun, superscript alef)
// and splits hamza/madda carriers into their base letters. NFKD also unfolds
// Arabic presentation forms copied out of PDFs.
var stripMarks = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// NormalizeArabic returns the canonical comparable form of free text.
//
// Diacritics are stripped, orthographic letter variants are folded (hamza
// carriers to their base letter, alef maksura to ya, ta marbuta to ha),
// anything that is not an ASCII letter/digit or an Arabic letter becomes a
// single space, and ASCII is lower-cased. The result is trimmed and
// idempotent: NormalizeArabic(NormalizeArabic(s)) == NormalizeArabic(s).
func NormalizeArabic(text string) string {
	if text == "" {
		return ""
	}

	stripped, _, err := transform.String(stripMarks, text)
	if err != nil {
		stripped = text
	}

	var b strings.Builder
	b.Grow(len(stripped))
	pendingSpace := false

	for _, r := range stripped {
		if r == tatweel {
			continue
		}
		r = foldRune(r)
		if !isWordRune(r) {
			pendingSpace = true
			continue
		}
		if pendingSpace && b.Len() > 0 {
			b.WriteByte(' ')
		}
		pendingSpace = false
		b.WriteRune(r)
	}

	return b.String()
}

// ContainsNormalized reports whether the normalized form of needle occurs in
// haystack, which must already be normalized. An empty needle never matches.
func ContainsNormalized(haystack, needle string) bool {
	n := NormalizeArabic(needle)
	if n == "" {
		return false
	}
	return strings.Contains(haystack, n)
}

func foldRune(r rune) rune {
	switch {
	case r >= 'A' && r <= 'Z':
		return r + ('a' - 'A')
	case r >= '٠' && r <= '٩':
		return '0' + (r - '٠')
	case r >= '۰' && r <= '۹':
		return '0' + (r - '۰')
	}

	switch r {
	case 'أ', 'إ', 'آ', 'ٱ':
		return 'ا'
	case 'ى', 'ی', 'ئ':
		return 'ي'
	case 'ؤ':
		return 'و'
	case 'ة':
		return 'ه'
	case 'ک':
		return 'ك'
	}
	return r
}

func isWordRune(r rune) bool {
	if r < unicode.MaxASCII {
		return (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
	}
	return unicode.Is(unicode.Arabic, r) && unicode.IsLetter(r)
}
