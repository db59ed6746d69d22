package utils

import (
	"strings"
)

var blankCellValues = map[string]struct{}{
	"":     {},
	"nan":  {},
	"none": {},
	"null": {},
	"nil":  {},
	"n/a":  {},
	"-":    {},
}

// IsBlank reports whether a spreadsheet cell carries no value. Exporters write
// missing cells as empty strings or as the literal text "nan"/"null".
func IsBlank(cell string) bool {
	_, ok := blankCellValues[strings.ToLower(strings.TrimSpace(cell))]
	return ok
}

// CleanCell trims a cell and returns "" for blank values.
func CleanCell(cell string) string {
	cell = strings.TrimSpace(cell)
	if IsBlank(cell) {
		return ""
	}
	return cell
}

// CleanNumeric cleans a phone-like cell. A trailing ".0" left by
// numeric-to-text coercion is removed before the blank check, Arabic-Indic
// digits become ASCII, and a value that cleans to "0" is treated as absent.
func CleanNumeric(cell string) string {
	cell = strings.TrimSpace(cell)
	cell = strings.TrimSuffix(cell, ".0")
	if IsBlank(cell) {
		return ""
	}

	cell = strings.Map(func(r rune) rune {
		switch {
		case r >= '٠' && r <= '٩':
			return '0' + (r - '٠')
		case r >= '۰' && r <= '۹':
			return '0' + (r - '۰')
		}
		return r
	}, cell)
	cell = strings.TrimSpace(cell)

	if cell == "" || cell == "0" {
		return ""
	}
	return cell
}

// SplitPhones splits a cell that may hold several numbers separated by
// slashes, commas, semicolons or a spaced dash and returns the cleaned,
// non-empty values.
func SplitPhones(cell string) []string {
	cell = strings.ReplaceAll(cell, " - ", "/")
	parts := strings.FieldsFunc(cell, func(r rune) bool {
		switch r {
		case '/', ',', '،', ';', '|', '\n', '\r':
			return true
		}
		return false
	})

	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if cleaned := CleanNumeric(part); cleaned != "" {
			out = append(out, cleaned)
		}
	}
	return out
}
