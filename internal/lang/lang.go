// Package lang provides language and script helpers for respondent text.
package lang

import (
	"unicode"

	"golang.org/x/text/language"
)

// SameLanguage reports whether two BCP-47 codes share a base language
// ("es" matches "es-MX"). Unparseable codes never match.
func SameLanguage(a, b string) bool {
	ta, err := language.Parse(a)
	if err != nil {
		return false
	}
	tb, err := language.Parse(b)
	if err != nil {
		return false
	}
	ba, confA := ta.Base()
	bb, confB := tb.Base()
	if confA == language.No || confB == language.No {
		return false
	}
	return ba == bb
}

// NonLatinScript reports whether the majority of letters in s fall outside
// the Latin script. Digits, punctuation and whitespace are ignored, so
// "Coca-Cola 500ml" stays Latin while "コカ・コーラ" does not.
func NonLatinScript(s string) bool {
	var latin, other int
	for _, r := range s {
		if !unicode.IsLetter(r) {
			continue
		}
		if unicode.Is(unicode.Latin, r) {
			latin++
		} else {
			other++
		}
	}
	return other > latin
}
