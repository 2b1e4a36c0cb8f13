package card

import (
	"strings"
	"unicode"
)

// CapitalizeName title-cases a name for display: the whole string is
// lowercased, then the first letter of each space-separated word is
// uppercased. Presentation-only; the stored name is never modified.
func CapitalizeName(name string) string {
	words := strings.Split(strings.ToLower(name), " ")
	for i, word := range words {
		if word == "" {
			continue
		}
		runes := []rune(word)
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}
