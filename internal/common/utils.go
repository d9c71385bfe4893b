package common

import "strings"

// Title uppercases the first letter of every space-separated word, so
// "living room" becomes "Living Room" in thing titles.
func Title(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
