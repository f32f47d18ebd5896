package domain

import (
	"strings"
	"unicode/utf8"
)

// DeriveUsername joins the lowercased first letter of every whitespace-separated
// word of owner: "Jonas Schmedtmann" becomes "js".
func DeriveUsername(owner string) string {
	var b strings.Builder
	for _, word := range strings.Fields(strings.ToLower(owner)) {
		r, _ := utf8.DecodeRuneInString(word)
		b.WriteRune(r)
	}
	return b.String()
}
