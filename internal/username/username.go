// Package username derives login handles from owner display names.
package username

import (
	"errors"
	"strings"
	"unicode"
)

// ErrInvalidName indicates the owner name is empty or contains no
// alphabetic token to take initials from.
var ErrInvalidName = errors.New("owner name must contain at least one alphabetic word")

// Derive maps an owner display name to its login handle: the first rune of
// each whitespace-separated token, lowercased, concatenated in order.
// "Steven Thomas Williams" derives to "stw". Pure and deterministic.
func Derive(owner string) (string, error) {
	var b strings.Builder
	for _, token := range strings.Fields(owner) {
		r := []rune(token)[0]
		if !unicode.IsLetter(r) {
			continue
		}
		b.WriteRune(unicode.ToLower(r))
	}
	if b.Len() == 0 {
		return "", ErrInvalidName
	}
	return b.String(), nil
}
