package password

import (
	"strings"
	"unicode/utf8"
)

// SpecialChars is the accepted special-character set for password
// strength checks.
const SpecialChars = "@$!%*?&"

const minLength = 8

// IsStrong reports whether a password meets the strength policy:
// at least 8 characters, with at least one uppercase letter, one
// lowercase letter, one digit and one character from SpecialChars.
// All classes are mandatory; there is no partial credit. Length is
// counted in runes so multi-byte characters cannot pad a short
// password past the minimum.
func IsStrong(password string) bool {
	if utf8.RuneCountInString(password) < minLength {
		return false
	}

	var upper, lower, digit, special bool
	for _, c := range password {
		switch {
		case c >= 'A' && c <= 'Z':
			upper = true
		case c >= 'a' && c <= 'z':
			lower = true
		case c >= '0' && c <= '9':
			digit = true
		case strings.ContainsRune(SpecialChars, c):
			special = true
		}
	}

	return upper && lower && digit && special
}
