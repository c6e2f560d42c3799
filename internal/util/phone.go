package util

import (
	"regexp"
	"strings"
)

var nonPhoneChars = regexp.MustCompile(`[^\d\+]+`)

// NormalizePhone strips separators from user input and coerces it toward
// E.164: "00" international prefixes become "+", bare digit strings get a
// "+" prepended. The RBM API rejects anything without a leading "+".
func NormalizePhone(raw string) string {
	s := nonPhoneChars.ReplaceAllString(strings.TrimSpace(raw), "")
	if s == "" {
		return s
	}

	if strings.HasPrefix(s, "00") {
		s = "+" + s[2:]
	} else if !strings.HasPrefix(s, "+") {
		s = "+" + s
	}

	return s
}
