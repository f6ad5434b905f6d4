package model

import (
	"regexp"
	"strings"
)

// ukMobilePattern matches a normalized UK mobile: +447 followed by nine digits.
var ukMobilePattern = regexp.MustCompile(`^\+447\d{9}$`)

// NormalizeUKMobile converts the common ways a UK mobile number is written
// (07..., 447..., 00447..., with spaces, dashes or parens) into the +447
// form the gateway expects. It returns ErrInvalidMobile when the cleaned
// number does not look like a UK mobile.
func NormalizeUKMobile(raw string) (string, error) {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '(', ')', '.':
			return -1
		}
		return r
	}, strings.TrimSpace(raw))

	switch {
	case strings.HasPrefix(cleaned, "+447"):
		// already normalized
	case strings.HasPrefix(cleaned, "00447"):
		cleaned = "+" + cleaned[2:]
	case strings.HasPrefix(cleaned, "447"):
		cleaned = "+" + cleaned
	case strings.HasPrefix(cleaned, "07"):
		cleaned = "+44" + cleaned[1:]
	default:
		return "", ErrInvalidMobile
	}

	if !ukMobilePattern.MatchString(cleaned) {
		return "", ErrInvalidMobile
	}
	return cleaned, nil
}
