package domain

import (
	"regexp"
	"strings"
)

// Canonical form: local 11-digit mobile number, 01XXXXXXXXX.
var phoneRegex = regexp.MustCompile(`^01[0-9]{9}$`)

// NormalizePhone strips spaces and dashes and rewrites the +880 / 880
// country prefix to the local 0-prefixed form, so lookups and
// uniqueness checks see one canonical spelling per number.
func NormalizePhone(number string) string {
	clean := strings.ReplaceAll(number, " ", "")
	clean = strings.ReplaceAll(clean, "-", "")
	clean = strings.TrimPrefix(clean, "+")
	if strings.HasPrefix(clean, "880") {
		clean = "0" + strings.TrimPrefix(clean, "880")
	}
	return clean
}

// ValidPhone reports whether number is a mobile number we can route to.
func ValidPhone(number string) bool {
	return phoneRegex.MatchString(NormalizePhone(number))
}
