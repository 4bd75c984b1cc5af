package vars

import "strings"

// ParseBool reports whether str is one of the accepted spellings of a boolean.
func ParseBool(str string) (value bool, ok bool) {
	str = strings.ToLower(strings.TrimSpace(str))
	switch str {
	case "true", "t", "yes", "y", "1":
		return true, true
	case "false", "f", "no", "n", "0":
		return false, true
	}
	return false, false
}
