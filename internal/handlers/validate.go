package handlers

import "unicode/utf8"

// maxIDLen bounds principle ids accepted from URLs. Catalog ids are short
// tokens; anything longer cannot match and is not worth logging in full.
const maxIDLen = 64

// validateID reports whether id is shaped like a catalog id: non-empty,
// bounded, and limited to lower-case letters, digits, '-' and '_'. It
// runs before lookups so malformed input never reaches the logs verbatim.
func validateID(id string) bool {
	if id == "" || utf8.RuneCountInString(id) > maxIDLen {
		return false
	}
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
		default:
			return false
		}
	}
	return true
}
