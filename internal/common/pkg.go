package common

import "strings"

// LastSegment returns the last non-empty element of a slash, colon or hash
// separated identifier such as an import path, URL or URN.
// Returns empty string if s has no such element.
func LastSegment(s string) string {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == '/' || r == ':' || r == '#'
	})

	if len(fields) == 0 {
		return ""
	}

	return fields[len(fields)-1]
}
