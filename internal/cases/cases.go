// Package cases converts C# member identifiers between the naming styles
// used for backing fields and the properties generated for them.
package cases

import (
	"unicode"
	"unicode/utf8"
)

const (
	// fieldPrefix is the conventional separator that starts a private
	// backing field name, as in "_dateTime".
	fieldPrefix = '_'

	// asciiCaseDistance is the code point distance between an ASCII
	// lowercase letter and its uppercase form.
	asciiCaseDistance = 'a' - 'A'
)

// PropertyName derives the public property name for a backing field.
//
// A single leading underscore is dropped, and if the name then starts with
// an ASCII lowercase letter, that letter is shifted to uppercase. All other
// characters are copied as-is. A field named only "_" is returned unchanged,
// since stripping the prefix would leave nothing to name the property.
func PropertyName(field string) string {
	name := field
	if len(name) > 0 && name[0] == fieldPrefix {
		name = name[1:]
	}
	if name == "" {
		return field
	}
	if c := name[0]; c >= 'a' && c <= 'z' {
		buf := []byte(name)
		buf[0] = c - asciiCaseDistance
		return string(buf)
	}
	return name
}

// IsIdentifier reports whether s is a legal C# identifier. A leading '@'
// (a verbatim identifier) is accepted.
func IsIdentifier(s string) bool {
	if len(s) > 0 && s[0] == '@' {
		s = s[1:]
	}
	if s == "" || !utf8.ValidString(s) {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_' || unicode.IsLetter(r):
		case i > 0 && (unicode.IsDigit(r) || unicode.Is(unicode.Mn, r) || unicode.Is(unicode.Mc, r) || unicode.Is(unicode.Pc, r)):
		default:
			return false
		}
	}
	return true
}
