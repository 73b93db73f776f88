package descriptor

import (
	"fmt"
	"slices"
)

// Accessibility is the declared visibility of a C# type or member.
type Accessibility int

const (
	// Internal is the zero value because it is the default visibility of
	// a top-level C# type that declares no access modifier.
	Internal Accessibility = iota
	Public
	Protected
	Private
	ProtectedInternal
	PrivateProtected
)

// String returns the modifier keywords that declare a.
func (a Accessibility) String() string {
	switch a {
	case Internal:
		return "internal"
	case Public:
		return "public"
	case Protected:
		return "protected"
	case Private:
		return "private"
	case ProtectedInternal:
		return "protected internal"
	case PrivateProtected:
		return "private protected"
	default:
		return fmt.Sprintf("Accessibility(%d)", int(a))
	}
}

// ParseAccessibility folds the access modifiers found in modifiers into an
// Accessibility. Non-access modifiers such as "static" or "partial" are
// ignored. The second return value is false when modifiers contains no
// access modifier at all, in which case def is returned. An error is
// returned for combinations C# does not allow, like "public private".
func ParseAccessibility(modifiers []string, def Accessibility) (Accessibility, bool, error) {
	var found []string
	for _, m := range modifiers {
		switch m {
		case "public", "internal", "protected", "private":
			if slices.Contains(found, m) {
				return def, false, fmt.Errorf("duplicate %q modifier", m)
			}
			found = append(found, m)
		}
	}
	switch len(found) {
	case 0:
		return def, false, nil
	case 1:
		switch found[0] {
		case "public":
			return Public, true, nil
		case "internal":
			return Internal, true, nil
		case "protected":
			return Protected, true, nil
		default:
			return Private, true, nil
		}
	case 2:
		switch {
		case slices.Contains(found, "protected") && slices.Contains(found, "internal"):
			return ProtectedInternal, true, nil
		case slices.Contains(found, "private") && slices.Contains(found, "protected"):
			return PrivateProtected, true, nil
		}
	}
	return def, false, fmt.Errorf("invalid combination of access modifiers %q", found)
}
