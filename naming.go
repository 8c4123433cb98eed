package introspect

import (
	"fmt"
	"strings"
	"unicode"
)

// IsGetter reports whether name follows the getter naming convention:
// an "Is" or "Get" prefix followed by at least one character.
func IsGetter(name string) bool {
	return strings.HasPrefix(name, "Get") && len(name) > 3 ||
		strings.HasPrefix(name, "Is") && len(name) > 2
}

// IsSetter reports whether name follows the setter naming convention:
// a "Set" prefix followed by at least one character.
func IsSetter(name string) bool {
	return strings.HasPrefix(name, "Set") && len(name) > 3
}

// IsProperty reports whether name is accessor-shaped in either direction.
func IsProperty(name string) bool {
	return IsGetter(name) || IsSetter(name)
}

// PropertyName maps an accessor method name to its canonical property name.
// The recognized prefix is stripped and the remainder is decapitalized unless
// it is a single character or its second character is already uppercase, so
// acronym-cased names like GetURL keep their casing ("URL").
//
// Returns ErrInvalidAccessorName when name does not start with Is, Get or Set.
func PropertyName(name string) (string, error) {
	switch {
	case strings.HasPrefix(name, "Is"):
		name = name[2:]
	case strings.HasPrefix(name, "Get"), strings.HasPrefix(name, "Set"):
		name = name[3:]
	default:
		return "", fmt.Errorf("%w: %q does not start with Is, Get or Set", ErrInvalidAccessorName, name)
	}
	return decapitalize(name), nil
}

// decapitalize lowercases the leading character of name unless the second
// character is uppercase.
func decapitalize(name string) string {
	r := []rune(name)
	if len(r) == 1 || len(r) > 1 && !unicode.IsUpper(r[1]) {
		r[0] = unicode.ToLower(r[0])
		return string(r)
	}
	return name
}

// isValidPropertyName filters out internal and pseudo-property member names:
// reserved-prefix names used by generated code and trackers, the serialization
// version marker, and the universal type-descriptor pseudo-property.
func isValidPropertyName(name string) bool {
	return name != "" && !strings.HasPrefix(name, "$") && !strings.HasPrefix(name, "_") &&
		name != "serialVersionUID" && name != "class"
}
