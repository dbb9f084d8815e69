package types

import "fmt"

// Category is the storage category of a field. It is decided once, when the
// schema is loaded, and never changes for the lifetime of a field.
type Category int

// Field categories.
const (
	CategoryScalarText Category = iota + 1
	CategoryMultilingualText
	CategoryInteger
	CategoryDate
	CategorySingleSelect
	CategoryMultiSelect
)

// categoryNames maps each category to its string form used in project files,
// the database and the CLI.
var categoryNames = map[Category]string{
	CategoryScalarText:       "text",
	CategoryMultilingualText: "multitext",
	CategoryInteger:          "integer",
	CategoryDate:             "date",
	CategorySingleSelect:     "select",
	CategoryMultiSelect:      "tags",
}

// String returns the string form of the category.
func (c Category) String() string {
	if s, ok := categoryNames[c]; ok {
		return s
	}
	return fmt.Sprintf("category(%d)", int(c))
}

// Valid reports whether c is one of the six field categories.
func (c Category) Valid() bool {
	_, ok := categoryNames[c]
	return ok
}

// IsText reports whether the category stores text.
func (c Category) IsText() bool {
	return c == CategoryScalarText || c == CategoryMultilingualText
}

// IsReference reports whether the category stores possibility-list references.
func (c Category) IsReference() bool {
	return c == CategorySingleSelect || c == CategoryMultiSelect
}

// ParseCategory returns the category for its string form.
func ParseCategory(s string) (Category, error) {
	for c, name := range categoryNames {
		if name == s {
			return c, nil
		}
	}
	return 0, fmt.Errorf("parse category %q: %w", s, ErrInvalidCategory)
}

// Role is the linguistic role of a multilingual field. It selects the default
// writing system when a caller reads or writes without naming one.
type Role int

// Field roles.
const (
	RoleUnspecified Role = iota
	RoleVernacular
	RoleAnalysis
)

// String returns the string form of the role.
func (r Role) String() string {
	switch r {
	case RoleVernacular:
		return "vernacular"
	case RoleAnalysis:
		return "analysis"
	default:
		return ""
	}
}

// ParseRole returns the role for its string form. The empty string is
// RoleUnspecified.
func ParseRole(s string) (Role, error) {
	switch s {
	case "":
		return RoleUnspecified, nil
	case "vernacular":
		return RoleVernacular, nil
	case "analysis":
		return RoleAnalysis, nil
	default:
		return RoleUnspecified, fmt.Errorf("parse role %q: %w", s, ErrInvalidRole)
	}
}
