// Package entity contains the core business objects of the project.
package entity

import "strings"

// Gender represents the declared gender of an account holder.
type Gender string

const (
	// GenderFemale indicates a female account holder.
	GenderFemale Gender = "female"
	// GenderMale indicates a male account holder.
	GenderMale Gender = "male"
	// GenderUnknown indicates the gender was not disclosed.
	GenderUnknown Gender = "unknown"
)

// String returns the string representation of the Gender.
func (g Gender) String() string {
	return string(g)
}

// IsValid checks if the Gender is a valid value.
func (g Gender) IsValid() bool {
	switch g {
	case GenderFemale, GenderMale, GenderUnknown:
		return true
	default:
		return false
	}
}

// ParseGender converts a wire-format string into a Gender. The empty string
// means undisclosed and parses as GenderUnknown; anything else must match one
// of the enum values exactly (case-insensitive).
func ParseGender(s string) (Gender, bool) {
	if s == "" {
		return GenderUnknown, true
	}

	g := Gender(strings.ToLower(s))
	if !g.IsValid() {
		return GenderUnknown, false
	}

	return g, true
}
