// Package domain contains the shared types of the permission-aware query engine.
package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Level is an access level carried by a permission grant.
type Level int

const (
	// Denied grants no access.
	Denied Level = -1
	// Unrestricted grants access to every record.
	Unrestricted Level = 0
	// Owner grants access to records created by the caller.
	Owner Level = 1
	// BusinessUnit grants access to records of an authorized business unit.
	BusinessUnit Level = 2
)

// String returns the lowercase name of the level.
func (l Level) String() string {
	switch l {
	case Denied:
		return "denied"
	case Unrestricted:
		return "unrestricted"
	case Owner:
		return "owner"
	case BusinessUnit:
		return "businessunit"
	default:
		return fmt.Sprintf("level(%d)", int(l))
	}
}

// ParseLevel parses a level from its name or its integer code.
func ParseLevel(s string) (Level, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	switch v {
	case "denied", "deny", "none":
		return Denied, nil
	case "unrestricted", "all", "global":
		return Unrestricted, nil
	case "owner", "user":
		return Owner, nil
	case "businessunit", "business_unit", "bu":
		return BusinessUnit, nil
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		return Denied, NewValidationError("level", fmt.Sprintf("unknown permission level %q", s))
	}
	return LevelFromInt(n)
}

// LevelFromInt converts the stored integer code of a level.
func LevelFromInt(n int) (Level, error) {
	l := Level(n)
	switch l {
	case Denied, Unrestricted, Owner, BusinessUnit:
		return l, nil
	}
	return Denied, NewValidationError("level", fmt.Sprintf("unknown permission level %d", n))
}
