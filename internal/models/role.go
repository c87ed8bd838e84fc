package models

import (
	"errors"
	"fmt"
)

// Role is the closed set of account kinds.
type Role string

const (
	RoleTeacher Role = "teacher"
	RoleStudent Role = "student"
)

// ErrUnknownRole is returned by ParseRole for anything outside the closed set.
var ErrUnknownRole = errors.New("unknown role")

// ParseRole converts a wire value into a Role. Matching is exact: "Teacher"
// and "STUDENT" are rejected rather than normalized.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleTeacher, RoleStudent:
		return Role(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownRole, s)
	}
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleTeacher || r == RoleStudent
}

func (r Role) String() string {
	return string(r)
}
