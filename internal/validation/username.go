package validation

import (
	"fmt"
	"regexp"
)

// UsernamePattern: latin letters, digits and underscore, 3 to 32 characters.
var UsernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]{3,32}$`)

const (
	// MinUsernameLen is the shortest accepted username.
	MinUsernameLen = 3
	// MaxUsernameLen is the longest accepted username.
	MaxUsernameLen = 32
	// MaxPasswordLen is bcrypt's input limit in bytes.
	MaxPasswordLen = 72
)

// ValidateUsername checks the username against UsernamePattern and reports
// the first rule it breaks.
func ValidateUsername(username string) error {
	if username == "" {
		return fmt.Errorf("username cannot be empty")
	}

	if len(username) < MinUsernameLen {
		return fmt.Errorf("username must be at least %d characters long", MinUsernameLen)
	}

	if len(username) > MaxUsernameLen {
		return fmt.Errorf("username must not exceed %d characters", MaxUsernameLen)
	}

	if !UsernamePattern.MatchString(username) {
		return fmt.Errorf("username can only contain letters (a-z, A-Z), numbers (0-9), and underscores (_)")
	}

	return nil
}

// ValidatePassword checks that a password is present and fits into bcrypt.
// No strength policy is applied.
func ValidatePassword(password string) error {
	if password == "" {
		return fmt.Errorf("password cannot be empty")
	}

	if len(password) > MaxPasswordLen {
		return fmt.Errorf("password must not exceed %d bytes", MaxPasswordLen)
	}

	return nil
}
