package auth

import (
	"errors"
	"fmt"

	"github.com/iudanet/classtrack/internal/models"
)

var (
	// ErrUnauthenticated is the only error callers see when a token cannot be
	// turned into a session. The reason is logged, not returned.
	ErrUnauthenticated = errors.New("could not validate credentials")

	// ErrForbidden means the session is valid but its role is not allowed.
	ErrForbidden = errors.New("operation forbidden")

	// ErrInvalidCredentials is returned by Service.Authenticate for an unknown
	// username and for a wrong password alike.
	ErrInvalidCredentials = errors.New("incorrect username or password")
)

func forbiddenFor(role models.Role) error {
	return fmt.Errorf("%w: only %ss can perform this action", ErrForbidden, role)
}
