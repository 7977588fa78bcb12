package auth

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/mmynk/payrecord/internal/models"
)

var ErrInvalidName = errors.New("name must be 1 to 64 characters")

const maxNameLength = 64

// Authenticator turns login input into a user.
// NameAuthenticator is the only implementation; the interface leaves room
// for credentialed logins without touching the service layer.
type Authenticator interface {
	Authenticate(ctx context.Context, name string) (*models.User, error)
}

// NameAuthenticator accepts any non-empty display name. There is no
// credential check.
type NameAuthenticator struct{}

// NewNameAuthenticator creates a name-only authenticator.
func NewNameAuthenticator() *NameAuthenticator {
	return &NameAuthenticator{}
}

// Authenticate trims the name and returns a user for it.
func (a *NameAuthenticator) Authenticate(_ context.Context, name string) (*models.User, error) {
	name = strings.TrimSpace(name)
	if name == "" || utf8.RuneCountInString(name) > maxNameLength {
		return nil, ErrInvalidName
	}
	return &models.User{Name: name}, nil
}
