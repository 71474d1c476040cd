package identity

import "errors"

// User is the signed-in principal returned by the identity provider. The ID
// is the opaque owner key for conversations.
type User struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	IDToken      string `json:"id_token,omitempty"`
	RefreshToken string `json:"refresh_token,omitempty"`
}

// Typed provider failures. The service maps these to the fixed user-visible
// strings; anything else is an external error.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailInUse         = errors.New("email already in use")
	ErrUserNotFound       = errors.New("user not found")
)
