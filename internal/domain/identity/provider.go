package identity

import "context"

// Provider is the external identity service. Its validation is
// authoritative; the client-side checks in this package are pre-flight only.
type Provider interface {
	// SignIn exchanges email+password credentials for a signed-in user.
	SignIn(ctx context.Context, email, password string) (*User, error)

	// SignUp registers email+password credentials and signs the user in.
	SignUp(ctx context.Context, email, password string) (*User, error)

	// Lookup resolves the user behind an ID token.
	Lookup(ctx context.Context, idToken string) (*User, error)
}
