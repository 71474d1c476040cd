package identity

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	domain "chat-api/internal/domain/identity"
)

// Client talks to an Identity Toolkit compatible REST API. The provider is
// the authority on credentials; this client only translates its error codes
// into the typed domain failures.
type Client struct {
	httpClient *resty.Client
	apiKey     string
}

// NewClient creates a Resty-backed identity client.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		httpClient: resty.New().
			SetBaseURL(baseURL).
			SetHeader("Content-Type", "application/json").
			SetTimeout(30 * time.Second),
		apiKey: apiKey,
	}
}

type signInRequest struct {
	Email             string `json:"email"`
	Password          string `json:"password"`
	ReturnSecureToken bool   `json:"returnSecureToken"`
}

type signInResponse struct {
	LocalID      string `json:"localId"`
	Email        string `json:"email"`
	IDToken      string `json:"idToken"`
	RefreshToken string `json:"refreshToken"`
}

type lookupRequest struct {
	IDToken string `json:"idToken"`
}

type lookupResponse struct {
	Users []struct {
		LocalID string `json:"localId"`
		Email   string `json:"email"`
	} `json:"users"`
}

type errorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// SignIn exchanges email+password credentials for a signed-in user.
func (c *Client) SignIn(ctx context.Context, email, password string) (*domain.User, error) {
	return c.exchange(ctx, "/v1/accounts:signInWithPassword", email, password)
}

// SignUp registers email+password credentials and signs the user in.
func (c *Client) SignUp(ctx context.Context, email, password string) (*domain.User, error) {
	return c.exchange(ctx, "/v1/accounts:signUp", email, password)
}

func (c *Client) exchange(ctx context.Context, path, email, password string) (*domain.User, error) {
	var (
		success signInResponse
		failure errorResponse
	)
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetQueryParam("key", c.apiKey).
		SetBody(signInRequest{Email: email, Password: password, ReturnSecureToken: true}).
		SetResult(&success).
		SetError(&failure).
		Post(path)
	if err != nil {
		return nil, err
	}

	if resp.IsError() {
		return nil, translateError(failure.Error.Message, resp.String())
	}

	return &domain.User{
		ID:           success.LocalID,
		Email:        success.Email,
		IDToken:      success.IDToken,
		RefreshToken: success.RefreshToken,
	}, nil
}

// Lookup resolves the user behind an ID token.
func (c *Client) Lookup(ctx context.Context, idToken string) (*domain.User, error) {
	var (
		success lookupResponse
		failure errorResponse
	)
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetQueryParam("key", c.apiKey).
		SetBody(lookupRequest{IDToken: idToken}).
		SetResult(&success).
		SetError(&failure).
		Post("/v1/accounts:lookup")
	if err != nil {
		return nil, err
	}

	if resp.IsError() {
		return nil, translateError(failure.Error.Message, resp.String())
	}
	if len(success.Users) == 0 {
		return nil, domain.ErrUserNotFound
	}

	return &domain.User{
		ID:      success.Users[0].LocalID,
		Email:   success.Users[0].Email,
		IDToken: idToken,
	}, nil
}

// translateError maps the provider's error codes onto the typed domain
// failures. Codes sometimes carry a suffix (e.g. "EMAIL_NOT_FOUND : ...")
// so matching is by prefix.
func translateError(code, raw string) error {
	switch {
	case strings.HasPrefix(code, "EMAIL_EXISTS"):
		return domain.ErrEmailInUse
	case strings.HasPrefix(code, "INVALID_LOGIN_CREDENTIALS"),
		strings.HasPrefix(code, "INVALID_PASSWORD"),
		strings.HasPrefix(code, "INVALID_EMAIL"):
		return domain.ErrInvalidCredentials
	case strings.HasPrefix(code, "EMAIL_NOT_FOUND"),
		strings.HasPrefix(code, "USER_NOT_FOUND"):
		return domain.ErrUserNotFound
	default:
		return fmt.Errorf("identity api error: %s", raw)
	}
}

// Ensure interface compliance.
var _ domain.Provider = (*Client)(nil)
