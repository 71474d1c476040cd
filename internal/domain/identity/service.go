package identity

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"chat-api/internal/domain/chat"
	"chat-api/internal/utils/platformerrors"
)

// Service performs pre-flight validation, delegates to the provider, and
// drives the chat session lifecycle around sign-in and sign-out.
type Service interface {
	SignIn(ctx context.Context, email, password string) (*User, error)
	SignUp(ctx context.Context, email, password, confirm string) (*User, error)
	SignOut(ctx context.Context, userID string)
	CurrentUser(ctx context.Context, idToken string) (*User, error)
}

type service struct {
	provider Provider
	chats    chat.Service
	log      zerolog.Logger
}

// NewService wires the identity service.
func NewService(provider Provider, chats chat.Service, log zerolog.Logger) Service {
	return &service{
		provider: provider,
		chats:    chats,
		log:      log.With().Str("component", "identity-service").Logger(),
	}
}

func (s *service) SignIn(ctx context.Context, email, password string) (*User, error) {
	if msg := ValidateCredentials(email, password); msg != "" {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeValidation, msg, nil)
	}

	user, err := s.provider.SignIn(ctx, email, password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) || errors.Is(err, ErrUserNotFound) {
			return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
				platformerrors.ErrorTypeUnauthorized, MsgInvalidCredentials, err)
		}
		s.log.Error().Err(err).Msg("sign in failed")
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeExternal, MsgInvalidCredentials, err)
	}

	s.chats.StartSession(user.ID)
	s.log.Info().Str("user_id", user.ID).Msg("user signed in")
	return user, nil
}

func (s *service) SignUp(ctx context.Context, email, password, confirm string) (*User, error) {
	if msg := ValidateSignUp(email, password, confirm); msg != "" {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeValidation, msg, nil)
	}

	user, err := s.provider.SignUp(ctx, email, password)
	if err != nil {
		if errors.Is(err, ErrEmailInUse) {
			return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
				platformerrors.ErrorTypeConflict, MsgEmailInUse, err)
		}
		s.log.Error().Err(err).Msg("sign up failed")
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeExternal, MsgSignUpFailed, err)
	}

	s.chats.StartSession(user.ID)
	s.log.Info().Str("user_id", user.ID).Msg("user registered")
	return user, nil
}

func (s *service) SignOut(ctx context.Context, userID string) {
	s.chats.EndSession(userID)
	s.log.Info().Str("user_id", userID).Msg("user signed out")
}

func (s *service) CurrentUser(ctx context.Context, idToken string) (*User, error) {
	user, err := s.provider.Lookup(ctx, idToken)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
				platformerrors.ErrorTypeUnauthorized, "session expired", err)
		}
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeExternal, "identity lookup failed", err)
	}
	return user, nil
}
