package handlers

import (
	"github.com/rs/zerolog"

	"chat-api/internal/domain/chat"
	"chat-api/internal/domain/identity"
)

// Provider wires all HTTP handlers for dependency injection.
type Provider struct {
	Auth *AuthHandler
	Chat *ChatHandler
}

// NewProvider constructs the handler provider with domain services.
func NewProvider(identityService identity.Service, chatService chat.Service, log zerolog.Logger) *Provider {
	return &Provider{
		Auth: NewAuthHandler(identityService, log),
		Chat: NewChatHandler(chatService, log),
	}
}
