package responses

import (
	"chat-api/internal/domain/chat"
	"chat-api/internal/domain/identity"
)

// UserResponse is returned on sign-in, sign-up, and lookup.
type UserResponse struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	IDToken      string `json:"id_token,omitempty"`
	RefreshToken string `json:"refresh_token,omitempty"`
}

// FromUser maps the domain user to its DTO.
func FromUser(u *identity.User) UserResponse {
	return UserResponse{
		ID:           u.ID,
		Email:        u.Email,
		IDToken:      u.IDToken,
		RefreshToken: u.RefreshToken,
	}
}

// SessionResponse is the session snapshot returned by every conversation
// operation: the selected transcript plus the owned list, most recent first.
type SessionResponse struct {
	ConversationID string                     `json:"conversation_id,omitempty"`
	Messages       []chat.Message             `json:"messages"`
	Conversations  []chat.ConversationSummary `json:"conversations"`
}

// FromView maps a session snapshot to its DTO.
func FromView(v *chat.View) SessionResponse {
	return SessionResponse{
		ConversationID: v.ConversationID,
		Messages:       v.Messages,
		Conversations:  v.Conversations,
	}
}
