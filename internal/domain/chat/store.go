package chat

import "context"

// Store exposes the durable conversation operations. The store owns the
// source-of-truth representation; sessions hold a transient mirror.
//
// Every operation returns an explicit error so callers decide whether a
// failure is surfaced or degraded, instead of the adapter deciding for them.
type Store interface {
	// CreateConversation inserts a new record with an empty transcript.
	CreateConversation(ctx context.Context, userID, title string) (*Conversation, error)

	// AppendMessage adds one message to the end of the transcript.
	AppendMessage(ctx context.Context, conversationID string, msg Message) error

	// ResolveMessage overwrites the stored message with the same ID in place.
	ResolveMessage(ctx context.Context, conversationID string, msg Message) error

	// ListConversations returns the owner's conversations, most recent first.
	ListConversations(ctx context.Context, userID string) ([]ConversationSummary, error)

	// GetConversation fetches the full record including the transcript.
	GetConversation(ctx context.Context, conversationID string) (*Conversation, error)

	// RenameConversation overwrites the title field only.
	RenameConversation(ctx context.Context, conversationID, title string) error

	// DeleteConversations removes every conversation owned by userID and
	// reports how many were deleted. Deletion is per record, not
	// transactional: a partial failure leaves the remainder in place.
	DeleteConversations(ctx context.Context, userID string) (int64, error)
}
