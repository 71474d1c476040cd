package chat

import (
	"context"
	"fmt"
	"sort"
	"sync"

	domain "chat-api/internal/domain/chat"
	"chat-api/internal/utils/platformerrors"
)

// InMemoryRepository is a thread-safe store useful for demos/tests.
// It implements the same contract as the postgres repository, including
// per-record deletion and most-recent-first listing.
type InMemoryRepository struct {
	mu            sync.RWMutex
	nextID        uint
	conversations map[string]*domain.Conversation
}

// NewInMemoryRepository builds an empty in-memory store.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		conversations: make(map[string]*domain.Conversation),
	}
}

// CreateConversation inserts a new record with an empty transcript.
func (r *InMemoryRepository) CreateConversation(ctx context.Context, userID, title string) (*domain.Conversation, error) {
	conv, err := domain.NewConversation(userID, title)
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeInternal, "generate conversation id", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	conv.ID = r.nextID
	r.conversations[conv.PublicID] = cloneConversation(conv)
	return conv, nil
}

// AppendMessage adds one message to the end of the transcript.
func (r *InMemoryRepository) AppendMessage(ctx context.Context, conversationID string, msg domain.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	conv, ok := r.conversations[conversationID]
	if !ok {
		return r.notFound(ctx, conversationID)
	}
	conv.Messages = append(conv.Messages, msg)
	return nil
}

// ResolveMessage overwrites the stored message with the same ID in place,
// appending instead when the ID was never stored.
func (r *InMemoryRepository) ResolveMessage(ctx context.Context, conversationID string, msg domain.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	conv, ok := r.conversations[conversationID]
	if !ok {
		return r.notFound(ctx, conversationID)
	}
	for i := range conv.Messages {
		if conv.Messages[i].ID == msg.ID {
			conv.Messages[i] = msg
			return nil
		}
	}
	conv.Messages = append(conv.Messages, msg)
	return nil
}

// ListConversations returns the owner's conversations, most recent first.
func (r *InMemoryRepository) ListConversations(ctx context.Context, userID string) ([]domain.ConversationSummary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	summaries := make([]domain.ConversationSummary, 0)
	for _, conv := range r.conversations {
		if conv.UserID == userID {
			summaries = append(summaries, conv.Summary())
		}
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].CreatedAt.After(summaries[j].CreatedAt)
	})
	return summaries, nil
}

// GetConversation fetches the full record including the transcript.
func (r *InMemoryRepository) GetConversation(ctx context.Context, conversationID string) (*domain.Conversation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	conv, ok := r.conversations[conversationID]
	if !ok {
		return nil, r.notFound(ctx, conversationID)
	}
	return cloneConversation(conv), nil
}

// RenameConversation overwrites the title field only.
func (r *InMemoryRepository) RenameConversation(ctx context.Context, conversationID, title string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	conv, ok := r.conversations[conversationID]
	if !ok {
		return r.notFound(ctx, conversationID)
	}
	conv.Title = title
	return nil
}

// DeleteConversations removes every conversation owned by userID.
func (r *InMemoryRepository) DeleteConversations(ctx context.Context, userID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var deleted int64
	for id, conv := range r.conversations {
		if conv.UserID == userID {
			delete(r.conversations, id)
			deleted++
		}
	}
	return deleted, nil
}

func (r *InMemoryRepository) notFound(ctx context.Context, conversationID string) error {
	return platformerrors.NewError(ctx, platformerrors.LayerRepository,
		platformerrors.ErrorTypeNotFound,
		fmt.Sprintf("conversation not found: %s", conversationID), nil)
}

func cloneConversation(conv *domain.Conversation) *domain.Conversation {
	clone := *conv
	clone.Messages = make([]domain.Message, len(conv.Messages))
	copy(clone.Messages, conv.Messages)
	return &clone
}

// Ensure interface compliance.
var _ domain.Store = (*InMemoryRepository)(nil)
