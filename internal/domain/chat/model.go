package chat

import (
	"time"

	"chat-api/internal/utils/idgen"
)

// Sender indicates who authored a message.
type Sender string

const (
	SenderUser Sender = "User"
	SenderBot  Sender = "Bot"
)

// MessageState tracks delivery of a message.
// Read is modeled for forward compatibility; no operation transitions to it.
type MessageState string

const (
	MessageStateSent      MessageState = "Sent"
	MessageStateDelivered MessageState = "Delivered"
	MessageStateRead      MessageState = "Read"
)

// Message is a single transcript entry. Messages are append-only: once part
// of a conversation they are never mutated, with the sole exception of a
// pending placeholder being resolved in place, located by its ID.
type Message struct {
	ID     string       `json:"id"`
	Text   string       `json:"text"`
	SentBy Sender       `json:"sent_by"`
	Date   time.Time    `json:"date"`
	State  MessageState `json:"state"`
}

// Conversation is a named, owned, ordered sequence of messages.
type Conversation struct {
	ID        uint      `json:"-"`
	PublicID  string    `json:"id"`
	UserID    string    `json:"-"`
	Title     string    `json:"title"`
	Messages  []Message `json:"messages"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ConversationSummary is the list shape: no transcript attached.
type ConversationSummary struct {
	PublicID  string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}

// DefaultTitle is assigned on creation and replaced by the first user
// message sent into the conversation.
const DefaultTitle = "New Chat"

// NewConversation builds an empty conversation owned by userID.
func NewConversation(userID, title string) (*Conversation, error) {
	publicID, err := idgen.GenerateSecureID("conv", 24)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	return &Conversation{
		PublicID:  publicID,
		UserID:    userID,
		Title:     title,
		Messages:  []Message{},
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// NewUserMessage builds a user-authored message in the Sent state.
func NewUserMessage(text string) (Message, error) {
	id, err := idgen.GenerateSecureID("msg", 24)
	if err != nil {
		return Message{}, err
	}
	return Message{
		ID:     id,
		Text:   text,
		SentBy: SenderUser,
		Date:   time.Now(),
		State:  MessageStateSent,
	}, nil
}

// NewPlaceholderMessage builds the pending bot message shown while the
// generation call is in flight. It carries its own ID so the eventual
// resolution targets this exact entry, never "the last element".
func NewPlaceholderMessage(text string) (Message, error) {
	id, err := idgen.GenerateSecureID("msg", 24)
	if err != nil {
		return Message{}, err
	}
	return Message{
		ID:     id,
		Text:   text,
		SentBy: SenderBot,
		Date:   time.Now(),
		State:  MessageStateSent,
	}, nil
}

// Resolved returns a copy of the placeholder carrying the final text in the
// Delivered state. The ID is preserved.
func (m Message) Resolved(text string) Message {
	return Message{
		ID:     m.ID,
		Text:   text,
		SentBy: SenderBot,
		Date:   time.Now(),
		State:  MessageStateDelivered,
	}
}

// Summary projects the conversation into its list shape.
func (c *Conversation) Summary() ConversationSummary {
	return ConversationSummary{
		PublicID:  c.PublicID,
		Title:     c.Title,
		CreatedAt: c.CreatedAt,
	}
}
