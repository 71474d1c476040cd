package entities

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"

	"chat-api/internal/domain/chat"
)

// Conversation is the database schema for conversation documents. The
// transcript lives in a single jsonb array column, mirroring the document
// record shape: every append rewrites the whole array.
type Conversation struct {
	ID        uint      `gorm:"primaryKey"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	PublicID string         `gorm:"type:varchar(50);uniqueIndex;not null"`
	UserID   string         `gorm:"type:varchar(64);index:idx_conversation_user;not null"`
	Title    string         `gorm:"type:varchar(256);not null"`
	Messages datatypes.JSON `gorm:"type:jsonb"`
}

// TableName specifies the table name for Conversation.
func (Conversation) TableName() string {
	return "conversations"
}

// EtoD converts the database entity to the domain model. A transcript that
// fails to decode is treated as empty rather than poisoning the record.
func (c *Conversation) EtoD() *chat.Conversation {
	var messages []chat.Message
	if len(c.Messages) > 0 {
		if err := json.Unmarshal(c.Messages, &messages); err != nil {
			messages = nil
		}
	}
	if messages == nil {
		messages = []chat.Message{}
	}
	return &chat.Conversation{
		ID:        c.ID,
		PublicID:  c.PublicID,
		UserID:    c.UserID,
		Title:     c.Title,
		Messages:  messages,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// NewSchemaConversation creates a database entity from the domain model.
func NewSchemaConversation(c *chat.Conversation) (*Conversation, error) {
	messages := c.Messages
	if messages == nil {
		messages = []chat.Message{}
	}
	raw, err := json.Marshal(messages)
	if err != nil {
		return nil, err
	}
	return &Conversation{
		ID:        c.ID,
		PublicID:  c.PublicID,
		UserID:    c.UserID,
		Title:     c.Title,
		Messages:  datatypes.JSON(raw),
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}, nil
}

// EncodeMessages serializes a transcript for direct column updates.
func EncodeMessages(messages []chat.Message) (datatypes.JSON, error) {
	if messages == nil {
		messages = []chat.Message{}
	}
	raw, err := json.Marshal(messages)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}
