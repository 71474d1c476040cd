package chat

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "chat-api/internal/domain/chat"
	"chat-api/internal/infrastructure/database/entities"
	"chat-api/internal/utils/platformerrors"
)

// PostgresRepository persists conversation documents.
type PostgresRepository struct {
	db *gorm.DB
}

// NewPostgresRepository builds a conversation repository.
func NewPostgresRepository(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// CreateConversation inserts a new record with an empty transcript.
func (r *PostgresRepository) CreateConversation(ctx context.Context, userID, title string) (*domain.Conversation, error) {
	conv, err := domain.NewConversation(userID, title)
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeInternal, "generate conversation id", err)
	}

	entity, err := entities.NewSchemaConversation(conv)
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeInternal, "encode conversation", err)
	}

	if err := r.db.WithContext(ctx).Create(entity).Error; err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError, "failed to create conversation", err)
	}

	conv.ID = entity.ID
	conv.CreatedAt = entity.CreatedAt
	conv.UpdatedAt = entity.UpdatedAt
	return conv, nil
}

// AppendMessage rewrites the transcript array with the new message appended.
// The row is locked for the rewrite so two appends never drop each other.
func (r *PostgresRepository) AppendMessage(ctx context.Context, conversationID string, msg domain.Message) error {
	return r.rewriteMessages(ctx, conversationID, func(messages []domain.Message) []domain.Message {
		return append(messages, msg)
	})
}

// ResolveMessage overwrites the stored message with the same ID in place.
// A message that never made it into the store (a degraded append) is
// appended instead, so the resolution is never lost.
func (r *PostgresRepository) ResolveMessage(ctx context.Context, conversationID string, msg domain.Message) error {
	return r.rewriteMessages(ctx, conversationID, func(messages []domain.Message) []domain.Message {
		for i := range messages {
			if messages[i].ID == msg.ID {
				messages[i] = msg
				return messages
			}
		}
		return append(messages, msg)
	})
}

func (r *PostgresRepository) rewriteMessages(ctx context.Context, conversationID string, mutate func([]domain.Message) []domain.Message) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var entity entities.Conversation
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("public_id = ?", conversationID).
			First(&entity).Error; err != nil {
			return err
		}

		conv := entity.EtoD()
		encoded, err := entities.EncodeMessages(mutate(conv.Messages))
		if err != nil {
			return err
		}

		return tx.Model(&entities.Conversation{}).
			Where("public_id = ?", conversationID).
			Update("messages", encoded).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return platformerrors.NewError(ctx, platformerrors.LayerRepository,
				platformerrors.ErrorTypeNotFound,
				fmt.Sprintf("conversation not found: %s", conversationID), nil)
		}
		return platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError, "failed to update transcript", err)
	}
	return nil
}

// ListConversations returns the owner's conversations, most recent first.
func (r *PostgresRepository) ListConversations(ctx context.Context, userID string) ([]domain.ConversationSummary, error) {
	var rows []entities.Conversation
	if err := r.db.WithContext(ctx).
		Select("public_id", "title", "created_at").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError, "failed to list conversations", err)
	}

	summaries := make([]domain.ConversationSummary, len(rows))
	for i := range rows {
		summaries[i] = domain.ConversationSummary{
			PublicID:  rows[i].PublicID,
			Title:     rows[i].Title,
			CreatedAt: rows[i].CreatedAt,
		}
	}
	return summaries, nil
}

// GetConversation fetches the full record including the transcript.
func (r *PostgresRepository) GetConversation(ctx context.Context, conversationID string) (*domain.Conversation, error) {
	var entity entities.Conversation
	if err := r.db.WithContext(ctx).
		Where("public_id = ?", conversationID).
		First(&entity).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository,
				platformerrors.ErrorTypeNotFound,
				fmt.Sprintf("conversation not found: %s", conversationID), nil)
		}
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError, "failed to fetch conversation", err)
	}
	return entity.EtoD(), nil
}

// RenameConversation overwrites the title field only.
func (r *PostgresRepository) RenameConversation(ctx context.Context, conversationID, title string) error {
	result := r.db.WithContext(ctx).Model(&entities.Conversation{}).
		Where("public_id = ?", conversationID).
		Update("title", title)
	if result.Error != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError, "failed to rename conversation", result.Error)
	}
	if result.RowsAffected == 0 {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeNotFound,
			fmt.Sprintf("conversation not found: %s", conversationID), nil)
	}
	return nil
}

// DeleteConversations lists the owner's conversations and deletes each
// record individually, mirroring the document-store contract. Not
// transactional: a failure partway through leaves a partial deletion.
func (r *PostgresRepository) DeleteConversations(ctx context.Context, userID string) (int64, error) {
	var ids []string
	if err := r.db.WithContext(ctx).Model(&entities.Conversation{}).
		Where("user_id = ?", userID).
		Pluck("public_id", &ids).Error; err != nil {
		return 0, platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError, "failed to list conversations for deletion", err)
	}

	var deleted atomic.Int64
	group, groupCtx := errgroup.WithContext(ctx)
	for _, id := range ids {
		group.Go(func() error {
			result := r.db.WithContext(groupCtx).
				Where("public_id = ?", id).
				Delete(&entities.Conversation{})
			if result.Error != nil {
				return result.Error
			}
			deleted.Add(result.RowsAffected)
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return deleted.Load(), platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError, "failed to delete conversations", err)
	}
	return deleted.Load(), nil
}

// Ensure interface compliance.
var _ domain.Store = (*PostgresRepository)(nil)
