package chat

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"chat-api/internal/domain/llm"
	"chat-api/internal/infrastructure/metrics"
	"chat-api/internal/utils/platformerrors"
)

// PlaceholderText is shown while the generation call is in flight.
const PlaceholderText = "Reasoning..."

// FallbackText replaces the placeholder when generation fails for any
// reason: network error, malformed response, empty candidate list.
const FallbackText = "Error fetching response"

// Service exposes the session operations used by the transport layer.
type Service interface {
	// StartSession initializes the per-user session. Called on sign-in.
	StartSession(userID string)
	// EndSession tears the session down. Called on sign-out.
	EndSession(userID string)

	// NewConversation creates an empty conversation, selects it, clears the
	// live transcript, and refreshes the owned list.
	NewConversation(ctx context.Context, userID string) (*View, error)

	// SelectConversation loads the full record and replaces the live
	// transcript.
	SelectConversation(ctx context.Context, userID, conversationID string) (*View, error)

	// SendMessage runs the full send flow against the selected conversation:
	// first-message title rename, user append, placeholder insert,
	// generation, placeholder resolution.
	SendMessage(ctx context.Context, userID, conversationID, text string) (*View, error)

	// ListConversations refreshes and returns the owned list.
	ListConversations(ctx context.Context, userID string) (*View, error)

	// ClearConversations deletes every conversation owned by the user and
	// refreshes the owned list.
	ClearConversations(ctx context.Context, userID string) (*View, error)
}

type service struct {
	store     Store
	generator llm.Generator
	sessions  *SessionRegistry
	log       zerolog.Logger
}

// NewService wires the chat service with its store and generator.
func NewService(store Store, generator llm.Generator, log zerolog.Logger) Service {
	return &service{
		store:     store,
		generator: generator,
		sessions:  NewSessionRegistry(),
		log:       log.With().Str("component", "chat-service").Logger(),
	}
}

func (s *service) StartSession(userID string) {
	s.sessions.Start(userID)
	s.log.Debug().Str("user_id", userID).Msg("session started")
}

func (s *service) EndSession(userID string) {
	s.sessions.End(userID)
	s.log.Debug().Str("user_id", userID).Msg("session ended")
}

func (s *service) NewConversation(ctx context.Context, userID string) (*View, error) {
	sess := s.sessions.Get(userID)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	conv, err := s.store.CreateConversation(ctx, userID, DefaultTitle)
	if err != nil {
		s.log.Error().Err(err).Str("user_id", userID).Msg("create conversation")
		return nil, err
	}

	sess.selectConversation(conv.PublicID, nil)
	s.refreshOwnedList(ctx, sess)
	return sess.view(), nil
}

func (s *service) SelectConversation(ctx context.Context, userID, conversationID string) (*View, error) {
	sess := s.sessions.Get(userID)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	conv, err := s.loadOwned(ctx, userID, conversationID)
	if err != nil {
		return nil, err
	}

	sess.selectConversation(conv.PublicID, conv.Messages)
	return sess.view(), nil
}

func (s *service) SendMessage(ctx context.Context, userID, conversationID, text string) (*View, error) {
	if strings.TrimSpace(text) == "" {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeValidation, "message text must not be empty", nil)
	}

	sess := s.sessions.Get(userID)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.conversationID != conversationID {
		conv, err := s.loadOwned(ctx, userID, conversationID)
		if err != nil {
			return nil, err
		}
		sess.selectConversation(conv.PublicID, conv.Messages)
	}

	userMsg, err := NewUserMessage(text)
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeInternal, "generate message id", err)
	}

	// The first user message becomes the title; the rename is issued before
	// the message append.
	if len(sess.messages) == 0 {
		if err := s.store.RenameConversation(ctx, conversationID, userMsg.Text); err != nil {
			s.degrade(ctx, "rename", conversationID, err)
		}
	}

	sess.appendMessage(userMsg)
	if err := s.store.AppendMessage(ctx, conversationID, userMsg); err != nil {
		s.degrade(ctx, "append", conversationID, err)
	}
	metrics.MessagesTotal.WithLabelValues(string(SenderUser)).Inc()

	placeholder, err := NewPlaceholderMessage(PlaceholderText)
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeInternal, "generate message id", err)
	}
	sess.appendMessage(placeholder)
	if err := s.store.AppendMessage(ctx, conversationID, placeholder); err != nil {
		s.degrade(ctx, "append", conversationID, err)
	}

	responseText, err := s.generator.Generate(ctx, userMsg.Text)
	if err != nil {
		s.log.Error().Err(err).Str("conversation_id", conversationID).Msg("generation failed")
		responseText = FallbackText
	}

	resolved := placeholder.Resolved(responseText)
	sess.resolveMessage(resolved)
	if err := s.store.ResolveMessage(ctx, conversationID, resolved); err != nil {
		s.degrade(ctx, "resolve", conversationID, err)
	}
	metrics.MessagesTotal.WithLabelValues(string(SenderBot)).Inc()

	return sess.view(), nil
}

func (s *service) ListConversations(ctx context.Context, userID string) (*View, error) {
	sess := s.sessions.Get(userID)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	conversations, err := s.store.ListConversations(ctx, userID)
	if err != nil {
		s.log.Error().Err(err).Str("user_id", userID).Msg("list conversations")
		return nil, err
	}
	sess.conversations = conversations
	return sess.view(), nil
}

func (s *service) ClearConversations(ctx context.Context, userID string) (*View, error) {
	sess := s.sessions.Get(userID)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	deleted, err := s.store.DeleteConversations(ctx, userID)
	if err != nil {
		s.log.Error().Err(err).Str("user_id", userID).Msg("clear conversations")
		return nil, err
	}
	s.log.Info().Str("user_id", userID).Int64("deleted", deleted).Msg("conversations cleared")

	sess.selectConversation("", nil)
	s.refreshOwnedList(ctx, sess)
	return sess.view(), nil
}

// loadOwned fetches the conversation and enforces ownership.
func (s *service) loadOwned(ctx context.Context, userID, conversationID string) (*Conversation, error) {
	conv, err := s.store.GetConversation(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if conv.UserID != userID {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeForbidden, "conversation belongs to another user", nil)
	}
	return conv, nil
}

// refreshOwnedList reloads the owned list after a mutation. A failed refresh
// degrades to the stale list: the mutation itself already succeeded.
// Callers must hold sess.mu.
func (s *service) refreshOwnedList(ctx context.Context, sess *Session) {
	conversations, err := s.store.ListConversations(ctx, sess.userID)
	if err != nil {
		s.degrade(ctx, "list", sess.userID, err)
		return
	}
	sess.conversations = conversations
}

// degrade records a store failure the send flow carries on past. The
// transcript keeps rendering; the store may diverge until the next load.
func (s *service) degrade(ctx context.Context, operation, id string, err error) {
	metrics.StoreDegradedTotal.WithLabelValues(operation).Inc()
	s.log.Error().Err(err).Str("operation", operation).Str("id", id).Msg("store operation degraded")
}
