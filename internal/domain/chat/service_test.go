package chat_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"chat-api/internal/domain/chat"
	"chat-api/internal/utils/platformerrors"
)

// MockStore is a mock implementation of chat.Store that records the order
// of mutating calls.
type MockStore struct {
	CreateConversationFunc func(ctx context.Context, userID, title string) (*chat.Conversation, error)
	AppendMessageFunc      func(ctx context.Context, conversationID string, msg chat.Message) error
	ResolveMessageFunc     func(ctx context.Context, conversationID string, msg chat.Message) error
	ListConversationsFunc  func(ctx context.Context, userID string) ([]chat.ConversationSummary, error)
	GetConversationFunc    func(ctx context.Context, conversationID string) (*chat.Conversation, error)
	RenameConversationFunc func(ctx context.Context, conversationID, title string) error
	DeleteFunc             func(ctx context.Context, userID string) (int64, error)

	Calls []string
}

func (m *MockStore) CreateConversation(ctx context.Context, userID, title string) (*chat.Conversation, error) {
	m.Calls = append(m.Calls, "create")
	if m.CreateConversationFunc != nil {
		return m.CreateConversationFunc(ctx, userID, title)
	}
	return chat.NewConversation(userID, title)
}

func (m *MockStore) AppendMessage(ctx context.Context, conversationID string, msg chat.Message) error {
	m.Calls = append(m.Calls, "append:"+string(msg.SentBy))
	if m.AppendMessageFunc != nil {
		return m.AppendMessageFunc(ctx, conversationID, msg)
	}
	return nil
}

func (m *MockStore) ResolveMessage(ctx context.Context, conversationID string, msg chat.Message) error {
	m.Calls = append(m.Calls, "resolve")
	if m.ResolveMessageFunc != nil {
		return m.ResolveMessageFunc(ctx, conversationID, msg)
	}
	return nil
}

func (m *MockStore) ListConversations(ctx context.Context, userID string) ([]chat.ConversationSummary, error) {
	m.Calls = append(m.Calls, "list")
	if m.ListConversationsFunc != nil {
		return m.ListConversationsFunc(ctx, userID)
	}
	return nil, nil
}

func (m *MockStore) GetConversation(ctx context.Context, conversationID string) (*chat.Conversation, error) {
	m.Calls = append(m.Calls, "get")
	if m.GetConversationFunc != nil {
		return m.GetConversationFunc(ctx, conversationID)
	}
	return &chat.Conversation{PublicID: conversationID, UserID: "user-1", CreatedAt: time.Now()}, nil
}

func (m *MockStore) RenameConversation(ctx context.Context, conversationID, title string) error {
	m.Calls = append(m.Calls, "rename")
	if m.RenameConversationFunc != nil {
		return m.RenameConversationFunc(ctx, conversationID, title)
	}
	return nil
}

func (m *MockStore) DeleteConversations(ctx context.Context, userID string) (int64, error) {
	m.Calls = append(m.Calls, "delete")
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, userID)
	}
	return 0, nil
}

// MockGenerator is a mock implementation of llm.Generator.
type MockGenerator struct {
	GenerateFunc func(ctx context.Context, prompt string) (string, error)
	Calls        int
}

func (m *MockGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	m.Calls++
	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, prompt)
	}
	return "generated reply", nil
}

func newTestService(store chat.Store, generator *MockGenerator) chat.Service {
	return chat.NewService(store, generator, zerolog.Nop())
}

func TestNewConversation_SelectsAndRefreshes(t *testing.T) {
	store := &MockStore{}
	svc := newTestService(store, &MockGenerator{})
	svc.StartSession("user-1")

	view, err := svc.NewConversation(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("NewConversation returned error: %v", err)
	}
	if view.ConversationID == "" {
		t.Error("expected new conversation to be selected")
	}
	if len(view.Messages) != 0 {
		t.Errorf("expected empty transcript, got %d messages", len(view.Messages))
	}

	want := []string{"create", "list"}
	if len(store.Calls) != len(want) {
		t.Fatalf("expected calls %v, got %v", want, store.Calls)
	}
	for i := range want {
		if store.Calls[i] != want[i] {
			t.Errorf("call %d: expected %q, got %q", i, want[i], store.Calls[i])
		}
	}
}

func TestSendMessage_FirstMessageRenamesBeforeAppend(t *testing.T) {
	conv, _ := chat.NewConversation("user-1", chat.DefaultTitle)
	store := &MockStore{
		GetConversationFunc: func(ctx context.Context, conversationID string) (*chat.Conversation, error) {
			return conv, nil
		},
	}
	var renamedTo string
	store.RenameConversationFunc = func(ctx context.Context, conversationID, title string) error {
		renamedTo = title
		return nil
	}
	svc := newTestService(store, &MockGenerator{})
	svc.StartSession("user-1")

	view, err := svc.SendMessage(context.Background(), "user-1", conv.PublicID, "hello there")
	if err != nil {
		t.Fatalf("SendMessage returned error: %v", err)
	}

	if renamedTo != "hello there" {
		t.Errorf("expected title renamed to first message, got %q", renamedTo)
	}

	// Rename must be issued before the user message append.
	var renameIdx, appendIdx = -1, -1
	for i, call := range store.Calls {
		switch call {
		case "rename":
			if renameIdx == -1 {
				renameIdx = i
			}
		case "append:User":
			if appendIdx == -1 {
				appendIdx = i
			}
		}
	}
	if renameIdx == -1 || appendIdx == -1 || renameIdx > appendIdx {
		t.Errorf("expected rename before user append, calls: %v", store.Calls)
	}

	if len(view.Messages) != 2 {
		t.Fatalf("expected user message plus resolved reply, got %d", len(view.Messages))
	}
	if view.Messages[0].SentBy != chat.SenderUser || view.Messages[0].Text != "hello there" {
		t.Errorf("unexpected first message: %+v", view.Messages[0])
	}
	if view.Messages[1].SentBy != chat.SenderBot || view.Messages[1].Text != "generated reply" {
		t.Errorf("unexpected reply: %+v", view.Messages[1])
	}
	if view.Messages[1].State != chat.MessageStateDelivered {
		t.Errorf("expected delivered reply, got %s", view.Messages[1].State)
	}
}

func TestSendMessage_SecondMessageKeepsTitle(t *testing.T) {
	conv, _ := chat.NewConversation("user-1", "existing title")
	store := &MockStore{
		GetConversationFunc: func(ctx context.Context, conversationID string) (*chat.Conversation, error) {
			return conv, nil
		},
	}
	svc := newTestService(store, &MockGenerator{})
	svc.StartSession("user-1")

	ctx := context.Background()
	if _, err := svc.SendMessage(ctx, "user-1", conv.PublicID, "first"); err != nil {
		t.Fatalf("first send failed: %v", err)
	}
	if _, err := svc.SendMessage(ctx, "user-1", conv.PublicID, "second"); err != nil {
		t.Fatalf("second send failed: %v", err)
	}

	renames := 0
	for _, call := range store.Calls {
		if call == "rename" {
			renames++
		}
	}
	if renames != 1 {
		t.Errorf("expected exactly one rename, got %d (calls: %v)", renames, store.Calls)
	}
}

func TestSendMessage_FallbackOnGeneratorError(t *testing.T) {
	conv, _ := chat.NewConversation("user-1", chat.DefaultTitle)
	store := &MockStore{
		GetConversationFunc: func(ctx context.Context, conversationID string) (*chat.Conversation, error) {
			return conv, nil
		},
	}
	generator := &MockGenerator{
		GenerateFunc: func(ctx context.Context, prompt string) (string, error) {
			return "", errors.New("network down")
		},
	}
	svc := newTestService(store, generator)
	svc.StartSession("user-1")

	view, err := svc.SendMessage(context.Background(), "user-1", conv.PublicID, "hello")
	if err != nil {
		t.Fatalf("SendMessage must not fail on generation error, got: %v", err)
	}

	last := view.Messages[len(view.Messages)-1]
	if last.Text != chat.FallbackText {
		t.Errorf("expected fallback text %q, got %q", chat.FallbackText, last.Text)
	}
	if last.SentBy != chat.SenderBot {
		t.Errorf("expected bot message, got %s", last.SentBy)
	}
	if last.State != chat.MessageStateDelivered {
		t.Errorf("fallback must resolve the placeholder, got state %s", last.State)
	}
}

func TestSendMessage_ResolvesPlaceholderByID(t *testing.T) {
	conv, _ := chat.NewConversation("user-1", chat.DefaultTitle)
	store := &MockStore{
		GetConversationFunc: func(ctx context.Context, conversationID string) (*chat.Conversation, error) {
			return conv, nil
		},
	}
	var appendedPlaceholder, resolved chat.Message
	store.AppendMessageFunc = func(ctx context.Context, conversationID string, msg chat.Message) error {
		if msg.SentBy == chat.SenderBot {
			appendedPlaceholder = msg
		}
		return nil
	}
	store.ResolveMessageFunc = func(ctx context.Context, conversationID string, msg chat.Message) error {
		resolved = msg
		return nil
	}
	svc := newTestService(store, &MockGenerator{})
	svc.StartSession("user-1")

	view, err := svc.SendMessage(context.Background(), "user-1", conv.PublicID, "hello")
	if err != nil {
		t.Fatalf("SendMessage returned error: %v", err)
	}

	if appendedPlaceholder.Text != chat.PlaceholderText {
		t.Fatalf("expected placeholder append, got %+v", appendedPlaceholder)
	}
	if resolved.ID != appendedPlaceholder.ID {
		t.Errorf("resolution must target the placeholder ID %q, got %q", appendedPlaceholder.ID, resolved.ID)
	}
	// The live transcript keeps a single bot entry, overwritten in place.
	botCount := 0
	for _, msg := range view.Messages {
		if msg.SentBy == chat.SenderBot {
			botCount++
		}
	}
	if botCount != 1 {
		t.Errorf("expected one bot message, got %d", botCount)
	}
}

func TestSendMessage_EmptyTextRejected(t *testing.T) {
	store := &MockStore{}
	svc := newTestService(store, &MockGenerator{})
	svc.StartSession("user-1")

	_, err := svc.SendMessage(context.Background(), "user-1", "conv_x", "   ")
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !platformerrors.IsErrorType(err, platformerrors.ErrorTypeValidation) {
		t.Errorf("expected validation error type, got %v", err)
	}
	if len(store.Calls) != 0 {
		t.Errorf("store must not be touched, got calls %v", store.Calls)
	}
}

func TestSendMessage_DegradesOnStoreFailure(t *testing.T) {
	conv, _ := chat.NewConversation("user-1", chat.DefaultTitle)
	store := &MockStore{
		GetConversationFunc: func(ctx context.Context, conversationID string) (*chat.Conversation, error) {
			return conv, nil
		},
		AppendMessageFunc: func(ctx context.Context, conversationID string, msg chat.Message) error {
			return errors.New("store unavailable")
		},
		RenameConversationFunc: func(ctx context.Context, conversationID, title string) error {
			return errors.New("store unavailable")
		},
		ResolveMessageFunc: func(ctx context.Context, conversationID string, msg chat.Message) error {
			return errors.New("store unavailable")
		},
	}
	svc := newTestService(store, &MockGenerator{})
	svc.StartSession("user-1")

	view, err := svc.SendMessage(context.Background(), "user-1", conv.PublicID, "hello")
	if err != nil {
		t.Fatalf("send flow must degrade past store failures, got: %v", err)
	}
	if len(view.Messages) != 2 {
		t.Errorf("live transcript must keep rendering, got %d messages", len(view.Messages))
	}
}

func TestSelectConversation_ForbiddenForOtherOwner(t *testing.T) {
	store := &MockStore{
		GetConversationFunc: func(ctx context.Context, conversationID string) (*chat.Conversation, error) {
			return &chat.Conversation{PublicID: conversationID, UserID: "someone-else"}, nil
		},
	}
	svc := newTestService(store, &MockGenerator{})
	svc.StartSession("user-1")

	_, err := svc.SelectConversation(context.Background(), "user-1", "conv_x")
	if err == nil {
		t.Fatal("expected forbidden error")
	}
	if !platformerrors.IsErrorType(err, platformerrors.ErrorTypeForbidden) {
		t.Errorf("expected forbidden error type, got %v", err)
	}
}

func TestListConversations_MostRecentFirstPassthrough(t *testing.T) {
	now := time.Now()
	store := &MockStore{
		ListConversationsFunc: func(ctx context.Context, userID string) ([]chat.ConversationSummary, error) {
			return []chat.ConversationSummary{
				{PublicID: "conv_b", CreatedAt: now},
				{PublicID: "conv_a", CreatedAt: now.Add(-time.Hour)},
			}, nil
		},
	}
	svc := newTestService(store, &MockGenerator{})
	svc.StartSession("user-1")

	view, err := svc.ListConversations(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("ListConversations returned error: %v", err)
	}
	if len(view.Conversations) != 2 {
		t.Fatalf("expected 2 conversations, got %d", len(view.Conversations))
	}
	if view.Conversations[0].PublicID != "conv_b" {
		t.Errorf("expected most recent first, got %q", view.Conversations[0].PublicID)
	}
}

func TestClearConversations_DeselectsAndRefreshes(t *testing.T) {
	store := &MockStore{
		DeleteFunc: func(ctx context.Context, userID string) (int64, error) {
			return 3, nil
		},
	}
	svc := newTestService(store, &MockGenerator{})
	svc.StartSession("user-1")

	view, err := svc.ClearConversations(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("ClearConversations returned error: %v", err)
	}
	if view.ConversationID != "" {
		t.Errorf("expected no selection after clear, got %q", view.ConversationID)
	}
	if len(view.Messages) != 0 {
		t.Errorf("expected empty transcript after clear, got %d", len(view.Messages))
	}

	want := []string{"delete", "list"}
	if fmt.Sprint(store.Calls) != fmt.Sprint(want) {
		t.Errorf("expected calls %v, got %v", want, store.Calls)
	}
}

func TestEndSession_DiscardsLiveState(t *testing.T) {
	conv, _ := chat.NewConversation("user-1", chat.DefaultTitle)
	store := &MockStore{
		GetConversationFunc: func(ctx context.Context, conversationID string) (*chat.Conversation, error) {
			return conv, nil
		},
	}
	svc := newTestService(store, &MockGenerator{})
	svc.StartSession("user-1")

	ctx := context.Background()
	if _, err := svc.SendMessage(ctx, "user-1", conv.PublicID, "hello"); err != nil {
		t.Fatalf("send failed: %v", err)
	}

	svc.EndSession("user-1")
	svc.StartSession("user-1")

	view, err := svc.ListConversations(ctx, "user-1")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if view.ConversationID != "" || len(view.Messages) != 0 {
		t.Errorf("expected fresh session after sign out, got %+v", view)
	}
}
