package chat

import "sync"

// Session is the transient, per-user mirror of the durable state: the
// selected conversation, its live transcript, and the owned-conversation
// list. It exists between sign-in and sign-out; the store stays the source
// of truth across restarts.
//
// The mutex serializes every mutation for the session, so two rapid sends
// cannot interleave their placeholder bookkeeping.
type Session struct {
	mu             sync.Mutex
	userID         string
	conversationID string
	messages       []Message
	conversations  []ConversationSummary
}

// NewSession creates an empty session for userID.
func NewSession(userID string) *Session {
	return &Session{userID: userID}
}

// View is an immutable snapshot of session state handed to the transport
// layer for rendering.
type View struct {
	UserID         string                `json:"user_id"`
	ConversationID string                `json:"conversation_id,omitempty"`
	Messages       []Message             `json:"messages"`
	Conversations  []ConversationSummary `json:"conversations"`
}

// view builds a snapshot. Callers must hold s.mu.
func (s *Session) view() *View {
	messages := make([]Message, len(s.messages))
	copy(messages, s.messages)
	conversations := make([]ConversationSummary, len(s.conversations))
	copy(conversations, s.conversations)
	return &View{
		UserID:         s.userID,
		ConversationID: s.conversationID,
		Messages:       messages,
		Conversations:  conversations,
	}
}

// selectConversation replaces the live transcript. Callers must hold s.mu.
func (s *Session) selectConversation(conversationID string, messages []Message) {
	s.conversationID = conversationID
	s.messages = make([]Message, len(messages))
	copy(s.messages, messages)
}

// appendMessage adds to the live transcript. Callers must hold s.mu.
func (s *Session) appendMessage(msg Message) {
	s.messages = append(s.messages, msg)
}

// resolveMessage overwrites the live entry with the matching ID. Callers
// must hold s.mu.
func (s *Session) resolveMessage(msg Message) bool {
	for i := range s.messages {
		if s.messages[i].ID == msg.ID {
			s.messages[i] = msg
			return true
		}
	}
	return false
}

// SessionRegistry tracks live sessions keyed by user ID with explicit
// init and teardown transitions.
type SessionRegistry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewSessionRegistry builds an empty registry.
func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{sessions: make(map[string]*Session)}
}

// Start creates (or returns) the session for userID. Called on sign-in.
func (r *SessionRegistry) Start(userID string) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	if sess, ok := r.sessions[userID]; ok {
		return sess
	}
	sess := NewSession(userID)
	r.sessions[userID] = sess
	return sess
}

// End discards the session for userID. Called on sign-out.
func (r *SessionRegistry) End(userID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, userID)
}

// Get returns the live session, creating one when the process restarted and
// the user still holds a valid token.
func (r *SessionRegistry) Get(userID string) *Session {
	r.mu.RLock()
	sess, ok := r.sessions[userID]
	r.mu.RUnlock()
	if ok {
		return sess
	}
	return r.Start(userID)
}
