package chat

import (
	"sync"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/tripflow/trip-assistant/internal/types"
)

// historyCapacity bounds the number of turns kept per session; appending
// beyond it evicts the oldest turn.
const historyCapacity = 20

// defaultSessionKey serves requests that carry no session identifier,
// preserving the legacy single-shared-session behavior.
const defaultSessionKey = "default"

// ChatSession holds the bounded, ordered conversation history of one
// session. Appends and reads are guarded so concurrent requests on the
// same session do not interleave partial state.
type ChatSession struct {
	mu      sync.Mutex
	history []types.ConversationMessage
}

func (s *ChatSession) Append(role types.MessageRole, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = append(s.history, types.ConversationMessage{Role: role, Content: content})
	if len(s.history) > historyCapacity {
		s.history = s.history[len(s.history)-historyCapacity:]
	}
}

// Messages returns a copy of the history in insertion order.
func (s *ChatSession) Messages() []types.ConversationMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]types.ConversationMessage, len(s.history))
	copy(out, s.history)
	return out
}

func (s *ChatSession) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.history)
}

// SessionStore keys chat sessions by a caller-supplied identifier. Idle
// sessions expire after 24 hours.
type SessionStore struct {
	sessions *cache.Cache
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: cache.New(24*time.Hour, 1*time.Hour),
	}
}

// Get returns the session for the given identifier, creating it on first
// use. An empty identifier maps to the shared default session.
func (st *SessionStore) Get(sessionID string) *ChatSession {
	if sessionID == "" {
		sessionID = defaultSessionKey
	}
	if cached, found := st.sessions.Get(sessionID); found {
		session := cached.(*ChatSession)
		// Touch on access so the TTL measures idleness, not age.
		st.sessions.SetDefault(sessionID, session)
		return session
	}
	session := &ChatSession{}
	if err := st.sessions.Add(sessionID, session, cache.DefaultExpiration); err != nil {
		// Lost the creation race; use the winner's session.
		if cached, found := st.sessions.Get(sessionID); found {
			return cached.(*ChatSession)
		}
	}
	return session
}
