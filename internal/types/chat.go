package types

type MessageRole string

const (
	RoleUser MessageRole = "user"
	// RoleAI is the stored role tag for assistant turns; it maps to the
	// completion API's "assistant" role on the wire.
	RoleAI MessageRole = "ai"
)

// ConversationMessage is one turn (user or ai) in a chat session history.
type ConversationMessage struct {
	Role    MessageRole `json:"role"`
	Content string      `json:"content"`
}

// ChatRequest is the inbound body of the chat endpoint. TripID takes
// priority over the legacy inline Trip/Activities fields.
type ChatRequest struct {
	Message    string         `json:"message"`
	SessionID  string         `json:"sessionId,omitempty"`
	TripID     string         `json:"tripId,omitempty"`
	Trip       *TripSummary   `json:"trip,omitempty"`
	Activities []TripActivity `json:"activities,omitempty"`
}

// ChatResponse always carries a human-readable reply, even on failure.
type ChatResponse struct {
	Reply string `json:"reply"`
}
