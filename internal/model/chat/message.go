package chat

import "github.com/google/uuid"

// Role identifies who authored a conversation turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAssistant
}

// Message is one immutable turn of the widget transcript.
type Message struct {
	ID      string `json:"id,omitempty"`
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// NewMessage stamps a fresh identifier on a turn.
func NewMessage(role Role, content string) Message {
	return Message{
		ID:      uuid.NewString(),
		Role:    role,
		Content: content,
	}
}

// Clone copies a transcript so callers never share the backing array.
func Clone(messages []Message) []Message {
	copied := make([]Message, len(messages))
	copy(copied, messages)
	return copied
}
