package domain

// Role identifies who authored a chat message.
type Role string

const (
	RoleUser Role = "user"
	RoleBot  Role = "bot"
)

// ChatMessage is a single transcript entry. Messages are created once per
// turn and never mutated afterwards.
type ChatMessage struct {
	ID   string `json:"id"`
	Role Role   `json:"role"`
	Text string `json:"text"`
}

// ConversationMeta stores aggregate conversation state.
type ConversationMeta struct {
	ConversationID string
	LastActivity   string
	Turns          int
}
