package export

import "time"

// Roles recognised in an export. Anything else is reported as RoleUnknown.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
	RoleTool      = "tool"
	RoleUnknown   = "unknown"
)

// UntitledConversation is used when a conversation has no title.
const UntitledConversation = "(untitled)"

// Message is a single dated, non-empty message pulled out of an export.
type Message struct {
	ConversationID    string    `json:"conversation_id"`
	ConversationTitle string    `json:"conversation_title"`
	MessageID         string    `json:"message_id"`
	Role              string    `json:"role"`
	CreatedAt         time.Time `json:"created_at"`
	Text              string    `json:"text"`
}

func normaliseRole(role string) string {
	switch role {
	case RoleUser, RoleAssistant, RoleSystem, RoleTool:
		return role
	default:
		return RoleUnknown
	}
}
