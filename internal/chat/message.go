package chat

import (
	"time"

	"fi-dashboard-go/internal/intent"

	"github.com/google/uuid"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
)

// Message is one transcript entry. Intent and Status are set only on
// messages that ask for confirmation.
type Message struct {
	Id        string         `json:"id"`
	Role      Role           `json:"role"`
	Content   string         `json:"content"`
	Timestamp time.Time      `json:"timestamp"`
	Intent    *intent.Intent `json:"intent,omitempty"`
	Status    Status         `json:"status,omitempty"`
}

// PendingAction links an add intent to the message awaiting yes or no.
type PendingAction struct {
	Intent    intent.Intent `json:"intent"`
	MessageId string        `json:"message_id"`
}

// newMessageId is time-ordered (UUIDv7): a millisecond timestamp plus random bits.
func newMessageId() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
