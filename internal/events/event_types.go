package events

import (
	"time"

	"github.com/autoserve/support-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated       EventType = "ticket_created"
	EventTicketStatusChanged EventType = "ticket_status_changed"
	EventTicketDeleted       EventType = "ticket_deleted"
	EventReplyAdded          EventType = "reply_added"
	EventTicketRepliesRead   EventType = "ticket_replies_read"
)

// Actor encapsulates the caller that triggered an event.
type Actor struct {
	UserID string      `json:"user_id"`
	Role   domain.Role `json:"role"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TicketID  string      `json:"ticket_id"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	Subject  string                `json:"subject"`
	Priority domain.TicketPriority `json:"priority"`
}

// TicketStatusChangedPayload payload.
type TicketStatusChangedPayload struct {
	OldStatus domain.TicketStatus `json:"old_status"`
	NewStatus domain.TicketStatus `json:"new_status"`
	AutoReply bool                `json:"auto_reply,omitempty"`
}

// ReplyAddedPayload payload.
type ReplyAddedPayload struct {
	ReplyID        string            `json:"reply_id"`
	SenderRole     domain.SenderRole `json:"sender_role"`
	MessagePreview string            `json:"message_preview"`
}

// TicketRepliesReadPayload payload.
type TicketRepliesReadPayload struct {
	UpdatedCount int64 `json:"updated_count"`
}
