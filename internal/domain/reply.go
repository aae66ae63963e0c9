package domain

import "time"

// SenderRole indicates which side of the conversation authored a reply.
type SenderRole string

const (
	SenderCustomer SenderRole = "customer"
	SenderSupport  SenderRole = "support"
)

// Reply is a message attached to a ticket thread.
//
// Exactly one read flag starts false at creation: the flag of the audience
// that has not seen the message yet.
type Reply struct {
	ID             string
	TicketID       string
	SenderRole     SenderRole
	Message        string
	ReadByCustomer bool
	ReadBySupport  bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NewReply builds a reply with read flags derived from the sender: the
// author's own audience has trivially read it, the other one has not.
func NewReply(ticketID string, sender SenderRole, message string) *Reply {
	return &Reply{
		TicketID:       ticketID,
		SenderRole:     sender,
		Message:        message,
		ReadByCustomer: sender == SenderCustomer,
		ReadBySupport:  sender == SenderSupport,
	}
}
