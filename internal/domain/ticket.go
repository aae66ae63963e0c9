package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "Open"
	TicketStatusInProgress TicketStatus = "InProgress"
	TicketStatusAnswered   TicketStatus = "Answered"
	TicketStatusClosed     TicketStatus = "Closed"
)

// ValidTicketStatus reports whether s is a known lifecycle state.
func ValidTicketStatus(s TicketStatus) bool {
	switch s {
	case TicketStatusOpen, TicketStatusInProgress, TicketStatusAnswered, TicketStatusClosed:
		return true
	}
	return false
}

// TicketPriority enumerates urgency levels.
type TicketPriority string

const (
	TicketPriorityLow    TicketPriority = "Low"
	TicketPriorityMedium TicketPriority = "Medium"
	TicketPriorityHigh   TicketPriority = "High"
)

// ValidTicketPriority reports whether p is a known priority.
func ValidTicketPriority(p TicketPriority) bool {
	switch p {
	case TicketPriorityLow, TicketPriorityMedium, TicketPriorityHigh:
		return true
	}
	return false
}

// Ticket is the aggregate for customer support requests.
//
// AnsweredAt is stamped the first time the ticket transitions into Answered
// and is never cleared by later edits.
type Ticket struct {
	ID          string
	OwnerID     string
	Name        string
	Email       string
	Subject     string
	Description string
	Priority    TicketPriority
	Status      TicketStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
	AnsweredAt  *time.Time
}
