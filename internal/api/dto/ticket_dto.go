package dto

import (
	"time"

	"github.com/autoserve/support-service/internal/domain"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	OwnerID     string                `json:"owner_id,omitempty"`
	Name        string                `json:"name"`
	Email       string                `json:"email"`
	Subject     string                `json:"subject"`
	Description string                `json:"description"`
	Priority    domain.TicketPriority `json:"priority"`
}

// UpdateTicketRequest carries a partial edit; absent fields stay untouched.
type UpdateTicketRequest struct {
	Name        *string                `json:"name"`
	Email       *string                `json:"email"`
	Subject     *string                `json:"subject"`
	Description *string                `json:"description"`
	Priority    *domain.TicketPriority `json:"priority"`
	Status      *domain.TicketStatus   `json:"status"`
}

// TicketResponse is the wire representation of a ticket.
type TicketResponse struct {
	ID          string                `json:"id"`
	OwnerID     string                `json:"owner_id"`
	Name        string                `json:"name"`
	Email       string                `json:"email"`
	Subject     string                `json:"subject"`
	Description string                `json:"description"`
	Priority    domain.TicketPriority `json:"priority"`
	Status      domain.TicketStatus   `json:"status"`
	CreatedAt   time.Time             `json:"created_at"`
	UpdatedAt   time.Time             `json:"updated_at"`
	AnsweredAt  *time.Time            `json:"answered_at,omitempty"`
}

// FromTicket converts the domain model.
func FromTicket(ticket *domain.Ticket) TicketResponse {
	return TicketResponse{
		ID:          ticket.ID,
		OwnerID:     ticket.OwnerID,
		Name:        ticket.Name,
		Email:       ticket.Email,
		Subject:     ticket.Subject,
		Description: ticket.Description,
		Priority:    ticket.Priority,
		Status:      ticket.Status,
		CreatedAt:   ticket.CreatedAt,
		UpdatedAt:   ticket.UpdatedAt,
		AnsweredAt:  ticket.AnsweredAt,
	}
}
