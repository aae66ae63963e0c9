package dto

import (
	"time"

	"github.com/autoserve/support-service/internal/domain"
)

// CreateReplyRequest payload.
type CreateReplyRequest struct {
	Message string `json:"message"`
}

// UpdateReplyRequest payload.
type UpdateReplyRequest struct {
	Message string `json:"message"`
}

// ReplyResponse is the wire representation of a reply.
type ReplyResponse struct {
	ID             string            `json:"id"`
	TicketID       string            `json:"ticket_id"`
	SenderRole     domain.SenderRole `json:"sender_role"`
	Message        string            `json:"message"`
	ReadByCustomer bool              `json:"read_by_customer"`
	ReadBySupport  bool              `json:"read_by_support"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

// MarkReadResponse reports how many replies were flipped.
type MarkReadResponse struct {
	UpdatedCount int64 `json:"updated_count"`
}

// FromReply converts the domain model.
func FromReply(reply *domain.Reply) ReplyResponse {
	return ReplyResponse{
		ID:             reply.ID,
		TicketID:       reply.TicketID,
		SenderRole:     reply.SenderRole,
		Message:        reply.Message,
		ReadByCustomer: reply.ReadByCustomer,
		ReadBySupport:  reply.ReadBySupport,
		CreatedAt:      reply.CreatedAt,
		UpdatedAt:      reply.UpdatedAt,
	}
}

// FromReplies converts a slice preserving order.
func FromReplies(replies []domain.Reply) []ReplyResponse {
	out := make([]ReplyResponse, 0, len(replies))
	for i := range replies {
		out = append(out, FromReply(&replies[i]))
	}
	return out
}
