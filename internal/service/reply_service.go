package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/autoserve/support-service/internal/domain"
	"github.com/autoserve/support-service/internal/events"
	"github.com/autoserve/support-service/internal/repository"
	apperrors "github.com/autoserve/support-service/pkg/util"
)

// ReplyService orchestrates the reply thread: posting with the automatic
// answered transition, read tracking, and reply edits.
type ReplyService struct {
	tickets    repository.TicketRepository
	replies    repository.ReplyRepository
	guard      AccessGuard
	dispatcher events.Dispatcher
	cache      UnreadCounterCache
	logger     *zap.Logger
}

// ReplyDependencies bundles collaborators for the reply service.
type ReplyDependencies struct {
	TicketRepo repository.TicketRepository
	ReplyRepo  repository.ReplyRepository
	Dispatcher events.Dispatcher
	Cache      UnreadCounterCache
	Logger     *zap.Logger
}

// NewReplyService constructs the service.
func NewReplyService(deps ReplyDependencies) *ReplyService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReplyService{
		tickets:    deps.TicketRepo,
		replies:    deps.ReplyRepo,
		dispatcher: deps.Dispatcher,
		cache:      deps.Cache,
		logger:     logger,
	}
}

// PostReply appends a message to the ticket thread. Support replies flip an
// unanswered ticket to Answered as a best-effort side effect: if that second
// write fails the reply still stands, and the failure is only observable in
// the logs.
func (s *ReplyService) PostReply(ctx context.Context, ticketID string, callerRole domain.Role, callerID, message string) (*domain.Reply, error) {
	ticket, err := s.loadTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	trimmed := strings.TrimSpace(message)
	if trimmed == "" {
		return nil, apperrors.NewInvalidInput("message required", nil)
	}

	sender := domain.SenderCustomer
	if domain.IsSupportStaff(callerRole) {
		sender = domain.SenderSupport
	}
	if !s.guard.CanReply(callerRole, callerID, ticket) {
		return nil, apperrors.NewForbidden("only support staff or the ticket owner can reply")
	}

	reply := domain.NewReply(ticket.ID, sender, trimmed)
	if err := s.replies.Create(ctx, reply); err != nil {
		return nil, err
	}

	if sender == domain.SenderSupport {
		s.markAnswered(ctx, ticket, callerRole, callerID)
		if s.cache != nil {
			if err := s.cache.IncrUnreadByCustomer(ctx, ticket.ID); err != nil {
				s.logger.Warn("unread cache incr failed", zap.String("ticket_id", ticket.ID), zap.Error(err))
			}
		}
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventReplyAdded,
		TicketID: ticket.ID,
		Actor:    events.Actor{UserID: callerID, Role: callerRole},
		Payload: events.ReplyAddedPayload{
			ReplyID:        reply.ID,
			SenderRole:     reply.SenderRole,
			MessagePreview: messagePreview(reply.Message, 120),
		},
	})
	return reply, nil
}

// markAnswered flips an unanswered ticket to Answered and stamps answered_at.
// Deliberately non-fatal: the reply has already been persisted and a crash or
// storage error here must not roll it back.
func (s *ReplyService) markAnswered(ctx context.Context, ticket *domain.Ticket, callerRole domain.Role, callerID string) {
	if ticket.Status == domain.TicketStatusAnswered {
		return
	}
	oldStatus := ticket.Status
	now := time.Now()
	ticket.Status = domain.TicketStatusAnswered
	ticket.AnsweredAt = &now
	if err := s.tickets.Update(ctx, ticket); err != nil {
		s.logger.Warn("auto-answer status update failed",
			zap.String("ticket_id", ticket.ID),
			zap.Error(err))
		return
	}
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketStatusChanged,
		TicketID: ticket.ID,
		Actor:    events.Actor{UserID: callerID, Role: callerRole},
		Payload: events.TicketStatusChangedPayload{
			OldStatus: oldStatus,
			NewStatus: domain.TicketStatusAnswered,
			AutoReply: true,
		},
	})
}

// ListReplies returns the ticket thread oldest-first.
func (s *ReplyService) ListReplies(ctx context.Context, ticketID string, callerRole domain.Role, callerID string) ([]domain.Reply, error) {
	ticket, err := s.loadTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if !s.guard.CanView(callerRole, callerID, ticket) {
		return nil, apperrors.NewForbidden("not allowed to view this ticket")
	}
	return s.replies.ListByTicket(ctx, ticketID)
}

// ListAllReplies is the admin-board overview across every ticket,
// newest-first.
func (s *ReplyService) ListAllReplies(ctx context.Context, callerRole domain.Role, limit, offset int) ([]domain.Reply, error) {
	if !domain.IsAdminBoard(callerRole) {
		return nil, apperrors.NewForbidden("admin board role required")
	}
	return s.replies.ListAll(ctx, limit, offset)
}

// MarkTicketRead clears the customer-facing unread flag on the whole thread
// and reports how many replies actually flipped. There is no symmetric
// support-side operation; support unread badges persist by design of the
// current product surface.
func (s *ReplyService) MarkTicketRead(ctx context.Context, ticketID string, callerRole domain.Role, callerID string) (int64, error) {
	ticket, err := s.loadTicket(ctx, ticketID)
	if err != nil {
		return 0, err
	}
	if !s.guard.CanView(callerRole, callerID, ticket) {
		return 0, apperrors.NewForbidden("not allowed to view this ticket")
	}
	count, err := s.replies.MarkAllReadByCustomer(ctx, ticketID)
	if err != nil {
		return 0, err
	}
	if s.cache != nil {
		if err := s.cache.ClearUnreadByCustomer(ctx, ticketID); err != nil {
			s.logger.Warn("unread cache clear failed", zap.String("ticket_id", ticketID), zap.Error(err))
		}
	}
	if count > 0 {
		s.publishEvent(ctx, events.Event{
			Type:     events.EventTicketRepliesRead,
			TicketID: ticketID,
			Actor:    events.Actor{UserID: callerID, Role: callerRole},
			Payload:  events.TicketRepliesReadPayload{UpdatedCount: count},
		})
	}
	return count, nil
}

// UpdateReply edits a reply's message. Allowed for the owning customer and
// admin-board roles.
func (s *ReplyService) UpdateReply(ctx context.Context, replyID, newMessage string, callerRole domain.Role, callerID string) (*domain.Reply, error) {
	reply, ticket, err := s.loadReplyWithTicket(ctx, replyID)
	if err != nil {
		return nil, err
	}
	trimmed := strings.TrimSpace(newMessage)
	if trimmed == "" {
		return nil, apperrors.NewInvalidInput("message required", nil)
	}
	if !s.guard.CanModify(callerRole, callerID, ticket) {
		return nil, apperrors.NewForbidden("not allowed to modify this reply")
	}
	reply.Message = trimmed
	if err := s.replies.Update(ctx, reply); err != nil {
		return nil, s.mapStoreError(err, "reply")
	}
	return reply, nil
}

// DeleteReply removes a single reply from the thread.
func (s *ReplyService) DeleteReply(ctx context.Context, replyID string, callerRole domain.Role, callerID string) error {
	reply, ticket, err := s.loadReplyWithTicket(ctx, replyID)
	if err != nil {
		return err
	}
	if !s.guard.CanModify(callerRole, callerID, ticket) {
		return apperrors.NewForbidden("not allowed to delete this reply")
	}
	if err := s.replies.Delete(ctx, reply.ID); err != nil {
		return s.mapStoreError(err, "reply")
	}
	return nil
}

func (s *ReplyService) loadTicket(ctx context.Context, id string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		return nil, s.mapStoreError(err, "ticket")
	}
	return ticket, nil
}

func (s *ReplyService) loadReplyWithTicket(ctx context.Context, replyID string) (*domain.Reply, *domain.Ticket, error) {
	reply, err := s.replies.GetByID(ctx, replyID)
	if err != nil {
		return nil, nil, s.mapStoreError(err, "reply")
	}
	ticket, err := s.loadTicket(ctx, reply.TicketID)
	if err != nil {
		return nil, nil, err
	}
	return reply, ticket, nil
}

func (s *ReplyService) mapStoreError(err error, resource string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewNotFound(resource, nil)
	}
	return err
}

func (s *ReplyService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func messagePreview(body string, max int) string {
	body = strings.TrimSpace(body)
	if len(body) <= max {
		return body
	}
	if max <= 3 {
		return body[:max]
	}
	return body[:max-3] + "..."
}
