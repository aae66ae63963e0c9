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

// UnreadCounterCache tracks per-ticket unread reply counters. Implementations
// are best-effort; every error is logged and swallowed because Postgres holds
// the authoritative read state.
type UnreadCounterCache interface {
	IncrUnreadByCustomer(ctx context.Context, ticketID string) error
	ClearUnreadByCustomer(ctx context.Context, ticketID string) error
}

// TicketService owns the ticket lifecycle: creation, listing, field edits
// with the answered-at stamping rule, and cascading deletion.
type TicketService struct {
	tickets    repository.TicketRepository
	guard      AccessGuard
	dispatcher events.Dispatcher
	cache      UnreadCounterCache
	logger     *zap.Logger
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	TicketRepo repository.TicketRepository
	Dispatcher events.Dispatcher
	Cache      UnreadCounterCache
	Logger     *zap.Logger
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TicketService{
		tickets:    deps.TicketRepo,
		dispatcher: deps.Dispatcher,
		cache:      deps.Cache,
		logger:     logger,
	}
}

// TicketCreateInput describes ticket creation payload.
type TicketCreateInput struct {
	OwnerID     string
	Name        string
	Email       string
	Subject     string
	Description string
	Priority    domain.TicketPriority
}

// TicketPatch carries partial ticket edits; nil fields stay untouched.
type TicketPatch struct {
	Name        *string
	Email       *string
	Subject     *string
	Description *string
	Priority    *domain.TicketPriority
	Status      *domain.TicketStatus
}

// TicketListInput describes listing parameters.
type TicketListInput struct {
	Statuses   []domain.TicketStatus
	Priorities []domain.TicketPriority
	SearchTerm *string
	Limit      int
	Offset     int
}

// CreateTicket opens a ticket for the owner. Subject uniqueness is not
// enforced here; the client-side duplicate check is non-authoritative.
func (s *TicketService) CreateTicket(ctx context.Context, callerRole domain.Role, callerID string, input TicketCreateInput) (*domain.Ticket, error) {
	if strings.TrimSpace(input.OwnerID) == "" {
		return nil, apperrors.NewInvalidInput("owner id required", nil)
	}
	if strings.TrimSpace(input.Subject) == "" || strings.TrimSpace(input.Description) == "" {
		return nil, apperrors.NewInvalidInput("subject and description required", nil)
	}
	// Customers open tickets for themselves; only admin-board roles may file
	// one on behalf of another user.
	if input.OwnerID != callerID && !domain.IsAdminBoard(callerRole) {
		return nil, apperrors.NewForbidden("cannot create a ticket for another user")
	}

	priority := input.Priority
	if priority == "" {
		priority = domain.TicketPriorityLow
	}
	if !domain.ValidTicketPriority(priority) {
		return nil, apperrors.NewInvalidInput("unknown priority", map[string]any{"priority": priority})
	}

	ticket := &domain.Ticket{
		OwnerID:     input.OwnerID,
		Name:        strings.TrimSpace(input.Name),
		Email:       strings.TrimSpace(input.Email),
		Subject:     strings.TrimSpace(input.Subject),
		Description: strings.TrimSpace(input.Description),
		Priority:    priority,
		Status:      domain.TicketStatusOpen,
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: ticket.ID,
		Actor:    events.Actor{UserID: callerID, Role: callerRole},
		Payload: events.TicketCreatedPayload{
			Subject:  ticket.Subject,
			Priority: ticket.Priority,
		},
	})
	return ticket, nil
}

// ListTickets returns tickets visible to the caller: all of them for
// admin-board roles, only owned ones for everyone else.
func (s *TicketService) ListTickets(ctx context.Context, callerRole domain.Role, callerID string, input TicketListInput) ([]domain.Ticket, error) {
	filter := repository.TicketFilter{
		Statuses:   input.Statuses,
		Priorities: input.Priorities,
		SearchTerm: input.SearchTerm,
		Limit:      input.Limit,
		Offset:     input.Offset,
	}
	if err := s.guard.ListScope(callerRole, callerID, &filter); err != nil {
		return nil, err
	}
	return s.tickets.List(ctx, filter)
}

// GetTicket fetches one ticket; a missing id reads NotFound before any
// authorization check runs.
func (s *TicketService) GetTicket(ctx context.Context, id string, callerRole domain.Role, callerID string) (*domain.Ticket, error) {
	ticket, err := s.loadTicket(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.guard.CanView(callerRole, callerID, ticket) {
		return nil, apperrors.NewForbidden("not allowed to view this ticket")
	}
	return ticket, nil
}

// UpdateTicket applies a field patch. A transition into Answered stamps
// answered_at; re-asserting Answered leaves the existing stamp alone, and no
// edit ever clears it. Concurrent updates are last-write-wins.
func (s *TicketService) UpdateTicket(ctx context.Context, id string, patch TicketPatch, callerRole domain.Role, callerID string) (*domain.Ticket, error) {
	ticket, err := s.loadTicket(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.guard.CanModify(callerRole, callerID, ticket) {
		return nil, apperrors.NewForbidden("not allowed to modify this ticket")
	}

	if patch.Name != nil {
		ticket.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Email != nil {
		ticket.Email = strings.TrimSpace(*patch.Email)
	}
	if patch.Subject != nil {
		if strings.TrimSpace(*patch.Subject) == "" {
			return nil, apperrors.NewInvalidInput("subject cannot be empty", nil)
		}
		ticket.Subject = strings.TrimSpace(*patch.Subject)
	}
	if patch.Description != nil {
		if strings.TrimSpace(*patch.Description) == "" {
			return nil, apperrors.NewInvalidInput("description cannot be empty", nil)
		}
		ticket.Description = strings.TrimSpace(*patch.Description)
	}
	if patch.Priority != nil {
		if !domain.ValidTicketPriority(*patch.Priority) {
			return nil, apperrors.NewInvalidInput("unknown priority", map[string]any{"priority": *patch.Priority})
		}
		ticket.Priority = *patch.Priority
	}

	oldStatus := ticket.Status
	if patch.Status != nil {
		if !domain.ValidTicketStatus(*patch.Status) {
			return nil, apperrors.NewInvalidInput("unknown status", map[string]any{"status": *patch.Status})
		}
		// Any authorized caller may set any status; only the answered
		// transition carries the timestamp side effect.
		if *patch.Status == domain.TicketStatusAnswered && ticket.Status != domain.TicketStatusAnswered {
			now := time.Now()
			ticket.AnsweredAt = &now
		}
		ticket.Status = *patch.Status
	}

	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, s.mapStoreError(err, "ticket")
	}

	if patch.Status != nil && oldStatus != ticket.Status {
		s.publishEvent(ctx, events.Event{
			Type:     events.EventTicketStatusChanged,
			TicketID: ticket.ID,
			Actor:    events.Actor{UserID: callerID, Role: callerRole},
			Payload: events.TicketStatusChangedPayload{
				OldStatus: oldStatus,
				NewStatus: ticket.Status,
			},
		})
	}
	return ticket, nil
}

// DeleteTicket removes a ticket; its replies go with it via the FK cascade.
func (s *TicketService) DeleteTicket(ctx context.Context, id string, callerRole domain.Role, callerID string) error {
	ticket, err := s.loadTicket(ctx, id)
	if err != nil {
		return err
	}
	if !s.guard.CanModify(callerRole, callerID, ticket) {
		return apperrors.NewForbidden("not allowed to delete this ticket")
	}
	if err := s.tickets.Delete(ctx, id); err != nil {
		return s.mapStoreError(err, "ticket")
	}
	if s.cache != nil {
		if err := s.cache.ClearUnreadByCustomer(ctx, id); err != nil {
			s.logger.Warn("unread cache clear failed", zap.String("ticket_id", id), zap.Error(err))
		}
	}
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketDeleted,
		TicketID: id,
		Actor:    events.Actor{UserID: callerID, Role: callerRole},
	})
	return nil
}

func (s *TicketService) loadTicket(ctx context.Context, id string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		return nil, s.mapStoreError(err, "ticket")
	}
	return ticket, nil
}

func (s *TicketService) mapStoreError(err error, resource string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewNotFound(resource, nil)
	}
	return err
}

func (s *TicketService) publishEvent(ctx context.Context, event events.Event) {
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
