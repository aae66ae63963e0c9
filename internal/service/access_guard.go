package service

import (
	"strings"

	"github.com/autoserve/support-service/internal/domain"
	"github.com/autoserve/support-service/internal/repository"
	apperrors "github.com/autoserve/support-service/pkg/util"
)

// AccessGuard holds the allow/deny rules for every ticket- and reply-scoped
// operation. It is a pure decision component: it never touches storage, and
// callers are expected to resolve NotFound before consulting it.
type AccessGuard struct{}

// CanView reports whether the caller may read the ticket, its replies, or
// mark the thread read: admin-board roles and the owner.
func (AccessGuard) CanView(role domain.Role, callerID string, ticket *domain.Ticket) bool {
	return domain.IsAdminBoard(role) || ticket.OwnerID == callerID
}

// CanReply reports whether the caller may author a reply: support staff and
// the owner. An admin-board role without support duties (a plain manager) may
// read the thread but not write into it.
func (AccessGuard) CanReply(role domain.Role, callerID string, ticket *domain.Ticket) bool {
	return domain.IsSupportStaff(role) || ticket.OwnerID == callerID
}

// CanModify reports whether the caller may edit or delete the ticket or one
// of its replies: admin-board roles and the owner.
func (AccessGuard) CanModify(role domain.Role, callerID string, ticket *domain.Ticket) bool {
	return domain.IsAdminBoard(role) || ticket.OwnerID == callerID
}

// ListScope narrows a ticket listing to what the caller may see. Admin-board
// callers get the unscoped filter; everyone else is pinned to their own
// tickets and must supply a caller id.
func (AccessGuard) ListScope(role domain.Role, callerID string, filter *repository.TicketFilter) error {
	if domain.IsAdminBoard(role) {
		return nil
	}
	if strings.TrimSpace(callerID) == "" {
		return apperrors.NewInvalidInput("caller id required", nil)
	}
	owner := callerID
	filter.OwnerID = &owner
	return nil
}
