package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/autoserve/support-service/internal/domain"
	"github.com/autoserve/support-service/internal/repository"
)

// fakeTicketRepo is an in-memory TicketRepository for service tests.
type fakeTicketRepo struct {
	mu        sync.Mutex
	seq       int
	tickets   map[string]domain.Ticket
	updateErr error
}

func newFakeTicketRepo() *fakeTicketRepo {
	return &fakeTicketRepo{tickets: make(map[string]domain.Ticket)}
}

func (f *fakeTicketRepo) Create(_ context.Context, ticket *domain.Ticket) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	ticket.ID = fmt.Sprintf("tck-%d", f.seq)
	ticket.CreatedAt = time.Now().Add(time.Duration(f.seq) * time.Millisecond)
	ticket.UpdatedAt = ticket.CreatedAt
	f.tickets[ticket.ID] = *ticket
	return nil
}

func (f *fakeTicketRepo) Update(_ context.Context, ticket *domain.Ticket) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return f.updateErr
	}
	if _, ok := f.tickets[ticket.ID]; !ok {
		return pgx.ErrNoRows
	}
	ticket.UpdatedAt = time.Now()
	f.tickets[ticket.ID] = *ticket
	return nil
}

func (f *fakeTicketRepo) GetByID(_ context.Context, id string) (*domain.Ticket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ticket, ok := f.tickets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	out := ticket
	return &out, nil
}

func (f *fakeTicketRepo) List(_ context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []domain.Ticket
	for _, ticket := range f.tickets {
		if filter.OwnerID != nil && ticket.OwnerID != *filter.OwnerID {
			continue
		}
		if len(filter.Statuses) > 0 && !containsStatus(filter.Statuses, ticket.Status) {
			continue
		}
		result = append(result, ticket)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (f *fakeTicketRepo) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.tickets[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.tickets, id)
	return nil
}

func containsStatus(statuses []domain.TicketStatus, s domain.TicketStatus) bool {
	for _, candidate := range statuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// fakeReplyRepo is an in-memory ReplyRepository for service tests.
type fakeReplyRepo struct {
	mu      sync.Mutex
	seq     int
	replies map[string]domain.Reply
}

func newFakeReplyRepo() *fakeReplyRepo {
	return &fakeReplyRepo{replies: make(map[string]domain.Reply)}
}

func (f *fakeReplyRepo) Create(_ context.Context, reply *domain.Reply) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	reply.ID = fmt.Sprintf("rpl-%d", f.seq)
	reply.CreatedAt = time.Now().Add(time.Duration(f.seq) * time.Millisecond)
	reply.UpdatedAt = reply.CreatedAt
	f.replies[reply.ID] = *reply
	return nil
}

func (f *fakeReplyRepo) GetByID(_ context.Context, id string) (*domain.Reply, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	reply, ok := f.replies[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	out := reply
	return &out, nil
}

func (f *fakeReplyRepo) ListByTicket(_ context.Context, ticketID string) ([]domain.Reply, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []domain.Reply
	for _, reply := range f.replies {
		if reply.TicketID == ticketID {
			result = append(result, reply)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

func (f *fakeReplyRepo) ListAll(_ context.Context, limit, offset int) ([]domain.Reply, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []domain.Reply
	for _, reply := range f.replies {
		result = append(result, reply)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	if offset > len(result) {
		return nil, nil
	}
	result = result[offset:]
	if limit > 0 && limit < len(result) {
		result = result[:limit]
	}
	return result, nil
}

func (f *fakeReplyRepo) Update(_ context.Context, reply *domain.Reply) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.replies[reply.ID]; !ok {
		return pgx.ErrNoRows
	}
	reply.UpdatedAt = time.Now()
	f.replies[reply.ID] = *reply
	return nil
}

func (f *fakeReplyRepo) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.replies[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.replies, id)
	return nil
}

func (f *fakeReplyRepo) MarkAllReadByCustomer(_ context.Context, ticketID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int64
	for id, reply := range f.replies {
		if reply.TicketID == ticketID && !reply.ReadByCustomer {
			reply.ReadByCustomer = true
			f.replies[id] = reply
			count++
		}
	}
	return count, nil
}

// fakeUnreadCache records counter traffic and can simulate failures.
type fakeUnreadCache struct {
	mu      sync.Mutex
	counts  map[string]int
	failErr error
}

func newFakeUnreadCache() *fakeUnreadCache {
	return &fakeUnreadCache{counts: make(map[string]int)}
}

func (f *fakeUnreadCache) IncrUnreadByCustomer(_ context.Context, ticketID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failErr != nil {
		return f.failErr
	}
	f.counts[ticketID]++
	return nil
}

func (f *fakeUnreadCache) ClearUnreadByCustomer(_ context.Context, ticketID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failErr != nil {
		return f.failErr
	}
	delete(f.counts, ticketID)
	return nil
}

func (f *fakeUnreadCache) count(ticketID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.counts[ticketID]
}
