package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/autoserve/support-service/internal/domain"
)

// ReplyRepository manages ticket thread replies.
type ReplyRepository interface {
	Create(ctx context.Context, reply *domain.Reply) error
	GetByID(ctx context.Context, id string) (*domain.Reply, error)
	ListByTicket(ctx context.Context, ticketID string) ([]domain.Reply, error)
	ListAll(ctx context.Context, limit, offset int) ([]domain.Reply, error)
	Update(ctx context.Context, reply *domain.Reply) error
	Delete(ctx context.Context, id string) error
	MarkAllReadByCustomer(ctx context.Context, ticketID string) (int64, error)
}

type replyRepository struct {
	pool *pgxpool.Pool
}

// NewReplyRepository builds repository.
func NewReplyRepository(pool *pgxpool.Pool) ReplyRepository {
	return &replyRepository{pool: pool}
}

func (r *replyRepository) Create(ctx context.Context, reply *domain.Reply) error {
	const query = `
        INSERT INTO replies (ticket_id, sender_role, message, read_by_customer, read_by_support)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		reply.TicketID,
		reply.SenderRole,
		reply.Message,
		reply.ReadByCustomer,
		reply.ReadBySupport,
	).Scan(&reply.ID, &reply.CreatedAt, &reply.UpdatedAt)
}

func (r *replyRepository) GetByID(ctx context.Context, id string) (*domain.Reply, error) {
	const query = `
        SELECT id, ticket_id, sender_role, message, read_by_customer, read_by_support, created_at, updated_at
        FROM replies WHERE id=$1`
	var reply domain.Reply
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&reply.ID,
		&reply.TicketID,
		&reply.SenderRole,
		&reply.Message,
		&reply.ReadByCustomer,
		&reply.ReadBySupport,
		&reply.CreatedAt,
		&reply.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &reply, nil
}

func (r *replyRepository) ListByTicket(ctx context.Context, ticketID string) ([]domain.Reply, error) {
	const query = `
        SELECT id, ticket_id, sender_role, message, read_by_customer, read_by_support, created_at, updated_at
        FROM replies WHERE ticket_id=$1 ORDER BY created_at ASC`
	rows, err := r.pool.Query(ctx, query, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanReplies(rows)
}

// ListAll returns the newest replies across every ticket, for the admin-board
// overview.
func (r *replyRepository) ListAll(ctx context.Context, limit, offset int) ([]domain.Reply, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	const query = `
        SELECT id, ticket_id, sender_role, message, read_by_customer, read_by_support, created_at, updated_at
        FROM replies ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanReplies(rows)
}

func (r *replyRepository) Update(ctx context.Context, reply *domain.Reply) error {
	const query = `
        UPDATE replies SET message=$1, read_by_customer=$2, read_by_support=$3, updated_at=NOW()
        WHERE id=$4`
	cmd, err := r.pool.Exec(ctx, query,
		reply.Message,
		reply.ReadByCustomer,
		reply.ReadBySupport,
		reply.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *replyRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM replies WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// MarkAllReadByCustomer flips only rows still unread, so repeated calls
// report zero additional updates.
func (r *replyRepository) MarkAllReadByCustomer(ctx context.Context, ticketID string) (int64, error) {
	const query = `
        UPDATE replies SET read_by_customer=TRUE, updated_at=NOW()
        WHERE ticket_id=$1 AND read_by_customer=FALSE`
	cmd, err := r.pool.Exec(ctx, query, ticketID)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}

func scanReplies(rows pgx.Rows) ([]domain.Reply, error) {
	var result []domain.Reply
	for rows.Next() {
		var reply domain.Reply
		if err := rows.Scan(
			&reply.ID,
			&reply.TicketID,
			&reply.SenderRole,
			&reply.Message,
			&reply.ReadByCustomer,
			&reply.ReadBySupport,
			&reply.CreatedAt,
			&reply.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, reply)
	}
	return result, rows.Err()
}
