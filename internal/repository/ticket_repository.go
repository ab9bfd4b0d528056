package repository

import (
	"context"
	"time"

	"go-event-ticketing/internal/model"
	apperrors "go-event-ticketing/pkg/app_errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TicketRepository interface {
	FindByCode(ctx context.Context, code uuid.UUID) (*model.Ticket, error)
	ListByEventID(ctx context.Context, eventID int) ([]*model.Ticket, error)
	CountClaimedByEventID(ctx context.Context, eventID int) (int, error)
	MarkClaimed(ctx context.Context, code uuid.UUID, claimDate time.Time) error

	// Transaction methods
	Create(ctx context.Context, tx pgx.Tx, ticket *model.Ticket) (*model.Ticket, error)
}

type TicketRepositoryImpl struct {
	pool *pgxpool.Pool
}

func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &TicketRepositoryImpl{
		pool: pool,
	}
}

// Create 在發券 transaction 內寫入一筆新票，與 IncrementSold 同生共死
func (r *TicketRepositoryImpl) Create(ctx context.Context, tx pgx.Tx, ticket *model.Ticket) (*model.Ticket, error) {
	query := `
		INSERT INTO tickets (ticket_code, event_id, is_claimed)
		VALUES ($1, $2, FALSE)
		RETURNING id, ticket_code, event_id, is_claimed, claim_date, created_at
	`

	err := tx.QueryRow(ctx, query,
		ticket.Code, ticket.EventID,
	).Scan(
		&ticket.ID,
		&ticket.Code,
		&ticket.EventID,
		&ticket.IsClaimed,
		&ticket.ClaimDate,
		&ticket.CreatedAt,
	)

	if err != nil {
		return nil, err
	}

	return ticket, nil
}

func (r *TicketRepositoryImpl) FindByCode(ctx context.Context, code uuid.UUID) (*model.Ticket, error) {
	query := `
		SELECT id, ticket_code, event_id, is_claimed, claim_date, created_at
		FROM tickets
		WHERE ticket_code = $1
	`

	var ticket model.Ticket
	err := r.pool.QueryRow(ctx, query, code).Scan(
		&ticket.ID,
		&ticket.Code,
		&ticket.EventID,
		&ticket.IsClaimed,
		&ticket.ClaimDate,
		&ticket.CreatedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrTicketNotFound
		}
		return nil, err
	}

	return &ticket, nil
}

func (r *TicketRepositoryImpl) ListByEventID(ctx context.Context, eventID int) ([]*model.Ticket, error) {
	query := `
		SELECT id, ticket_code, event_id, is_claimed, claim_date, created_at
		FROM tickets
		WHERE event_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tickets := make([]*model.Ticket, 0)
	for rows.Next() {
		var ticket model.Ticket
		err := rows.Scan(
			&ticket.ID,
			&ticket.Code,
			&ticket.EventID,
			&ticket.IsClaimed,
			&ticket.ClaimDate,
			&ticket.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		tickets = append(tickets, &ticket)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return tickets, nil
}

func (r *TicketRepositoryImpl) CountClaimedByEventID(ctx context.Context, eventID int) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM tickets
		WHERE event_id = $1 AND is_claimed = TRUE
	`

	var count int
	err := r.pool.QueryRow(ctx, query, eventID).Scan(&count)
	if err != nil {
		return 0, err
	}

	return count, nil
}

// MarkClaimed 核銷的 compare-and-set：WHERE is_claimed = FALSE 保證
// 同一張票的併發核銷只有一個贏家，輸家拿到 ErrAlreadyClaimed
func (r *TicketRepositoryImpl) MarkClaimed(ctx context.Context, code uuid.UUID, claimDate time.Time) error {
	query := `
		UPDATE tickets
		SET is_claimed = TRUE, claim_date = $1
		WHERE ticket_code = $2 AND is_claimed = FALSE
	`

	result, err := r.pool.Exec(ctx, query, claimDate, code)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		// 票存在但搶輸了，或根本不存在
		if _, err := r.FindByCode(ctx, code); err != nil {
			return err
		}
		return apperrors.ErrAlreadyClaimed
	}

	return nil
}
