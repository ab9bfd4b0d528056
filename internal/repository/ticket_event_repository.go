package repository

import (
	"context"
	"fmt"

	"go-event-ticketing/internal/model"

	"github.com/jackc/pgx/v5/pgxpool"
)

// TicketEventRepository 稽核軌跡，append-only，由 audit worker 寫入
type TicketEventRepository interface {
	Insert(ctx context.Context, event *model.TicketEvent) error
	ListByEventID(ctx context.Context, eventID int) ([]*model.TicketEvent, error)
}

type TicketEventRepositoryImpl struct {
	pool *pgxpool.Pool
}

func NewTicketEventRepository(pool *pgxpool.Pool) TicketEventRepository {
	return &TicketEventRepositoryImpl{
		pool: pool,
	}
}

func (r *TicketEventRepositoryImpl) Insert(ctx context.Context, event *model.TicketEvent) error {
	if !event.Type.IsValid() {
		return fmt.Errorf("invalid ticket event type: %q", event.Type)
	}

	query := `
		INSERT INTO ticket_events (event_id, ticket_code, kind, occurred_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.pool.Exec(ctx, query, event.EventID, event.TicketCode, event.Type, event.OccurredAt)
	if err != nil {
		return fmt.Errorf("failed to insert ticket event: %w", err)
	}

	return nil
}

func (r *TicketEventRepositoryImpl) ListByEventID(ctx context.Context, eventID int) ([]*model.TicketEvent, error) {
	query := `
		SELECT event_id, ticket_code, kind, occurred_at
		FROM ticket_events
		WHERE event_id = $1
		ORDER BY occurred_at
	`

	rows, err := r.pool.Query(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]*model.TicketEvent, 0)
	for rows.Next() {
		var event model.TicketEvent
		err := rows.Scan(
			&event.EventID,
			&event.TicketCode,
			&event.Type,
			&event.OccurredAt,
		)
		if err != nil {
			return nil, err
		}
		events = append(events, &event)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return events, nil
}
