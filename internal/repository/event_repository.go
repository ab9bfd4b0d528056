package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go-event-ticketing/internal/model"
	apperrors "go-event-ticketing/pkg/app_errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type EventRepository interface {
	Create(ctx context.Context, event *model.Event) (*model.Event, error)
	List(ctx context.Context) ([]*model.Event, error)
	FindByID(ctx context.Context, id int) (*model.Event, error)
	Delete(ctx context.Context, id int, now time.Time) error

	// Transaction methods
	FindByIDWithLock(ctx context.Context, tx pgx.Tx, id int) (*model.Event, error)
	Update(ctx context.Context, tx pgx.Tx, id int, params model.UpdateEventParams) (*model.Event, error)
	IncrementSold(ctx context.Context, tx pgx.Tx, id int) error
}

type EventRepositoryImpl struct {
	pool *pgxpool.Pool
}

func NewEventRepository(pool *pgxpool.Pool) EventRepository {
	return &EventRepositoryImpl{
		pool: pool,
	}
}

func (r *EventRepositoryImpl) Create(ctx context.Context, event *model.Event) (*model.Event, error) {
	query := `
		INSERT INTO events (name, start_date, end_date, total_tickets, sold_tickets)
		VALUES ($1, $2, $3, $4, 0)
		RETURNING id, name, start_date, end_date, total_tickets, sold_tickets, created_at, updated_at
	`
	err := r.pool.QueryRow(ctx, query,
		event.Name, event.StartDate, event.EndDate, event.TotalTickets,
	).Scan(
		&event.ID,
		&event.Name,
		&event.StartDate,
		&event.EndDate,
		&event.TotalTickets,
		&event.SoldTickets,
		&event.CreatedAt,
		&event.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return event, nil
}

func (r *EventRepositoryImpl) List(ctx context.Context) ([]*model.Event, error) {
	query := `
		SELECT id, name, start_date, end_date, total_tickets, sold_tickets, created_at, updated_at
		FROM events
		ORDER BY created_at DESC
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]*model.Event, 0)
	for rows.Next() {
		var event model.Event
		err := rows.Scan(
			&event.ID,
			&event.Name,
			&event.StartDate,
			&event.EndDate,
			&event.TotalTickets,
			&event.SoldTickets,
			&event.CreatedAt,
			&event.UpdatedAt,
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

func (r *EventRepositoryImpl) FindByID(ctx context.Context, id int) (*model.Event, error) {
	query := `
		SELECT id, name, start_date, end_date, total_tickets, sold_tickets, created_at, updated_at
		FROM events
		WHERE id = $1
	`

	var event model.Event
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&event.ID,
		&event.Name,
		&event.StartDate,
		&event.EndDate,
		&event.TotalTickets,
		&event.SoldTickets,
		&event.CreatedAt,
		&event.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrEventNotFound
		}
		return nil, err
	}

	return &event, nil
}

// FindByIDWithLock 在 transaction 內以 FOR UPDATE 鎖定活動列，
// 讓 update 的容量檢查不會跟併發的發券互相穿插
func (r *EventRepositoryImpl) FindByIDWithLock(ctx context.Context, tx pgx.Tx, id int) (*model.Event, error) {
	query := `
		SELECT id, name, start_date, end_date, total_tickets, sold_tickets, created_at, updated_at
		FROM events
		WHERE id = $1
		FOR UPDATE
	`

	var event model.Event
	err := tx.QueryRow(ctx, query, id).Scan(
		&event.ID,
		&event.Name,
		&event.StartDate,
		&event.EndDate,
		&event.TotalTickets,
		&event.SoldTickets,
		&event.CreatedAt,
		&event.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrEventNotFound
		}
		return nil, err
	}

	return &event, nil
}

func (r *EventRepositoryImpl) Update(ctx context.Context, tx pgx.Tx, id int, params model.UpdateEventParams) (*model.Event, error) {
	sets := []string{}
	args := []interface{}{}
	argPos := 1

	if params.Name != nil {
		sets = append(sets, fmt.Sprintf("name = $%d", argPos))
		args = append(args, *params.Name)
		argPos++
	}

	if params.StartDate != nil {
		sets = append(sets, fmt.Sprintf("start_date = $%d", argPos))
		args = append(args, *params.StartDate)
		argPos++
	}

	if params.EndDate != nil {
		sets = append(sets, fmt.Sprintf("end_date = $%d", argPos))
		args = append(args, *params.EndDate)
		argPos++
	}

	if params.TotalTickets != nil {
		sets = append(sets, fmt.Sprintf("total_tickets = $%d", argPos))
		args = append(args, *params.TotalTickets)
		argPos++
	}

	if len(sets) == 0 {
		return nil, apperrors.ErrInvalidInput
	}

	// add updated_at
	sets = append(sets, fmt.Sprintf("updated_at = $%d", argPos))
	args = append(args, time.Now().UTC())
	argPos++

	// add id
	args = append(args, id)

	query := fmt.Sprintf(`
		UPDATE events
		SET %s
		WHERE id = $%d
		RETURNING id, name, start_date, end_date, total_tickets, sold_tickets, created_at, updated_at
	`, strings.Join(sets, ", "), argPos)

	var event model.Event

	err := tx.QueryRow(ctx, query, args...).Scan(
		&event.ID,
		&event.Name,
		&event.StartDate,
		&event.EndDate,
		&event.TotalTickets,
		&event.SoldTickets,
		&event.CreatedAt,
		&event.UpdatedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrEventNotFound
		}
		return nil, err
	}

	return &event, nil
}

// IncrementSold 售票的關鍵原子操作：檢查與遞增必須是同一條
// conditional UPDATE，兩個併發請求不可能同時搶到最後一張
func (r *EventRepositoryImpl) IncrementSold(ctx context.Context, tx pgx.Tx, id int) error {
	query := `
		UPDATE events
		SET sold_tickets = sold_tickets + 1, updated_at = $1
		WHERE id = $2 AND sold_tickets < total_tickets
	`

	result, err := tx.Exec(ctx, query, time.Now().UTC(), id)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrCapacityExhausted
	}

	return nil
}

// Delete 只在活動已結束或完全沒售出票時允許刪除，
// 守門條件直接寫進 DELETE 的 WHERE，不做先查再刪
func (r *EventRepositoryImpl) Delete(ctx context.Context, id int, now time.Time) error {
	query := `
		DELETE FROM events
		WHERE id = $1 AND (end_date < $2 OR sold_tickets = 0)
	`

	result, err := r.pool.Exec(ctx, query, id, now)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		// 分辨是活動不存在還是守門條件擋下
		if _, err := r.FindByID(ctx, id); err != nil {
			return err
		}
		return apperrors.ErrDeletionNotAllowed
	}

	return nil
}
