package service

import (
	"context"
	"fmt"
	"time"

	"go-event-ticketing/internal/clock"
	"go-event-ticketing/internal/model"
	"go-event-ticketing/internal/repository"
	apperrors "go-event-ticketing/pkg/app_errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type EventService interface {
	List(ctx context.Context) ([]*model.Event, error)
	GetByID(ctx context.Context, id int) (*model.Event, error)
	// Detail 回報發出數與核銷數，兩者是不同的量，不互相推導
	Detail(ctx context.Context, id int) (*model.EventDetailResponse, error)
	Create(ctx context.Context, event *model.Event) (*model.Event, error)
	Update(ctx context.Context, id int, params model.UpdateEventParams) (*model.Event, error)
	Delete(ctx context.Context, id int) error
}

type EventServiceImpl struct {
	pool       *pgxpool.Pool
	repo       repository.EventRepository
	ticketRepo repository.TicketRepository
	clock      clock.Clock
}

func NewEventService(pool *pgxpool.Pool, repo repository.EventRepository, ticketRepo repository.TicketRepository, clk clock.Clock) EventService {
	return &EventServiceImpl{pool: pool, repo: repo, ticketRepo: ticketRepo, clock: clk}
}

// validateWindow 檢查活動期間：開始不可早於現在，結束不可早於開始
func validateWindow(start, end, now time.Time) error {
	if start.Before(now) {
		return fmt.Errorf("%w: start_date must not be in the past", apperrors.ErrValidation)
	}
	if end.Before(start) {
		return fmt.Errorf("%w: end_date must not be before start_date", apperrors.ErrValidation)
	}
	return nil
}

func validateTotalTickets(total int) error {
	if total < model.MinTotalTickets || total > model.MaxTotalTickets {
		return fmt.Errorf("%w: total_tickets must be between %d and %d",
			apperrors.ErrValidation, model.MinTotalTickets, model.MaxTotalTickets)
	}
	return nil
}

func (s *EventServiceImpl) List(ctx context.Context) ([]*model.Event, error) {
	return s.repo.List(ctx)
}

func (s *EventServiceImpl) GetByID(ctx context.Context, id int) (*model.Event, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *EventServiceImpl) Detail(ctx context.Context, id int) (*model.EventDetailResponse, error) {
	event, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	claimed, err := s.ticketRepo.CountClaimedByEventID(ctx, id)
	if err != nil {
		return nil, err
	}

	return &model.EventDetailResponse{
		ID:               event.ID,
		Name:             event.Name,
		StartDate:        event.StartDate,
		EndDate:          event.EndDate,
		TotalTickets:     event.TotalTickets,
		SoldTickets:      event.SoldTickets,
		ClaimedTickets:   claimed,
		TicketsAvailable: event.TotalTickets - event.SoldTickets,
	}, nil
}

func (s *EventServiceImpl) Create(ctx context.Context, event *model.Event) (*model.Event, error) {
	if err := validateWindow(event.StartDate, event.EndDate, s.clock.Now()); err != nil {
		return nil, err
	}
	if err := validateTotalTickets(event.TotalTickets); err != nil {
		return nil, err
	}
	event.SoldTickets = 0
	return s.repo.Create(ctx, event)
}

// Update 在 transaction 內先以 FOR UPDATE 讀出現值，
// 用「生效後」的欄位套 create 的驗證；容量不可降到已售出以下
func (s *EventServiceImpl) Update(ctx context.Context, id int, params model.UpdateEventParams) (*model.Event, error) {
	if params.Name == nil && params.StartDate == nil && params.EndDate == nil && params.TotalTickets == nil {
		return nil, fmt.Errorf("%w: at least one field is required", apperrors.ErrValidation)
	}

	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	event, err := s.repo.FindByIDWithLock(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	if params.StartDate != nil || params.EndDate != nil {
		effectiveStart := event.StartDate
		if params.StartDate != nil {
			effectiveStart = *params.StartDate
		}
		effectiveEnd := event.EndDate
		if params.EndDate != nil {
			effectiveEnd = *params.EndDate
		}
		if err := validateWindow(effectiveStart, effectiveEnd, s.clock.Now()); err != nil {
			return nil, err
		}
	}

	if params.TotalTickets != nil {
		if err := validateTotalTickets(*params.TotalTickets); err != nil {
			return nil, err
		}
		if *params.TotalTickets < event.SoldTickets {
			return nil, apperrors.ErrCapacityReduction
		}
	}

	updated, err := s.repo.Update(ctx, tx, id, params)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return updated, nil
}

func (s *EventServiceImpl) Delete(ctx context.Context, id int) error {
	return s.repo.Delete(ctx, id, s.clock.Now())
}
