package service

import (
	"context"
	"errors"

	"go-event-ticketing/internal/clock"
	"go-event-ticketing/internal/model"
	"go-event-ticketing/internal/queue"
	"go-event-ticketing/internal/repository"
	apperrors "go-event-ticketing/pkg/app_errors"
	"go-event-ticketing/pkg/logger"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type TicketService interface {
	// Issue 對活動剩餘容量發出一張新票
	Issue(ctx context.Context, eventID int) (*model.Ticket, error)
	ListByEventID(ctx context.Context, eventID int) ([]*model.Ticket, error)
}

type TicketServiceImpl struct {
	pool       *pgxpool.Pool
	eventRepo  repository.EventRepository
	ticketRepo repository.TicketRepository
	eventQueue queue.TicketEventQueue
	clock      clock.Clock
}

func NewTicketService(
	pool *pgxpool.Pool,
	eventRepo repository.EventRepository,
	ticketRepo repository.TicketRepository,
	eventQueue queue.TicketEventQueue,
	clk clock.Clock,
) TicketService {
	return &TicketServiceImpl{
		pool:       pool,
		eventRepo:  eventRepo,
		ticketRepo: ticketRepo,
		eventQueue: eventQueue,
		clock:      clk,
	}
}

// Issue 的遞增與寫票在同一個 transaction 內，commit 前任何一步失敗
// 整筆回滾：不會有多出的計數，也不會有沒計數的票
func (s *TicketServiceImpl) Issue(ctx context.Context, eventID int) (*model.Ticket, error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	// 1. 原子遞增：sold_tickets < total_tickets 才會有 row 被改到
	if err := s.eventRepo.IncrementSold(ctx, tx, eventID); err != nil {
		if errors.Is(err, apperrors.ErrCapacityExhausted) {
			// 0 rows 也可能是活動不存在，查一次分辨
			if _, ferr := s.eventRepo.FindByID(ctx, eventID); ferr != nil {
				return nil, ferr
			}
		}
		return nil, err
	}

	// 2. 寫入票券，代碼在這裡產生
	ticket := &model.Ticket{
		Code:    uuid.New(),
		EventID: eventID,
	}
	created, err := s.ticketRepo.Create(ctx, tx, ticket)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	// 3. commit 之後才發稽核事件，失敗只記 log，不影響已成立的發券
	s.publishEvent(ctx, &model.TicketEvent{
		Type:       model.TicketEventIssued,
		EventID:    eventID,
		TicketCode: created.Code.String(),
		OccurredAt: s.clock.Now(),
	})

	return created, nil
}

func (s *TicketServiceImpl) ListByEventID(ctx context.Context, eventID int) ([]*model.Ticket, error) {
	if _, err := s.eventRepo.FindByID(ctx, eventID); err != nil {
		return nil, err
	}
	return s.ticketRepo.ListByEventID(ctx, eventID)
}

func (s *TicketServiceImpl) publishEvent(ctx context.Context, event *model.TicketEvent) {
	if err := s.eventQueue.Publish(ctx, event); err != nil {
		logger.WithComponent("service").Warn("publish ticket event failed",
			zap.String("ticket_code", event.TicketCode), zap.Error(err))
	}
}
