package service

import (
	"context"

	"go-event-ticketing/internal/clock"
	"go-event-ticketing/internal/model"
	"go-event-ticketing/internal/queue"
	"go-event-ticketing/internal/repository"
	apperrors "go-event-ticketing/pkg/app_errors"
	"go-event-ticketing/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ClaimService 管票券的狀態機：issued → claimed，claimed 是終點。
// 第二次核銷是錯誤，不是 no-op
type ClaimService interface {
	Claim(ctx context.Context, code uuid.UUID) (*model.Ticket, error)
	Status(ctx context.Context, code uuid.UUID) (*model.TicketStatusResponse, error)
}

type ClaimServiceImpl struct {
	ticketRepo repository.TicketRepository
	eventRepo  repository.EventRepository
	eventQueue queue.TicketEventQueue
	clock      clock.Clock
}

func NewClaimService(
	ticketRepo repository.TicketRepository,
	eventRepo repository.EventRepository,
	eventQueue queue.TicketEventQueue,
	clk clock.Clock,
) ClaimService {
	return &ClaimServiceImpl{
		ticketRepo: ticketRepo,
		eventRepo:  eventRepo,
		eventQueue: eventQueue,
		clock:      clk,
	}
}

// Claim 先讀再做 conditional write：最後的 MarkClaimed 以
// is_claimed = FALSE 為條件，同一張票的併發核銷只有一個贏家
func (s *ClaimServiceImpl) Claim(ctx context.Context, code uuid.UUID) (*model.Ticket, error) {
	ticket, err := s.ticketRepo.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	if ticket.IsClaimed {
		return nil, apperrors.ErrAlreadyClaimed
	}

	event, err := s.eventRepo.FindByID(ctx, ticket.EventID)
	if err != nil {
		return nil, err
	}

	// 活動期間頭尾皆含：恰好在 start_date 或 end_date 都允許核銷
	now := s.clock.Now()
	if !event.IsActive(now) {
		return nil, apperrors.ErrOutOfWindow
	}

	if err := s.ticketRepo.MarkClaimed(ctx, code, now); err != nil {
		return nil, err
	}

	ticket.IsClaimed = true
	ticket.ClaimDate = &now

	s.publishEvent(ctx, &model.TicketEvent{
		Type:       model.TicketEventClaimed,
		EventID:    ticket.EventID,
		TicketCode: code.String(),
		OccurredAt: now,
	})

	return ticket, nil
}

func (s *ClaimServiceImpl) Status(ctx context.Context, code uuid.UUID) (*model.TicketStatusResponse, error) {
	ticket, err := s.ticketRepo.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	return &model.TicketStatusResponse{
		Code:      ticket.Code.String(),
		IsClaimed: ticket.IsClaimed,
		ClaimDate: ticket.ClaimDate,
	}, nil
}

func (s *ClaimServiceImpl) publishEvent(ctx context.Context, event *model.TicketEvent) {
	if err := s.eventQueue.Publish(ctx, event); err != nil {
		logger.WithComponent("service").Warn("publish ticket event failed",
			zap.String("ticket_code", event.TicketCode), zap.Error(err))
	}
}
