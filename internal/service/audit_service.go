package service

import (
	"context"

	"go-event-ticketing/internal/model"
	"go-event-ticketing/internal/repository"
)

// AuditService 把 stream 上的票券事件落地成稽核紀錄
type AuditService interface {
	Record(ctx context.Context, event *model.TicketEvent) error
	ListByEventID(ctx context.Context, eventID int) ([]*model.TicketEvent, error)
}

type AuditServiceImpl struct {
	repo repository.TicketEventRepository
}

func NewAuditService(repo repository.TicketEventRepository) AuditService {
	return &AuditServiceImpl{repo: repo}
}

func (s *AuditServiceImpl) Record(ctx context.Context, event *model.TicketEvent) error {
	return s.repo.Insert(ctx, event)
}

func (s *AuditServiceImpl) ListByEventID(ctx context.Context, eventID int) ([]*model.TicketEvent, error) {
	return s.repo.ListByEventID(ctx, eventID)
}
