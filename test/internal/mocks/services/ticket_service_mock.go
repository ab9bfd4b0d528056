package services

import (
	"context"
	"go-event-ticketing/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type TicketServiceMock struct {
	mock.Mock
}

func NewTicketServiceMock() *TicketServiceMock {
	return &TicketServiceMock{}
}

func (m *TicketServiceMock) Issue(ctx context.Context, eventID int) (*model.Ticket, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Ticket), args.Error(1)
}

func (m *TicketServiceMock) ListByEventID(ctx context.Context, eventID int) ([]*model.Ticket, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Ticket), args.Error(1)
}

type ClaimServiceMock struct {
	mock.Mock
}

func NewClaimServiceMock() *ClaimServiceMock {
	return &ClaimServiceMock{}
}

func (m *ClaimServiceMock) Claim(ctx context.Context, code uuid.UUID) (*model.Ticket, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Ticket), args.Error(1)
}

func (m *ClaimServiceMock) Status(ctx context.Context, code uuid.UUID) (*model.TicketStatusResponse, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.TicketStatusResponse), args.Error(1)
}
