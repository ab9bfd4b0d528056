package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go-event-ticketing/internal/clock"
	"go-event-ticketing/internal/queue"
	"go-event-ticketing/internal/repository"
	"go-event-ticketing/internal/service"
	apperrors "go-event-ticketing/pkg/app_errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClaimService(clk clock.Clock) service.ClaimService {
	eventRepo := repository.NewEventRepository(getTestDB())
	ticketRepo := repository.NewTicketRepository(getTestDB())
	q := queue.NewTicketEventQueue(512)
	return service.NewClaimService(ticketRepo, eventRepo, q, clk)
}

func TestClaimService_Claim(t *testing.T) {
	ctx := context.Background()
	start := testNow
	end := testNow.Add(48 * time.Hour)

	t.Run("WithinWindow", func(t *testing.T) {
		cleanup := setupTestWithTruncate(t)
		defer cleanup()

		eventID := createTestEvent(t, "Active Event", start, end, 10, 1)
		code := createTestTicket(t, eventID, false)

		claimAt := start.Add(time.Hour)
		svc := newClaimService(clock.NewFixed(claimAt))

		ticket, err := svc.Claim(ctx, code)

		require.NoError(t, err)
		assert.True(t, ticket.IsClaimed)
		require.NotNil(t, ticket.ClaimDate)
		assert.True(t, ticket.ClaimDate.Equal(claimAt))
	})

	t.Run("ExactlyAtStartDate", func(t *testing.T) {
		cleanup := setupTestWithTruncate(t)
		defer cleanup()

		eventID := createTestEvent(t, "Boundary Event", start, end, 10, 1)
		code := createTestTicket(t, eventID, false)

		svc := newClaimService(clock.NewFixed(start))

		_, err := svc.Claim(ctx, code)

		require.NoError(t, err)
	})

	t.Run("JustBeforeStartDate", func(t *testing.T) {
		cleanup := setupTestWithTruncate(t)
		defer cleanup()

		eventID := createTestEvent(t, "Boundary Event", start, end, 10, 1)
		code := createTestTicket(t, eventID, false)

		svc := newClaimService(clock.NewFixed(start.Add(-time.Second)))

		_, err := svc.Claim(ctx, code)

		require.Error(t, err)
		assert.True(t, errors.Is(err, apperrors.ErrOutOfWindow))
	})

	t.Run("ExactlyAtEndDate", func(t *testing.T) {
		cleanup := setupTestWithTruncate(t)
		defer cleanup()

		eventID := createTestEvent(t, "Boundary Event", start, end, 10, 1)
		code := createTestTicket(t, eventID, false)

		svc := newClaimService(clock.NewFixed(end))

		_, err := svc.Claim(ctx, code)

		require.NoError(t, err)
	})

	t.Run("JustAfterEndDate", func(t *testing.T) {
		cleanup := setupTestWithTruncate(t)
		defer cleanup()

		eventID := createTestEvent(t, "Boundary Event", start, end, 10, 1)
		code := createTestTicket(t, eventID, false)

		svc := newClaimService(clock.NewFixed(end.Add(time.Second)))

		_, err := svc.Claim(ctx, code)

		require.Error(t, err)
		assert.True(t, errors.Is(err, apperrors.ErrOutOfWindow))
	})

	t.Run("AlreadyClaimed", func(t *testing.T) {
		cleanup := setupTestWithTruncate(t)
		defer cleanup()

		eventID := createTestEvent(t, "Active Event", start, end, 10, 1)
		code := createTestTicket(t, eventID, false)

		svc := newClaimService(clock.NewFixed(start.Add(time.Hour)))

		_, err := svc.Claim(ctx, code)
		require.NoError(t, err)

		// 第二次核銷是錯誤，不是 no-op
		_, err = svc.Claim(ctx, code)
		require.Error(t, err)
		assert.True(t, errors.Is(err, apperrors.ErrAlreadyClaimed))
	})

	t.Run("TicketNotFound", func(t *testing.T) {
		cleanup := setupTestWithTruncate(t)
		defer cleanup()

		svc := newClaimService(clock.NewFixed(testNow))

		_, err := svc.Claim(ctx, uuid.New())

		require.Error(t, err)
		assert.True(t, errors.Is(err, apperrors.ErrTicketNotFound))
	})

	t.Run("OutOfWindowLeavesTicketUnclaimed", func(t *testing.T) {
		cleanup := setupTestWithTruncate(t)
		defer cleanup()

		eventID := createTestEvent(t, "Future Event", start, end, 10, 1)
		code := createTestTicket(t, eventID, false)

		svc := newClaimService(clock.NewFixed(start.Add(-24 * time.Hour)))

		_, err := svc.Claim(ctx, code)
		require.Error(t, err)

		status, serr := svc.Status(ctx, code)
		require.NoError(t, serr)
		assert.False(t, status.IsClaimed)
		assert.Nil(t, status.ClaimDate)
	})
}

func TestClaimService_Status(t *testing.T) {
	ctx := context.Background()
	start := testNow
	end := testNow.Add(48 * time.Hour)

	t.Run("RoundTrip", func(t *testing.T) {
		cleanup := setupTestWithTruncate(t)
		defer cleanup()

		eventID := createTestEvent(t, "Round Trip Event", start, end, 10, 0)

		eventRepo := repository.NewEventRepository(getTestDB())
		ticketRepo := repository.NewTicketRepository(getTestDB())
		q := queue.NewTicketEventQueue(512)
		claimAt := start.Add(2 * time.Hour)
		clk := clock.NewFixed(claimAt)

		ticketSvc := service.NewTicketService(getTestDB(), eventRepo, ticketRepo, q, clk)
		claimSvc := service.NewClaimService(ticketRepo, eventRepo, q, clk)

		ticket, err := ticketSvc.Issue(ctx, eventID)
		require.NoError(t, err)

		// 發券後：未核銷、無核銷時間
		status, err := claimSvc.Status(ctx, ticket.Code)
		require.NoError(t, err)
		assert.False(t, status.IsClaimed)
		assert.Nil(t, status.ClaimDate)

		_, err = claimSvc.Claim(ctx, ticket.Code)
		require.NoError(t, err)

		// 核銷後：已核銷、核銷時間落在活動期間內
		status, err = claimSvc.Status(ctx, ticket.Code)
		require.NoError(t, err)
		assert.True(t, status.IsClaimed)
		require.NotNil(t, status.ClaimDate)
		assert.False(t, status.ClaimDate.Before(start))
		assert.False(t, status.ClaimDate.After(end))
	})

	t.Run("NotFound", func(t *testing.T) {
		cleanup := setupTestWithTruncate(t)
		defer cleanup()

		svc := newClaimService(clock.NewFixed(testNow))

		_, err := svc.Status(ctx, uuid.New())

		require.Error(t, err)
		assert.True(t, errors.Is(err, apperrors.ErrTicketNotFound))
	})
}
