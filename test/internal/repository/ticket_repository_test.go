package repository

import (
	"context"
	"testing"
	"time"

	"go-event-ticketing/internal/model"
	"go-event-ticketing/internal/repository"
	apperrors "go-event-ticketing/pkg/app_errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTicketRepository_Create(t *testing.T) {
	cleanup := setupTestWithTruncate(t)
	defer cleanup()

	repo := repository.NewTicketRepository(getTestDB())
	ctx := context.Background()

	start := time.Now().UTC().Add(time.Hour)
	eventID := createTestEvent(t, "Ticket Event", start, start.Add(time.Hour), 10, 0)

	tx, err := testDB.Begin(ctx)
	require.NoError(t, err)
	defer tx.Rollback(ctx)

	ticket := &model.Ticket{
		Code:    uuid.New(),
		EventID: eventID,
	}

	created, err := repo.Create(ctx, tx, ticket)
	require.NoError(t, err)
	require.NoError(t, tx.Commit(ctx))

	assert.NotZero(t, created.ID)
	assert.Equal(t, eventID, created.EventID)
	assert.False(t, created.IsClaimed)
	assert.Nil(t, created.ClaimDate)
	assert.NotZero(t, created.CreatedAt)

	found, err := repo.FindByCode(ctx, created.Code)
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
}

func TestTicketRepository_FindByCode(t *testing.T) {
	repo := repository.NewTicketRepository(getTestDB())
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		cleanup := setupTestWithTruncate(t)
		defer cleanup()

		start := time.Now().UTC().Add(time.Hour)
		eventID := createTestEvent(t, "Find Event", start, start.Add(time.Hour), 10, 1)
		code := createTestTicket(t, eventID, false)

		found, err := repo.FindByCode(ctx, code)

		require.NoError(t, err)
		assert.Equal(t, code, found.Code)
		assert.Equal(t, eventID, found.EventID)
		assert.False(t, found.IsClaimed)
	})

	t.Run("NotFound", func(t *testing.T) {
		cleanup := setupTestWithTruncate(t)
		defer cleanup()

		_, err := repo.FindByCode(ctx, uuid.New())

		require.Error(t, err)
		assert.Equal(t, apperrors.ErrTicketNotFound, err)
	})
}

func TestTicketRepository_MarkClaimed(t *testing.T) {
	repo := repository.NewTicketRepository(getTestDB())
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		cleanup := setupTestWithTruncate(t)
		defer cleanup()

		start := time.Now().UTC().Add(time.Hour)
		eventID := createTestEvent(t, "Claim Event", start, start.Add(time.Hour), 10, 1)
		code := createTestTicket(t, eventID, false)

		claimDate := time.Now().UTC().Truncate(time.Second)
		err := repo.MarkClaimed(ctx, code, claimDate)

		require.NoError(t, err)

		found, err := repo.FindByCode(ctx, code)
		require.NoError(t, err)
		assert.True(t, found.IsClaimed)
		require.NotNil(t, found.ClaimDate)
		assert.True(t, found.ClaimDate.Equal(claimDate))
	})

	t.Run("AlreadyClaimed", func(t *testing.T) {
		cleanup := setupTestWithTruncate(t)
		defer cleanup()

		start := time.Now().UTC().Add(time.Hour)
		eventID := createTestEvent(t, "Claim Event", start, start.Add(time.Hour), 10, 1)
		code := createTestTicket(t, eventID, true)

		err := repo.MarkClaimed(ctx, code, time.Now().UTC())

		require.Error(t, err)
		assert.Equal(t, apperrors.ErrAlreadyClaimed, err)
	})

	t.Run("NotFound", func(t *testing.T) {
		cleanup := setupTestWithTruncate(t)
		defer cleanup()

		err := repo.MarkClaimed(ctx, uuid.New(), time.Now().UTC())

		require.Error(t, err)
		assert.Equal(t, apperrors.ErrTicketNotFound, err)
	})
}

func TestTicketRepository_ListByEventID(t *testing.T) {
	cleanup := setupTestWithTruncate(t)
	defer cleanup()

	repo := repository.NewTicketRepository(getTestDB())
	ctx := context.Background()

	start := time.Now().UTC().Add(time.Hour)
	eventID := createTestEvent(t, "List Event", start, start.Add(time.Hour), 10, 3)
	otherID := createTestEvent(t, "Other Event", start, start.Add(time.Hour), 10, 1)

	createTestTicket(t, eventID, false)
	createTestTicket(t, eventID, true)
	createTestTicket(t, eventID, false)
	createTestTicket(t, otherID, false)

	tickets, err := repo.ListByEventID(ctx, eventID)

	require.NoError(t, err)
	assert.Len(t, tickets, 3)
	for _, ticket := range tickets {
		assert.Equal(t, eventID, ticket.EventID)
	}
}

func TestTicketRepository_CountClaimedByEventID(t *testing.T) {
	cleanup := setupTestWithTruncate(t)
	defer cleanup()

	repo := repository.NewTicketRepository(getTestDB())
	ctx := context.Background()

	start := time.Now().UTC().Add(time.Hour)
	eventID := createTestEvent(t, "Count Event", start, start.Add(time.Hour), 10, 4)

	createTestTicket(t, eventID, true)
	createTestTicket(t, eventID, true)
	createTestTicket(t, eventID, false)
	createTestTicket(t, eventID, false)

	count, err := repo.CountClaimedByEventID(ctx, eventID)

	require.NoError(t, err)
	assert.Equal(t, 2, count)
}
