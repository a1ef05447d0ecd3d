package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sirpyerre/pizza-delivery-api/internal/core/domain"
)

func TestUserRepository_UniqueKeys(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository()

	alice, err := repo.Create(ctx, &domain.User{Username: "alice", Email: "alice@x.com"})
	require.NoError(t, err)
	assert.NotEmpty(t, alice.ID)

	_, err = repo.Create(ctx, &domain.User{Username: "alice", Email: "other@x.com"})
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = repo.Create(ctx, &domain.User{Username: "other", Email: "alice@x.com"})
	assert.ErrorIs(t, err, domain.ErrConflict)

	byEmail, err := repo.FindByEmail(ctx, "alice@x.com")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, byEmail.ID)

	_, err = repo.FindByUsername(ctx, "ghost")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestOrderRepository_CRUD(t *testing.T) {
	ctx := context.Background()
	repo := NewOrderRepository()
	now := time.Now().UTC()

	a, err := repo.Create(ctx, &domain.Order{OwnerID: "u1", Quantity: 1, Size: domain.SizeSmall, Status: domain.StatusPending, CreatedAt: now})
	require.NoError(t, err)
	b, err := repo.Create(ctx, &domain.Order{OwnerID: "u2", Quantity: 3, Size: domain.SizeLarge, Status: domain.StatusPending, CreatedAt: now.Add(time.Second)})
	require.NoError(t, err)

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, a.ID, all[0].ID)

	mine, err := repo.FindByOwner(ctx, "u2")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, b.ID, mine[0].ID)

	// mutating a returned copy does not touch the store
	mine[0].Quantity = 99
	stored, err := repo.FindByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, stored.Quantity)

	stored.Status = domain.StatusDelivered
	stored.OwnerID = "intruder"
	updated, err := repo.Update(ctx, stored)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDelivered, updated.Status)
	assert.Equal(t, "u2", updated.OwnerID)

	require.NoError(t, repo.Delete(ctx, a.ID))
	assert.ErrorIs(t, repo.Delete(ctx, a.ID), domain.ErrOrderNotFound)
	_, err = repo.FindByID(ctx, a.ID)
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)

	_, err = repo.Update(ctx, &domain.Order{ID: "missing"})
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
}

func TestAuditRepository_Events(t *testing.T) {
	repo := NewAuditRepository()
	require.NoError(t, repo.InsertEvent(context.Background(), &domain.OrderEvent{OrderID: "o1", Type: domain.EventOrderPlaced}))

	events := repo.Events()
	require.Len(t, events, 1)
	assert.Equal(t, domain.EventOrderPlaced, events[0].Type)
}
