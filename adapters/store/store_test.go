package store

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/layer-3/walletauth/core"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_Claim(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore().(*MemoryStore)
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	ok, err := s.Claim(ctx, "sig", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.Claim(ctx, "sig", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = s.Claim(ctx, "other", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	now = now.Add(2 * time.Minute)
	ok, err = s.Claim(ctx, "sig", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRedisStore_Claim(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	ctx := context.Background()
	s := NewRedisStore(client)

	ok, err := s.Claim(ctx, "sig", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, mr.Exists("walletauth:signature:sig"))

	ok, err = s.Claim(ctx, "sig", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	mr.FastForward(2 * time.Minute)
	ok, err = s.Claim(ctx, "sig", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRedisStore_Unavailable(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })
	mr.Close()

	_, err := NewRedisStore(client).Claim(context.Background(), "sig", time.Minute)
	require.Error(t, err)
}

func TestMemoryIdentities(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryIdentities()
	identity := &core.Identity{ID: uuid.New(), WalletAddress: "addr", CreatedAt: time.Now()}

	require.NoError(t, repo.Create(ctx, identity))
	require.ErrorIs(t, repo.Create(ctx, &core.Identity{ID: uuid.New(), WalletAddress: "addr"}), core.ErrConflict)

	got, err := repo.GetByWalletAddress(ctx, "addr")
	require.NoError(t, err)
	assert.Equal(t, identity.ID, got.ID)

	got, err = repo.GetByID(ctx, identity.ID)
	require.NoError(t, err)
	assert.Equal(t, "addr", got.WalletAddress)

	_, err = repo.GetByWalletAddress(ctx, "missing")
	require.ErrorIs(t, err, core.ErrNotFound)
	_, err = repo.GetByID(ctx, uuid.New())
	require.ErrorIs(t, err, core.ErrNotFound)
}

func TestMemoryTransactions_ListByOwner(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryTransactions()
	owner, stranger := uuid.New(), uuid.New()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		require.NoError(t, repo.Create(ctx, &core.TransactionRecord{
			ID:        uuid.New(),
			OwnerID:   owner,
			Amount:    decimal.NewFromInt(int64(i)),
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		}))
	}
	require.NoError(t, repo.Create(ctx, &core.TransactionRecord{ID: uuid.New(), OwnerID: stranger, CreatedAt: base}))

	page, total, err := repo.ListByOwner(ctx, owner, 2, 0)
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	require.Len(t, page, 2)
	assert.Equal(t, "4", page[0].Amount.String())
	assert.Equal(t, "3", page[1].Amount.String())

	page, _, err = repo.ListByOwner(ctx, owner, 2, 4)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "0", page[0].Amount.String())

	page, total, err = repo.ListByOwner(ctx, owner, 2, 10)
	require.NoError(t, err)
	assert.Empty(t, page)
	assert.Equal(t, 5, total)
}
