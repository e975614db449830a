package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/layer-3/walletauth/core"
)

// IdentityRepository persists registered wallet holders.
// Create must fail with core.ErrConflict when the wallet address is taken.
type IdentityRepository interface {
	Create(ctx context.Context, identity *core.Identity) error
	GetByID(ctx context.Context, id uuid.UUID) (*core.Identity, error)
	GetByWalletAddress(ctx context.Context, address string) (*core.Identity, error)
}

// TransactionRepository persists ledger rows
type TransactionRepository interface {
	Create(ctx context.Context, record *core.TransactionRecord) error
	// ListByOwner returns rows newest first together with the owner's total row count.
	ListByOwner(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]core.TransactionRecord, int, error)
}

// ReplayGuard remembers used signatures for a bounded window
type ReplayGuard interface {
	// Claim records key and reports whether it was unseen within ttl.
	Claim(ctx context.Context, key string, ttl time.Duration) (bool, error)
}
