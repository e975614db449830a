package store

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/layer-3/walletauth/core"
)

// MemoryIdentities keeps identities in a map keyed by wallet address.
// Intended for development and tests.
type MemoryIdentities struct {
	mu        sync.RWMutex
	byAddress map[string]*core.Identity
}

func NewMemoryIdentities() *MemoryIdentities {
	return &MemoryIdentities{byAddress: make(map[string]*core.Identity)}
}

func (m *MemoryIdentities) Create(ctx context.Context, identity *core.Identity) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.byAddress[identity.WalletAddress]; exists {
		return core.ErrConflict
	}
	cpy := *identity
	m.byAddress[identity.WalletAddress] = &cpy
	return nil
}

func (m *MemoryIdentities) GetByID(ctx context.Context, id uuid.UUID) (*core.Identity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, identity := range m.byAddress {
		if identity.ID == id {
			cpy := *identity
			return &cpy, nil
		}
	}
	return nil, core.ErrNotFound
}

func (m *MemoryIdentities) GetByWalletAddress(ctx context.Context, address string) (*core.Identity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	identity, ok := m.byAddress[address]
	if !ok {
		return nil, core.ErrNotFound
	}
	cpy := *identity
	return &cpy, nil
}

// MemoryTransactions is an append-only in-memory ledger
type MemoryTransactions struct {
	mu      sync.RWMutex
	records []core.TransactionRecord
}

func NewMemoryTransactions() *MemoryTransactions {
	return &MemoryTransactions{}
}

func (m *MemoryTransactions) Create(ctx context.Context, record *core.TransactionRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.records = append(m.records, *record)
	return nil
}

func (m *MemoryTransactions) ListByOwner(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]core.TransactionRecord, int, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}
	m.mu.RLock()
	owned := make([]core.TransactionRecord, 0)
	for i := len(m.records) - 1; i >= 0; i-- {
		if m.records[i].OwnerID == ownerID {
			owned = append(owned, m.records[i])
		}
	}
	m.mu.RUnlock()

	// newest first; later inserts win ties so pages stay stable
	sort.SliceStable(owned, func(i, j int) bool {
		return owned[i].CreatedAt.After(owned[j].CreatedAt)
	})

	total := len(owned)
	if offset >= total {
		return []core.TransactionRecord{}, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return owned[offset:end], total, nil
}
