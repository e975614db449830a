package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/layer-3/walletauth/core"
)

// IdentityRepo implements ports.IdentityRepository using PostgreSQL.
type IdentityRepo struct{ db *DB }

// NewIdentityRepo constructs an identity repository.
func NewIdentityRepo(db *DB) *IdentityRepo { return &IdentityRepo{db: db} }

// Create inserts a new identity; a taken wallet address yields core.ErrConflict.
func (r *IdentityRepo) Create(ctx context.Context, identity *core.Identity) error {
	const q = `
INSERT INTO identities (id, wallet_address, passkey_id, name, email, created_at)
VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.db.Pool.Exec(ctx, q,
		identity.ID, identity.WalletAddress, identity.PasskeyID, identity.Name, identity.Email, identity.CreatedAt)
	if isUniqueViolation(err) {
		return core.ErrConflict
	}
	if err != nil {
		return fmt.Errorf("insert identity: %w", err)
	}
	return nil
}

// GetByID selects an identity by ID.
func (r *IdentityRepo) GetByID(ctx context.Context, id uuid.UUID) (*core.Identity, error) {
	const q = `
SELECT id, wallet_address, passkey_id, name, email, created_at
FROM identities WHERE id=$1`
	return scanIdentity(r.db.Pool.QueryRow(ctx, q, id))
}

// GetByWalletAddress selects an identity by wallet address.
func (r *IdentityRepo) GetByWalletAddress(ctx context.Context, address string) (*core.Identity, error) {
	const q = `
SELECT id, wallet_address, passkey_id, name, email, created_at
FROM identities WHERE wallet_address=$1`
	return scanIdentity(r.db.Pool.QueryRow(ctx, q, address))
}

func scanIdentity(row pgx.Row) (*core.Identity, error) {
	var i core.Identity
	if err := row.Scan(&i.ID, &i.WalletAddress, &i.PasskeyID, &i.Name, &i.Email, &i.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, core.ErrNotFound
		}
		return nil, fmt.Errorf("select identity: %w", err)
	}
	return &i, nil
}
