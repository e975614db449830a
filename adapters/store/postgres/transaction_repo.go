package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/layer-3/walletauth/core"
	"github.com/shopspring/decimal"
)

// TransactionRepo implements ports.TransactionRepository using PostgreSQL.
type TransactionRepo struct{ db *DB }

// NewTransactionRepo constructs a ledger repository.
func NewTransactionRepo(db *DB) *TransactionRepo { return &TransactionRepo{db: db} }

// Create inserts a ledger row. Amounts travel as decimal text to keep precision.
func (r *TransactionRepo) Create(ctx context.Context, rec *core.TransactionRecord) error {
	const q = `
INSERT INTO transactions (id, chain_signature, owner_id, kind, amount, recipient, status, created_at)
VALUES ($1, $2, $3, $4, $5::numeric, $6, $7, $8)`
	_, err := r.db.Pool.Exec(ctx, q,
		rec.ID, rec.ChainSignature, rec.OwnerID, string(rec.Kind), rec.Amount.String(),
		rec.Recipient, string(rec.Status), rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

// pageTxOptions gives the count and the page one snapshot, so the total
// agrees with the rows returned.
var pageTxOptions = pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly}

// ListByOwner returns one page of the owner's rows, newest first, and the total count.
func (r *TransactionRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]core.TransactionRecord, int, error) {
	tx, err := r.db.Pool.BeginTx(ctx, pageTxOptions)
	if err != nil {
		return nil, 0, fmt.Errorf("begin list transactions: %w", err)
	}

	out, total, err := listPage(ctx, tx, ownerID, limit, offset)
	if err != nil {
		_ = tx.Rollback(ctx)
		return nil, 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, 0, fmt.Errorf("commit list transactions: %w", err)
	}
	return out, total, nil
}

func listPage(ctx context.Context, tx pgx.Tx, ownerID uuid.UUID, limit, offset int) ([]core.TransactionRecord, int, error) {
	const count = `SELECT count(*) FROM transactions WHERE owner_id=$1`
	var total int
	if err := tx.QueryRow(ctx, count, ownerID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count transactions: %w", err)
	}

	const q = `
SELECT id, chain_signature, owner_id, kind, amount::text, recipient, status, created_at
FROM transactions
WHERE owner_id=$1
ORDER BY created_at DESC, id DESC
LIMIT $2 OFFSET $3`
	rows, err := tx.Query(ctx, q, ownerID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("select transactions: %w", err)
	}
	defer rows.Close()

	out := make([]core.TransactionRecord, 0, limit)
	for rows.Next() {
		var (
			rec    core.TransactionRecord
			kind   string
			amount string
			status string
			ts     time.Time
		)
		if err := rows.Scan(&rec.ID, &rec.ChainSignature, &rec.OwnerID, &kind, &amount, &rec.Recipient, &status, &ts); err != nil {
			return nil, 0, err
		}
		rec.Amount, err = decimal.NewFromString(amount)
		if err != nil {
			return nil, 0, fmt.Errorf("parse amount %q: %w", amount, err)
		}
		rec.Kind = core.TxKind(kind)
		rec.Status = core.TxStatus(status)
		rec.CreatedAt = ts
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}
