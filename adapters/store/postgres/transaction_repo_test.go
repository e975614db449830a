package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/layer-3/walletauth/core"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestTransactionRepo_Create(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewTransactionRepo(db)
	rec := &core.TransactionRecord{
		ID:             uuid.New(),
		ChainSignature: "5xSig",
		OwnerID:        uuid.New(),
		Kind:           core.TxKindTransfer,
		Amount:         decimal.RequireFromString("123456789012345678901234567890"),
		Recipient:      "recipient",
		Status:         core.TxStatusPending,
		CreatedAt:      time.Now().UTC(),
	}

	mock.ExpectExec(`INSERT INTO transactions \(id, chain_signature, owner_id, kind, amount, recipient, status, created_at\) VALUES \(\$1, \$2, \$3, \$4, \$5::numeric, \$6, \$7, \$8\)`).
		WithArgs(rec.ID, "5xSig", rec.OwnerID, "TRANSFER", "123456789012345678901234567890", "recipient", "PENDING", rec.CreatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	require.NoError(t, r.Create(context.Background(), rec))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRepo_ListByOwner(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewTransactionRepo(db)
	owner := uuid.New()
	id1, id2 := uuid.New(), uuid.New()
	t1 := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)

	mock.ExpectBeginTx(pageTxOptions)
	mock.ExpectQuery(`SELECT count\(\*\) FROM transactions WHERE owner_id=\$1`).
		WithArgs(owner).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectQuery(`SELECT id, chain_signature, owner_id, kind, amount::text, recipient, status, created_at FROM transactions WHERE owner_id=\$1 ORDER BY created_at DESC, id DESC LIMIT \$2 OFFSET \$3`).
		WithArgs(owner, 2, 0).
		WillReturnRows(pgxmock.NewRows([]string{"id", "chain_signature", "owner_id", "kind", "amount", "recipient", "status", "created_at"}).
			AddRow(id1, "s1", owner, "TRANSFER", "20000", "r1", "SUCCESS", t1).
			AddRow(id2, "s2", owner, "TRANSFER", "1", "r2", "FAILED", t1.Add(-time.Hour)))
	mock.ExpectCommit()

	recs, total, err := r.ListByOwner(context.Background(), owner, 2, 0)
	require.NoError(t, err)
	require.Equal(t, 3, total)
	require.Len(t, recs, 2)
	require.Equal(t, "20000", recs[0].Amount.String())
	require.Equal(t, core.TxStatusFailed, recs[1].Status)
	require.Equal(t, id2, recs[1].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRepo_ListByOwner_BadAmount(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewTransactionRepo(db)
	owner := uuid.New()

	mock.ExpectBeginTx(pageTxOptions)
	mock.ExpectQuery(`SELECT count\(\*\) FROM transactions`).
		WithArgs(owner).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(`SELECT id, chain_signature`).
		WithArgs(owner, 10, 0).
		WillReturnRows(pgxmock.NewRows([]string{"id", "chain_signature", "owner_id", "kind", "amount", "recipient", "status", "created_at"}).
			AddRow(uuid.New(), "s", owner, "TRANSFER", "not-a-number", "r", "SUCCESS", time.Now()))
	mock.ExpectRollback()

	_, _, err := r.ListByOwner(context.Background(), owner, 10, 0)
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRepo_ListByOwner_CountFails(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewTransactionRepo(db)
	owner := uuid.New()

	mock.ExpectBeginTx(pageTxOptions)
	mock.ExpectQuery(`SELECT count\(\*\) FROM transactions`).
		WithArgs(owner).
		WillReturnError(errors.New("canceling statement due to conflict with recovery"))
	mock.ExpectRollback()

	_, _, err := r.ListByOwner(context.Background(), owner, 10, 0)
	require.ErrorContains(t, err, "count transactions")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRepo_ListByOwner_BeginFails(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewTransactionRepo(db)

	mock.ExpectBeginTx(pageTxOptions).WillReturnError(errors.New("too many connections"))

	_, _, err := r.ListByOwner(context.Background(), uuid.New(), 10, 0)
	require.ErrorContains(t, err, "begin list transactions")
	require.NoError(t, mock.ExpectationsWereMet())
}
