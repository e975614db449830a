package core

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MaxAmountDigits bounds an amount's decimal digits. It matches the
// NUMERIC(78, 0) amount column.
const MaxAmountDigits = 78

// TxKind classifies a recorded transfer
type TxKind string

const (
	TxKindTransfer TxKind = "TRANSFER"
)

// Valid reports whether the kind is known.
func (k TxKind) Valid() bool {
	return k == TxKindTransfer
}

// TxStatus is the claimed outcome of a transfer
type TxStatus string

const (
	TxStatusSuccess TxStatus = "SUCCESS"
	TxStatusPending TxStatus = "PENDING"
	TxStatusFailed  TxStatus = "FAILED"
)

// Valid reports whether the status is known.
func (s TxStatus) Valid() bool {
	switch s {
	case TxStatusSuccess, TxStatusPending, TxStatusFailed:
		return true
	}
	return false
}

// TransactionRecord is one claimed transfer owned by an identity
type TransactionRecord struct {
	ID             uuid.UUID
	ChainSignature string // chain-level transaction id, not the auth signature
	OwnerID        uuid.UUID
	Kind           TxKind
	Amount         decimal.Decimal // integer number of smallest units
	Recipient      string
	Status         TxStatus
	CreatedAt      time.Time
}

// TransactionPage is one offset window of an owner's ledger, newest first
type TransactionPage struct {
	Records []TransactionRecord
	Total   int
	Limit   int
	Offset  int
}

// HasMore reports whether rows exist past this page.
func (p TransactionPage) HasMore() bool {
	return p.Offset+p.Limit < p.Total
}
