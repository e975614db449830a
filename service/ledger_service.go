package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/layer-3/walletauth/core"
	"github.com/layer-3/walletauth/ports"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	DefaultPageLimit = 50
	MaxPageLimit     = 500
)

// RecordRequest is an unvalidated ledger submission. Amount holds the decimal
// text of the value, so callers never pass it through a float.
type RecordRequest struct {
	ChainSignature string
	Kind           string
	Amount         string
	Recipient      string
	Status         string
}

// LedgerService records and lists value transfers claimed by session holders.
type LedgerService struct {
	records  ports.TransactionRepository
	eventPub ports.EventPublisher
	log      *zap.Logger
	now      func() time.Time
}

// NewLedgerService builds the ledger. A nil publisher disables events.
func NewLedgerService(records ports.TransactionRepository, eventPub ports.EventPublisher, log *zap.Logger) *LedgerService {
	if log == nil {
		log = zap.NewNop()
	}
	return &LedgerService{
		records:  records,
		eventPub: eventPub,
		log:      log,
		now:      time.Now,
	}
}

// Record stores a transaction owned by ownerID. Identical submissions produce
// separate rows.
func (s *LedgerService) Record(ctx context.Context, ownerID uuid.UUID, req RecordRequest) (*core.TransactionRecord, error) {
	if req.ChainSignature == "" || req.Amount == "" || req.Recipient == "" {
		return nil, core.ErrMissingFields
	}

	amount, err := parseAmount(req.Amount)
	if err != nil {
		return nil, err
	}

	kind := core.TxKindTransfer
	if req.Kind != "" {
		kind = core.TxKind(req.Kind)
	}
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: %q", core.ErrInvalidKind, req.Kind)
	}

	status := core.TxStatusSuccess
	if req.Status != "" {
		status = core.TxStatus(req.Status)
	}
	if !status.Valid() {
		return nil, fmt.Errorf("%w: %q", core.ErrInvalidStatus, req.Status)
	}

	record := &core.TransactionRecord{
		ID:             uuid.New(),
		ChainSignature: req.ChainSignature,
		OwnerID:        ownerID,
		Kind:           kind,
		Amount:         amount,
		Recipient:      req.Recipient,
		Status:         status,
		CreatedAt:      s.now().UTC(),
	}

	if err := s.records.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to record transaction: %w", err)
	}

	if s.eventPub != nil {
		if err := s.eventPub.PublishTransactionRecorded(ctx, record); err != nil {
			s.log.Warn("failed to publish transaction event", zap.String("tx_id", record.ID.String()), zap.Error(err))
		}
	}

	return record, nil
}

// List pages through ownerID's records, newest first. A zero limit selects
// DefaultPageLimit.
func (s *LedgerService) List(ctx context.Context, ownerID uuid.UUID, limit, offset int) (core.TransactionPage, error) {
	if limit == 0 {
		limit = DefaultPageLimit
	}
	if limit < 1 || limit > MaxPageLimit {
		return core.TransactionPage{}, fmt.Errorf("%w: limit must be between 1 and %d", core.ErrInvalidPagination, MaxPageLimit)
	}
	if offset < 0 {
		return core.TransactionPage{}, fmt.Errorf("%w: offset must not be negative", core.ErrInvalidPagination)
	}

	records, total, err := s.records.ListByOwner(ctx, ownerID, limit, offset)
	if err != nil {
		return core.TransactionPage{}, fmt.Errorf("failed to list transactions: %w", err)
	}
	if records == nil {
		records = []core.TransactionRecord{}
	}

	return core.TransactionPage{
		Records: records,
		Total:   total,
		Limit:   limit,
		Offset:  offset,
	}, nil
}

// parseAmount accepts only plain unsigned digit strings. Anything else is
// rejected before decimal parsing.
func parseAmount(raw string) (decimal.Decimal, error) {
	if len(raw) > core.MaxAmountDigits {
		return decimal.Decimal{}, fmt.Errorf("%w: at most %d digits", core.ErrInvalidAmount, core.MaxAmountDigits)
	}
	for i := 0; i < len(raw); i++ {
		if raw[i] < '0' || raw[i] > '9' {
			return decimal.Decimal{}, core.ErrInvalidAmount
		}
	}
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Decimal{}, core.ErrInvalidAmount
	}
	return amount, nil
}
