package core

import (
	"errors"
	"testing"
	"time"

	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChallengeMessage(t *testing.T) {
	at := time.UnixMilli(1714564800123)
	msg := NewChallenge("4Nd1mBQtrMJVYVfKf2PJy9NZUZdTAsp7D4xWLs4gDB4T", at).Message()

	assert.Equal(t,
		"Sign this message to authenticate with LazorKit\n"+
			"Wallet: 4Nd1mBQtrMJVYVfKf2PJy9NZUZdTAsp7D4xWLs4gDB4T\n"+
			"Timestamp: 1714564800123",
		msg)
}

func TestDecodeAddress(t *testing.T) {
	key := make([]byte, PublicKeySize)
	key[0] = 7

	got, err := DecodeAddress(base58.Encode(key))
	require.NoError(t, err)
	assert.Equal(t, key, got)

	for _, bad := range []string{"", "0OIl", base58.Encode(key[:31]), base58.Encode(append(key, 1))} {
		_, err := DecodeAddress(bad)
		assert.ErrorIs(t, err, ErrInvalidAddress, bad)
		assert.ErrorIs(t, err, ErrValidation, bad)
	}
}

func TestErrorCategories(t *testing.T) {
	assert.True(t, errors.Is(ErrInvalidSignature, ErrAuthentication))
	assert.True(t, errors.Is(ErrTokenExpired, ErrAuthentication))
	assert.True(t, errors.Is(ErrInvalidAmount, ErrValidation))
	assert.False(t, errors.Is(ErrDecode, ErrAuthentication))
}

func TestTransactionPageHasMore(t *testing.T) {
	tests := []struct {
		total, limit, offset int
		want                 bool
	}{
		{total: 0, limit: 50, offset: 0, want: false},
		{total: 10, limit: 5, offset: 0, want: true},
		{total: 10, limit: 5, offset: 5, want: false},
		{total: 11, limit: 5, offset: 5, want: true},
		{total: 3, limit: 5, offset: 10, want: false},
	}
	for _, tt := range tests {
		p := TransactionPage{Total: tt.total, Limit: tt.limit, Offset: tt.offset}
		assert.Equal(t, tt.want, p.HasMore(), "%+v", tt)
	}
}

func TestEnumValidity(t *testing.T) {
	assert.True(t, TxKindTransfer.Valid())
	assert.False(t, TxKind("transfer").Valid())
	assert.True(t, TxStatusFailed.Valid())
	assert.False(t, TxStatus("").Valid())
}
