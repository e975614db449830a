package core

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mr-tron/base58"
)

// ChallengePreamble opens every message a wallet is asked to sign.
const ChallengePreamble = "Sign this message to authenticate with LazorKit"

// SessionTTL is the lifetime of an issued session token and its cookie.
const SessionTTL = 7 * 24 * time.Hour

// PublicKeySize is the length of a decoded wallet address.
const PublicKeySize = 32

// SignatureSize is the length of an Ed25519 detached signature.
const SignatureSize = 64

// Identity represents a registered wallet holder
type Identity struct {
	ID            uuid.UUID
	WalletAddress string // base58 public key, unique and immutable
	PasskeyID     *string
	Name          *string
	Email         *string
	CreatedAt     time.Time
}

// SessionClaim is the payload carried by a session token
type SessionClaim struct {
	UserID        uuid.UUID
	WalletAddress string
	IssuedAt      time.Time
	ExpiresAt     time.Time
}

// Challenge is the message a wallet signs to prove control of its key
type Challenge struct {
	WalletAddress string
	Timestamp     time.Time
}

// NewChallenge builds a challenge for the address at the given instant.
func NewChallenge(address string, at time.Time) Challenge {
	return Challenge{WalletAddress: address, Timestamp: at}
}

// Message renders the text handed to the wallet for signing.
func (c Challenge) Message() string {
	return fmt.Sprintf("%s\nWallet: %s\nTimestamp: %d", ChallengePreamble, c.WalletAddress, c.Timestamp.UnixMilli())
}

// SignatureProof is what a client submits as evidence of key ownership.
// Signature and SignedPayload are the raw strings as received; decoding is the
// verifier's job.
type SignatureProof struct {
	WalletAddress string
	Message       string
	Signature     string
	SignedPayload string
}

// DecodeAddress returns the public key bytes behind a base58 wallet address.
func DecodeAddress(address string) ([]byte, error) {
	if address == "" {
		return nil, ErrInvalidAddress
	}
	key, err := base58.Decode(address)
	if err != nil || len(key) != PublicKeySize {
		return nil, ErrInvalidAddress
	}
	return key, nil
}

// ValidateAddress reports whether address is a base58-encoded 32-byte key.
func ValidateAddress(address string) error {
	_, err := DecodeAddress(address)
	return err
}
