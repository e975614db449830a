package core

import (
	"errors"
	"fmt"
)

// Error categories. Every error returned by the services either wraps one of
// these or is treated as internal.
var (
	ErrValidation     = errors.New("validation failed")
	ErrAuthentication = errors.New("authentication failed")
	ErrNotFound       = errors.New("not found")
	ErrConflict       = errors.New("already exists")
)

var (
	ErrMissingFields     = fmt.Errorf("%w: missing required fields", ErrValidation)
	ErrInvalidAddress    = fmt.Errorf("%w: invalid wallet address", ErrValidation)
	ErrInvalidAmount     = fmt.Errorf("%w: amount must be a non-negative integer", ErrValidation)
	ErrInvalidKind       = fmt.Errorf("%w: unknown transaction kind", ErrValidation)
	ErrInvalidStatus     = fmt.Errorf("%w: unknown transaction status", ErrValidation)
	ErrInvalidPagination = fmt.Errorf("%w: invalid pagination", ErrValidation)

	ErrInvalidSignature  = fmt.Errorf("%w: invalid signature", ErrAuthentication)
	ErrReplayedSignature = fmt.Errorf("%w: signature already used", ErrAuthentication)
	ErrInvalidToken      = fmt.Errorf("%w: invalid token", ErrAuthentication)
	ErrTokenExpired      = fmt.Errorf("%w: token has expired", ErrAuthentication)

	// ErrDecode is returned when a signature string is not a 64-byte value in
	// any supported encoding.
	ErrDecode = errors.New("signature is not a 64-byte base58, base64 or hex value")

	// ErrInvalidKey is returned when public key bytes are not a valid Ed25519 key.
	ErrInvalidKey = errors.New("invalid public key")
)
