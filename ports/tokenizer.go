package ports

import (
	"github.com/google/uuid"
	"github.com/layer-3/walletauth/core"
)

// Tokenizer converts between session claims and signed tokens
type Tokenizer interface {
	// Issue signs a session for the identity, expiring core.SessionTTL from now.
	Issue(userID uuid.UUID, walletAddress string) (string, error)
	// Validate returns the embedded claim, or an error wrapping core.ErrAuthentication.
	Validate(token string) (*core.SessionClaim, error)
}
