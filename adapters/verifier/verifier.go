package verifier

import (
	"crypto/ed25519"

	"github.com/layer-3/walletauth/core"
)

// Verify checks an Ed25519 detached signature over message. The message bytes
// are used exactly as given.
func Verify(message, signature, publicKey []byte) (bool, error) {
	if len(publicKey) != ed25519.PublicKeySize {
		return false, core.ErrInvalidKey
	}
	if len(signature) != ed25519.SignatureSize {
		return false, nil
	}
	return ed25519.Verify(ed25519.PublicKey(publicKey), message, signature), nil
}
