package verifier

import (
	"fmt"

	"github.com/layer-3/walletauth/core"
	"github.com/layer-3/walletauth/ports"
)

const (
	// PolicySignature re-verifies the Ed25519 signature against the wallet key.
	PolicySignature = "signature"

	// PolicyDelegated trusts the wallet's secure hardware to have verified the
	// signature already and only checks the proof is well formed.
	PolicyDelegated = "delegated"
)

// New returns the verifier for the named trust policy.
func New(policy string) (ports.ProofVerifier, error) {
	switch policy {
	case PolicySignature:
		return NewSignatureVerifier(), nil
	case PolicyDelegated:
		return NewDelegatedVerifier(), nil
	default:
		return nil, fmt.Errorf("unknown trust policy %q", policy)
	}
}

// SignatureVerifier performs full public-key verification
type SignatureVerifier struct{}

// NewSignatureVerifier creates a verifier for PolicySignature
func NewSignatureVerifier() *SignatureVerifier {
	return &SignatureVerifier{}
}

func (v *SignatureVerifier) Policy() string { return PolicySignature }

// VerifyProof checks the signature over the signed payload when one is
// supplied, and over the challenge text otherwise.
func (v *SignatureVerifier) VerifyProof(proof core.SignatureProof) error {
	publicKey, err := core.DecodeAddress(proof.WalletAddress)
	if err != nil {
		return err
	}

	sig, err := DecodeSignature(proof.Signature)
	if err != nil {
		return fmt.Errorf("%w: %v", core.ErrInvalidSignature, err)
	}

	message := []byte(proof.Message)
	if proof.SignedPayload != "" {
		message, err = DecodePayload(proof.SignedPayload)
		if err != nil || len(message) == 0 {
			return fmt.Errorf("%w: malformed signed payload", core.ErrInvalidSignature)
		}
	}

	ok, err := Verify(message, sig, publicKey)
	if err != nil {
		return fmt.Errorf("%w: %v", core.ErrInvalidSignature, err)
	}
	if !ok {
		return core.ErrInvalidSignature
	}
	return nil
}

// DelegatedVerifier only checks structure
type DelegatedVerifier struct{}

// NewDelegatedVerifier creates a verifier for PolicyDelegated
func NewDelegatedVerifier() *DelegatedVerifier {
	return &DelegatedVerifier{}
}

func (v *DelegatedVerifier) Policy() string { return PolicyDelegated }

// VerifyProof requires a 64-byte signature and a non-empty signed payload.
func (v *DelegatedVerifier) VerifyProof(proof core.SignatureProof) error {
	if err := core.ValidateAddress(proof.WalletAddress); err != nil {
		return err
	}
	if _, err := DecodeSignature(proof.Signature); err != nil {
		return fmt.Errorf("%w: %v", core.ErrInvalidSignature, err)
	}
	if proof.SignedPayload == "" {
		return fmt.Errorf("%w: signed payload is required", core.ErrInvalidSignature)
	}
	payload, err := DecodePayload(proof.SignedPayload)
	if err != nil || len(payload) == 0 {
		return fmt.Errorf("%w: malformed signed payload", core.ErrInvalidSignature)
	}
	return nil
}
