package ports

import "github.com/layer-3/walletauth/core"

// ProofVerifier decides whether a submitted proof establishes control of the wallet.
// A process runs exactly one implementation; the trust policy is fixed at startup.
type ProofVerifier interface {
	Policy() string
	VerifyProof(proof core.SignatureProof) error
}
