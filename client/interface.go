package client

import (
	"context"
)

// ProtectedPath is where a freshly authenticated user is sent.
const ProtectedPath = "/dashboard"

// SignedMessage is a wallet's answer to a signing request. Both values are
// already encoded for transport.
type SignedMessage struct {
	Signature     string
	SignedPayload string // optional, set by wallets that wrap the message before signing
}

// WalletProvider connects to a wallet and asks it to sign
type WalletProvider interface {
	Connect(ctx context.Context) (address string, err error)
	SignMessage(ctx context.Context, message []byte) (SignedMessage, error)
	Disconnect(ctx context.Context) error
}

// LoginRequest is what the machine submits once the wallet has signed
type LoginRequest struct {
	WalletAddress string `json:"walletAddress"`
	Message       string `json:"message"`
	Signature     string `json:"signature"`
	SignedPayload string `json:"signedPayload,omitempty"`
}

// Session is an established server session
type Session struct {
	Token         string
	UserID        string
	WalletAddress string
}

// Authenticator exchanges a signed challenge for a session
type Authenticator interface {
	Login(ctx context.Context, req LoginRequest) (*Session, error)
}

// SessionStore keeps the local session between page loads
type SessionStore interface {
	Load() (*Session, bool)
	Save(session *Session) error
	Clear()
}

// Navigator moves the user to another view
type Navigator interface {
	Navigate(path string)
}

// NavigatorFunc adapts a function to Navigator
type NavigatorFunc func(path string)

func (f NavigatorFunc) Navigate(path string) { f(path) }
