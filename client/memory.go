package client

import (
	"context"
	"crypto/ed25519"
	"errors"
	"sync"

	"github.com/mr-tron/base58"
)

// MemorySessionStore keeps the session in process memory
type MemorySessionStore struct {
	mu      sync.RWMutex
	session *Session
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{}
}

func (s *MemorySessionStore) Load() (*Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.session == nil {
		return nil, false
	}
	cpy := *s.session
	return &cpy, true
}

func (s *MemorySessionStore) Save(session *Session) error {
	if session == nil || session.Token == "" {
		return errors.New("empty session")
	}
	cpy := *session
	s.mu.Lock()
	s.session = &cpy
	s.mu.Unlock()
	return nil
}

func (s *MemorySessionStore) Clear() {
	s.mu.Lock()
	s.session = nil
	s.mu.Unlock()
}

// ErrWalletNotConnected is returned when signing before Connect.
var ErrWalletNotConnected = errors.New("wallet not connected")

// KeyWallet is an in-process wallet holding an Ed25519 key. It signs the raw
// message and returns a base58 signature, as browser wallets do.
type KeyWallet struct {
	key ed25519.PrivateKey

	mu        sync.Mutex
	connected bool
}

func NewKeyWallet(key ed25519.PrivateKey) *KeyWallet {
	return &KeyWallet{key: key}
}

// Address is the base58 public key.
func (w *KeyWallet) Address() string {
	return base58.Encode(w.key.Public().(ed25519.PublicKey))
}

func (w *KeyWallet) Connect(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	w.mu.Lock()
	w.connected = true
	w.mu.Unlock()
	return w.Address(), nil
}

func (w *KeyWallet) SignMessage(ctx context.Context, message []byte) (SignedMessage, error) {
	if err := ctx.Err(); err != nil {
		return SignedMessage{}, err
	}
	w.mu.Lock()
	connected := w.connected
	w.mu.Unlock()
	if !connected {
		return SignedMessage{}, ErrWalletNotConnected
	}
	return SignedMessage{Signature: base58.Encode(ed25519.Sign(w.key, message))}, nil
}

func (w *KeyWallet) Disconnect(context.Context) error {
	w.mu.Lock()
	w.connected = false
	w.mu.Unlock()
	return nil
}

// Connected reports whether the wallet is connected.
func (w *KeyWallet) Connected() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.connected
}
