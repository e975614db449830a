package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/layer-3/walletauth/core"
	"github.com/layer-3/walletauth/ports"
	"go.uber.org/zap"
)

// LoginRequest carries a signed challenge
type LoginRequest struct {
	WalletAddress string
	Message       string
	Signature     string
	SignedPayload string
}

// SignupRequest registers a wallet
type SignupRequest struct {
	WalletAddress string
	PasskeyID     *string
	Name          *string
	Email         *string
}

// Option customizes an AuthService
type Option func(*AuthService)

// WithReplayGuard rejects a login signature seen within window.
func WithReplayGuard(guard ports.ReplayGuard, window time.Duration) Option {
	return func(s *AuthService) {
		if guard != nil && window > 0 {
			s.replay = guard
			s.replayWindow = window
		}
	}
}

// WithEventPublisher announces signups.
func WithEventPublisher(pub ports.EventPublisher) Option {
	return func(s *AuthService) { s.eventPub = pub }
}

// WithLogger sets the service logger.
func WithLogger(log *zap.Logger) Option {
	return func(s *AuthService) {
		if log != nil {
			s.log = log
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *AuthService) {
		if now != nil {
			s.now = now
		}
	}
}

// AuthService handles authentication business logic
type AuthService struct {
	identities ports.IdentityRepository
	tokens     ports.Tokenizer
	verifier   ports.ProofVerifier
	eventPub   ports.EventPublisher
	replay     ports.ReplayGuard
	log        *zap.Logger

	replayWindow time.Duration
	now          func() time.Time
}

// NewAuthService creates a new authentication service
func NewAuthService(
	identities ports.IdentityRepository,
	tokens ports.Tokenizer,
	verifier ports.ProofVerifier,
	opts ...Option,
) *AuthService {
	s := &AuthService{
		identities: identities,
		tokens:     tokens,
		verifier:   verifier,
		log:        zap.NewNop(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// TrustPolicy names the active signature trust policy.
func (s *AuthService) TrustPolicy() string {
	return s.verifier.Policy()
}

// Login authenticates an existing identity from a signed challenge. It never
// creates an account.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*core.Identity, string, error) {
	if req.WalletAddress == "" || req.Message == "" || req.Signature == "" {
		return nil, "", core.ErrMissingFields
	}

	if err := core.ValidateAddress(req.WalletAddress); err != nil {
		return nil, "", err
	}

	proof := core.SignatureProof{
		WalletAddress: req.WalletAddress,
		Message:       req.Message,
		Signature:     req.Signature,
		SignedPayload: req.SignedPayload,
	}
	if err := s.verifier.VerifyProof(proof); err != nil {
		s.log.Debug("signature rejected",
			zap.String("wallet", req.WalletAddress),
			zap.String("policy", s.verifier.Policy()),
			zap.Error(err),
		)
		return nil, "", err
	}

	identity, err := s.identities.GetByWalletAddress(ctx, req.WalletAddress)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, "", core.ErrNotFound
		}
		return nil, "", fmt.Errorf("failed to look up identity: %w", err)
	}

	// Claimed only once the login can succeed, so a signature rejected for an
	// unknown wallet may be retried after signup.
	if err := s.claimSignature(ctx, req); err != nil {
		return nil, "", err
	}

	token, err := s.tokens.Issue(identity.ID, identity.WalletAddress)
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue session: %w", err)
	}

	return identity, token, nil
}

func (s *AuthService) claimSignature(ctx context.Context, req LoginRequest) error {
	if s.replay == nil {
		return nil
	}

	sum := sha256.Sum256([]byte(req.WalletAddress + "\x00" + req.Signature))
	fresh, err := s.replay.Claim(ctx, hex.EncodeToString(sum[:]), s.replayWindow)
	if err != nil {
		return fmt.Errorf("failed to check signature replay: %w", err)
	}
	if !fresh {
		return core.ErrReplayedSignature
	}
	return nil
}

// Signup registers a new wallet and opens a session for it
func (s *AuthService) Signup(ctx context.Context, req SignupRequest) (*core.Identity, string, error) {
	if req.WalletAddress == "" {
		return nil, "", core.ErrMissingFields
	}

	if err := core.ValidateAddress(req.WalletAddress); err != nil {
		return nil, "", err
	}

	_, err := s.identities.GetByWalletAddress(ctx, req.WalletAddress)
	switch {
	case err == nil:
		return nil, "", core.ErrConflict
	case !errors.Is(err, core.ErrNotFound):
		return nil, "", fmt.Errorf("failed to look up identity: %w", err)
	}

	identity := &core.Identity{
		ID:            uuid.New(),
		WalletAddress: req.WalletAddress,
		PasskeyID:     nonEmpty(req.PasskeyID),
		Name:          nonEmpty(req.Name),
		Email:         nonEmpty(req.Email),
		CreatedAt:     s.now().UTC(),
	}

	// A concurrent signup may have won the race since the lookup.
	if err := s.identities.Create(ctx, identity); err != nil {
		if errors.Is(err, core.ErrConflict) {
			return nil, "", core.ErrConflict
		}
		return nil, "", fmt.Errorf("failed to create identity: %w", err)
	}

	token, err := s.tokens.Issue(identity.ID, identity.WalletAddress)
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue session: %w", err)
	}

	if s.eventPub != nil {
		if err := s.eventPub.PublishIdentityCreated(ctx, identity); err != nil {
			// The identity is stored, which is the critical part
			s.log.Warn("failed to publish signup event", zap.String("user_id", identity.ID.String()), zap.Error(err))
		}
	}

	return identity, token, nil
}

// Authenticate validates a session token for protected operations
func (s *AuthService) Authenticate(ctx context.Context, token string) (*core.SessionClaim, error) {
	if token == "" {
		return nil, core.ErrInvalidToken
	}
	return s.tokens.Validate(token)
}

// SessionLookup resolves a session token to its identity. Anonymous callers
// are a normal case, so every failure yields nil rather than an error.
func (s *AuthService) SessionLookup(ctx context.Context, token string) *core.Identity {
	claim, err := s.Authenticate(ctx, token)
	if err != nil {
		return nil
	}

	identity, err := s.identities.GetByID(ctx, claim.UserID)
	if err != nil {
		if !errors.Is(err, core.ErrNotFound) {
			s.log.Warn("session lookup failed", zap.String("user_id", claim.UserID.String()), zap.Error(err))
		}
		return nil
	}

	// A token for one wallet must not resolve to an identity holding another.
	if identity.WalletAddress != claim.WalletAddress {
		return nil
	}

	return identity
}

func nonEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}
