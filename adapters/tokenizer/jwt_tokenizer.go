package tokenizer

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/layer-3/walletauth/core"
	"github.com/layer-3/walletauth/ports"
)

const AudienceSession = "session:access"

// Option customizes a JWTTokenizer
type Option func(*JWTTokenizer)

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(j *JWTTokenizer) {
		if now != nil {
			j.now = now
		}
	}
}

// WithTTL overrides core.SessionTTL.
func WithTTL(ttl time.Duration) Option {
	return func(j *JWTTokenizer) {
		if ttl > 0 {
			j.ttl = ttl
		}
	}
}

// JWTTokenizer implements the Tokenizer interface using HS256 JWTs
type JWTTokenizer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewJWTTokenizer creates a new JWT tokenizer signing with secret.
// Rotating the secret invalidates every outstanding session.
func NewJWTTokenizer(secret []byte, opts ...Option) (ports.Tokenizer, error) {
	if len(secret) == 0 {
		return nil, errors.New("session secret is empty")
	}
	j := &JWTTokenizer{
		secret: append([]byte(nil), secret...),
		ttl:    core.SessionTTL,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(j)
	}
	return j, nil
}

// Issue signs a session token for the identity
func (j *JWTTokenizer) Issue(userID uuid.UUID, walletAddress string) (string, error) {
	now := j.now()
	claims := SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			ID:        uuid.New().String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Audience:  jwt.ClaimStrings{AudienceSession},
		},
		UserID:        userID.String(),
		WalletAddress: walletAddress,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signedToken, err := token.SignedString(j.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}

	return signedToken, nil
}

// Validate parses a session token and returns its claim
func (j *JWTTokenizer) Validate(tokenStr string) (*core.SessionClaim, error) {
	if tokenStr == "" {
		return nil, core.ErrInvalidToken
	}

	token, err := jwt.ParseWithClaims(tokenStr, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		return j.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithAudience(AudienceSession),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(j.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, core.ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", core.ErrInvalidToken, err)
	}

	if !token.Valid {
		return nil, core.ErrInvalidToken
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok {
		return nil, core.ErrInvalidToken
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil || claims.WalletAddress == "" || claims.IssuedAt == nil {
		return nil, core.ErrInvalidToken
	}

	return &core.SessionClaim{
		UserID:        userID,
		WalletAddress: claims.WalletAddress,
		IssuedAt:      claims.IssuedAt.Time,
		ExpiresAt:     claims.ExpiresAt.Time,
	}, nil
}
