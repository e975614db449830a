package tokenizer

import "github.com/golang-jwt/jwt/v5"

// SessionClaims combines standard claims with the identity ones
type SessionClaims struct {
	jwt.RegisteredClaims
	UserID        string `json:"userId"`
	WalletAddress string `json:"walletAddress"`
}
