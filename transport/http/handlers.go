package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/layer-3/walletauth/adapters/tokenizer"
	"github.com/layer-3/walletauth/core"
	"github.com/layer-3/walletauth/service"
	"go.uber.org/zap"
)

// User is the client-facing projection of an identity
type User struct {
	ID            uuid.UUID `json:"id"`
	WalletAddress string    `json:"walletAddress"`
	Name          *string   `json:"name"`
	Email         *string   `json:"email"`
	CreatedAt     time.Time `json:"createdAt"`
}

func newUser(identity *core.Identity) *User {
	if identity == nil {
		return nil
	}
	return &User{
		ID:            identity.ID,
		WalletAddress: identity.WalletAddress,
		Name:          identity.Name,
		Email:         identity.Email,
		CreatedAt:     identity.CreatedAt,
	}
}

// Transaction is the client-facing form of a ledger row. Amount is always a
// decimal string.
type Transaction struct {
	ID             uuid.UUID `json:"id"`
	ChainSignature string    `json:"chainSignature"`
	Kind           string    `json:"kind"`
	Amount         string    `json:"amount"`
	Recipient      string    `json:"recipient"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"createdAt"`
}

func newTransaction(rec core.TransactionRecord) Transaction {
	return Transaction{
		ID:             rec.ID,
		ChainSignature: rec.ChainSignature,
		Kind:           string(rec.Kind),
		Amount:         rec.Amount.String(),
		Recipient:      rec.Recipient,
		Status:         string(rec.Status),
		CreatedAt:      rec.CreatedAt,
	}
}

// AuthHandlers contains HTTP handlers for auth endpoints
type AuthHandlers struct {
	authService   *service.AuthService
	log           *zap.Logger
	secureCookies bool
}

// NewAuthHandlers creates new auth handlers
func NewAuthHandlers(authService *service.AuthService, log *zap.Logger, secureCookies bool) *AuthHandlers {
	return &AuthHandlers{
		authService:   authService,
		log:           log,
		secureCookies: secureCookies,
	}
}

// Login handles the login request
func (h *AuthHandlers) Login(c *gin.Context) {
	var req struct {
		WalletAddress string `json:"walletAddress"`
		Message       string `json:"message"`
		Signature     string `json:"signature"`
		SignedPayload string `json:"signedPayload"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	identity, token, err := h.authService.Login(c.Request.Context(), service.LoginRequest{
		WalletAddress: req.WalletAddress,
		Message:       req.Message,
		Signature:     req.Signature,
		SignedPayload: req.SignedPayload,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	setSessionCookie(c, token, h.secureCookies)
	c.JSON(http.StatusOK, gin.H{"success": true, "user": newUser(identity)})
}

// Signup registers a wallet
func (h *AuthHandlers) Signup(c *gin.Context) {
	var req struct {
		WalletAddress string  `json:"walletAddress"`
		PasskeyID     *string `json:"passkeyId"`
		Name          *string `json:"name"`
		Email         *string `json:"email"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	identity, token, err := h.authService.Signup(c.Request.Context(), service.SignupRequest{
		WalletAddress: req.WalletAddress,
		PasskeyID:     req.PasskeyID,
		Name:          req.Name,
		Email:         req.Email,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	setSessionCookie(c, token, h.secureCookies)
	c.JSON(http.StatusCreated, gin.H{"success": true, "user": newUser(identity)})
}

// Me returns the session holder, or null for anonymous callers
func (h *AuthHandlers) Me(c *gin.Context) {
	identity := h.authService.SessionLookup(c.Request.Context(), sessionToken(c))
	c.JSON(http.StatusOK, gin.H{"user": newUser(identity)})
}

// Logout clears the session cookie. The token itself stays valid until expiry.
func (h *AuthHandlers) Logout(c *gin.Context) {
	clearSessionCookie(c, h.secureCookies)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// TransactionHandlers serves the ledger to session holders
type TransactionHandlers struct {
	ledger *service.LedgerService
	log    *zap.Logger
}

func NewTransactionHandlers(ledger *service.LedgerService, log *zap.Logger) *TransactionHandlers {
	return &TransactionHandlers{ledger: ledger, log: log}
}

// Create records a transfer for the session holder
func (h *TransactionHandlers) Create(c *gin.Context) {
	claim := sessionFrom(c)

	var req struct {
		ChainSignature string      `json:"chainSignature"`
		Kind           string      `json:"kind"`
		Amount         json.Number `json:"amount"`
		Recipient      string      `json:"recipient"`
		Status         string      `json:"status"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	rec, err := h.ledger.Record(c.Request.Context(), claim.UserID, service.RecordRequest{
		ChainSignature: req.ChainSignature,
		Kind:           req.Kind,
		Amount:         req.Amount.String(),
		Recipient:      req.Recipient,
		Status:         req.Status,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "transaction": newTransaction(*rec)})
}

// List pages through the session holder's transfers
func (h *TransactionHandlers) List(c *gin.Context) {
	claim := sessionFrom(c)

	limit, err := queryInt(c, "limit")
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	offset, err := queryInt(c, "offset")
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	page, err := h.ledger.List(c.Request.Context(), claim.UserID, limit, offset)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	txs := make([]Transaction, 0, len(page.Records))
	for _, rec := range page.Records {
		txs = append(txs, newTransaction(rec))
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"transactions": txs,
		"pagination": gin.H{
			"total":   page.Total,
			"limit":   page.Limit,
			"offset":  page.Offset,
			"hasMore": page.HasMore(),
		},
	})
}

func queryInt(c *gin.Context, key string) (int, error) {
	raw, ok := c.GetQuery(key)
	if !ok || raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, core.ErrInvalidPagination
	}
	return n, nil
}

func setSessionCookie(c *gin.Context, token string, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(tokenizer.CookieName, token, int(core.SessionTTL/time.Second), "/", "", secure, true)
}

func clearSessionCookie(c *gin.Context, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(tokenizer.CookieName, "", -1, "/", "", secure, true)
}

// respondError maps the error taxonomy onto status codes. Anything outside it
// is logged and reported without detail.
func respondError(c *gin.Context, log *zap.Logger, err error) {
	switch {
	case errors.Is(err, core.ErrMissingFields):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields"})
	case errors.Is(err, core.ErrInvalidAddress):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid wallet address"})
	case errors.Is(err, core.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, core.ErrReplayedSignature):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Signature already used"})
	case errors.Is(err, core.ErrInvalidSignature):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid signature"})
	case errors.Is(err, core.ErrTokenExpired):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Session expired"})
	case errors.Is(err, core.ErrAuthentication):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
	case errors.Is(err, core.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
	case errors.Is(err, core.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "User already exists"})
	default:
		log.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
