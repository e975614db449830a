package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/layer-3/walletauth/service"
	"go.uber.org/zap"
)

// RouterConfig holds transport settings
type RouterConfig struct {
	SecureCookies bool
	// HealthCheck reports backing store health; nil always reports ok.
	HealthCheck func(ctx context.Context) error
}

// SetupRouter sets up the Gin router
func SetupRouter(authService *service.AuthService, ledger *service.LedgerService, log *zap.Logger, cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(Recovery(log), AccessLog(log))

	router.GET("/healthz", func(c *gin.Context) {
		if cfg.HealthCheck != nil {
			if err := cfg.HealthCheck(c.Request.Context()); err != nil {
				log.Warn("health check failed", zap.Error(err))
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	handlers := NewAuthHandlers(authService, log, cfg.SecureCookies)

	auth := router.Group("/api/auth")
	{
		auth.POST("/login", handlers.Login)
		auth.POST("/signup", handlers.Signup)
		auth.GET("/me", handlers.Me)
		auth.POST("/logout", handlers.Logout)
	}

	txHandlers := NewTransactionHandlers(ledger, log)

	// Protected API routes
	txs := router.Group("/api/transactions")
	txs.Use(SessionMiddleware(authService, log))
	{
		txs.POST("", txHandlers.Create)
		txs.GET("", txHandlers.List)
	}

	return router
}
