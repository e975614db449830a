package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/layer-3/walletauth/adapters/tokenizer"
	"github.com/layer-3/walletauth/core"
	"github.com/layer-3/walletauth/service"
	"go.uber.org/zap"
)

const sessionKey = "session"

// SessionMiddleware rejects requests without a valid session cookie
func SessionMiddleware(authService *service.AuthService, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		claim, err := authService.Authenticate(c.Request.Context(), sessionToken(c))
		if err != nil {
			respondError(c, log, err)
			c.Abort()
			return
		}

		c.Set(sessionKey, claim)
		c.Next()
	}
}

// sessionToken reads the session cookie from the raw Cookie header.
func sessionToken(c *gin.Context) string {
	token, _ := tokenizer.ExtractToken(c.GetHeader("Cookie"), tokenizer.CookieName)
	return token
}

// sessionFrom returns the claim stored by SessionMiddleware
func sessionFrom(c *gin.Context) *core.SessionClaim {
	return c.MustGet(sessionKey).(*core.SessionClaim)
}

// AccessLog writes one line per request
func AccessLog(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

// Recovery turns a handler panic into a 500
func Recovery(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Error("panic recovered",
					zap.Any("panic", r),
					zap.String("method", c.Request.Method),
					zap.String("path", c.Request.URL.Path),
					zap.Stack("stack"),
				)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			}
		}()
		c.Next()
	}
}
