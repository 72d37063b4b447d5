package middleware

import (
	"context"
	"log"
	"net/http"
	"strings"

	jwtsvc "eventhub/internal/pkg/jwt"
	"eventhub/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

// TokenBlacklist is the revoked-token membership check consulted after
// signature validation.
type TokenBlacklist interface {
	Exists(ctx context.Context, tokenHash string) (bool, error)
}

// JWTAuth validates the bearer token and rejects blacklisted ones. On
// success the gin context carries user_id, email, role and the raw
// access_token (the logout handler needs the raw token to blacklist it).
func JWTAuth(jwt *jwtsvc.Service, blacklist TokenBlacklist) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		if h == "" {
			response.Error(c, http.StatusUnauthorized, "MISSING_TOKEN", "Missing Authorization header")
			c.Abort()
			return
		}

		parts := strings.SplitN(h, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			response.Error(c, http.StatusUnauthorized, "INVALID_TOKEN", "Authorization header must be 'Bearer <token>'")
			c.Abort()
			return
		}

		tokenStr := strings.TrimSpace(parts[1])
		if tokenStr == "" {
			response.Error(c, http.StatusUnauthorized, "INVALID_TOKEN", "Empty token")
			c.Abort()
			return
		}

		claims, err := jwt.ValidateToken(tokenStr)
		if err != nil {
			response.Error(c, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid token")
			c.Abort()
			return
		}

		revoked, err := blacklist.Exists(c.Request.Context(), jwtsvc.Sha256Hex(tokenStr))
		if err != nil {
			log.Printf("auth: blacklist lookup failed: %v", err)
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to verify token")
			c.Abort()
			return
		}
		if revoked {
			response.Error(c, http.StatusUnauthorized, "TOKEN_REVOKED", "Token has been revoked")
			c.Abort()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("email", claims.Email)
		c.Set("role", claims.Role)
		c.Set("access_token", tokenStr)

		c.Next()
	}
}
