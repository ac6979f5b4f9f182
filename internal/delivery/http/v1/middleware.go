package v1

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const userIDCtxKey = "user_id"

// HandleAuthMiddleware accepts either a JWT access token or an
// "<id>.<secret>" api token in the Authorization header.
func (h *handlerImpl) HandleAuthMiddleware(c *gin.Context) {
	const authHeader = "Authorization"
	header := c.GetHeader(authHeader)
	if header == "" {
		h.logger.Error().Msg("authorization header required")
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	const bearerPrefix = "Bearer"
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != bearerPrefix {
		h.logger.Error().Msg("invalid authorization header")
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}
	token := parts[1]

	// JWTs have three dot-separated segments; api tokens have two.
	if strings.Count(token, ".") == 2 {
		claims, err := h.auth.ParseAccessToken(token)
		if err != nil {
			h.logger.Error().
				Err(err).
				Msg("failed to parse access token")
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		c.Set(userIDCtxKey, claims.Subject)
		c.Next()
		return
	}

	user, err := h.auth.VerifyAPIToken(c, token)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to verify api token")
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}
	c.Set(userIDCtxKey, user.ID)
	c.Next()
}
