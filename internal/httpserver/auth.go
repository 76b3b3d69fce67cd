package httpserver

import (
	"net/http"
	"strings"

	"github.com/arjun2k01/esports-cart/internal/domain"
	"github.com/gin-gonic/gin"
)

const actorKey = "actor"

// authMiddleware resolves the bearer token to a verified actor. Routes
// behind it can trust the actor completely.
func authMiddleware(users UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse{Code: "UNAUTHORIZED", Message: "missing bearer token"})
			return
		}
		u, err := users.LookupByToken(c.Request.Context(), strings.TrimSpace(token))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse{Code: "UNAUTHORIZED", Message: "invalid or expired token"})
			return
		}
		c.Set(actorKey, domain.Actor{UserID: u.ID, IsAdmin: u.IsAdmin})
		c.Next()
	}
}

// adminMiddleware gates a route to admin actors. Must run after
// authMiddleware.
func adminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !actorFrom(c).IsAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, errorResponse{Code: "FORBIDDEN", Message: "admin only"})
			return
		}
		c.Next()
	}
}

func actorFrom(c *gin.Context) domain.Actor {
	if v, ok := c.Get(actorKey); ok {
		if actor, ok := v.(domain.Actor); ok {
			return actor
		}
	}
	return domain.Actor{}
}
