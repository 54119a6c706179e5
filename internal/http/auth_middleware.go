package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const authUserIDKey = "auth_user_id"

// TokenResolver es la única capacidad del gateway que consumen los
// route groups protegidos: token adentro, user id o rechazo afuera.
type TokenResolver interface {
	Resolve(ctx context.Context, token string) (string, error)
}

// RequireSession resuelve el token de la request y guarda el user id
// en el contexto. Cualquier falla responde 401 sin distinguir causa.
func RequireSession(resolver TokenResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
			c.Abort()
			return
		}

		userID, err := resolver.Resolve(c.Request.Context(), token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
			c.Abort()
			return
		}

		c.Set(authUserIDKey, userID)
		c.Next()
	}
}

// AuthUserID obtiene el user id autenticado desde el contexto.
func AuthUserID(c *gin.Context) (string, bool) {
	val, ok := c.Get(authUserIDKey)
	if !ok {
		return "", false
	}
	userID, ok := val.(string)
	return userID, ok && userID != ""
}

func bearerToken(c *gin.Context) string {
	header := strings.TrimSpace(c.GetHeader("Authorization"))
	if header == "" || !strings.HasPrefix(strings.ToLower(header), "bearer ") {
		return ""
	}
	return strings.TrimSpace(header[len("Bearer "):])
}
