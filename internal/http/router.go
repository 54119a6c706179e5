package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RouterDeps agrupa lo que NewRouter necesita para armar los grupos de rutas.
type RouterDeps struct {
	Logger         *zap.Logger
	Auth           *AuthHandler
	Users          *UserHandler
	Napps          *NappHandler
	Comments       *CommentHandler
	Resolver       TokenResolver
	EnableComments bool
}

// NewRouter configura el router de Gin con middlewares y grupos de rutas.
func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()

	// Middlewares básicos: logging, recovery y JSON content-type.
	r.Use(zapLoggerMiddleware(deps.Logger), gin.Recovery(), jsonContentTypeMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authGroup := r.Group("/api/auth")
	authGroup.POST("/login", deps.Auth.Login)
	authGroup.POST("/logout", deps.Auth.Logout)

	users := r.Group("/api/users")
	users.POST("", deps.Users.Register)
	users.GET("", deps.Users.List)
	users.GET("/:username", deps.Users.Get)
	users.GET("/:username/confirm/:token", deps.Users.Confirm)

	napps := r.Group("/api/napps")
	napps.GET("", deps.Napps.List)
	napps.GET("/:author", deps.Napps.ListByAuthor)
	napps.GET("/:author/:name", deps.Napps.Get)

	protected := napps.Group("")
	protected.Use(RequireSession(deps.Resolver))
	protected.POST("", deps.Napps.Register)
	protected.DELETE("/:author/:name", deps.Napps.Delete)

	// El grupo de comentarios se resuelve acá, en la composición:
	// apagado, nunca recibe tráfico.
	if deps.EnableComments && deps.Comments != nil {
		comments := r.Group("/api/comments")
		comments.GET("", deps.Comments.List)
		comments.POST("", RequireSession(deps.Resolver), deps.Comments.Create)
	}

	return r
}

// zapLoggerMiddleware crea un middleware simple de logging con zap.
func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

// jsonContentTypeMiddleware fuerza Content-Type: application/json en responses.
func jsonContentTypeMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Content-Type", "application/json")
		c.Next()
	}
}
