package v1

import (
	"github.com/gin-gonic/gin"

	"chat-api/internal/interfaces/httpserver/handlers"
)

// Routes encapsulates versioned route registration.
type Routes struct {
	handlers *handlers.Provider
}

// NewRoutes builds the v1 route registrar.
func NewRoutes(handlerProvider *handlers.Provider) *Routes {
	return &Routes{
		handlers: handlerProvider,
	}
}

// Register attaches all v1 routes under the /v1 prefix. Sign-in and
// sign-up stay reachable without a token; everything else runs behind
// authMiddleware when one is supplied.
func (r *Routes) Register(engine *gin.Engine, authMiddleware gin.HandlerFunc) {
	public := engine.Group("/v1")
	protected := engine.Group("/v1")
	if authMiddleware != nil {
		protected.Use(authMiddleware)
	}
	registerAuthRoutes(public, protected, r.handlers.Auth)
	registerChatRoutes(protected, r.handlers.Chat)
}
