package v1

import (
	"github.com/gin-gonic/gin"

	"chat-api/internal/interfaces/httpserver/handlers"
)

func registerAuthRoutes(public, protected gin.IRoutes, handler *handlers.AuthHandler) {
	public.POST("/auth/signin", handler.SignIn)
	public.POST("/auth/signup", handler.SignUp)
	protected.POST("/auth/signout", handler.SignOut)
	protected.GET("/auth/me", handler.Me)
}
