package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"chat-api/internal/domain/identity"
	"chat-api/internal/infrastructure/auth"
	"chat-api/internal/interfaces/httpserver/requests"
	"chat-api/internal/interfaces/httpserver/responses"
	"chat-api/internal/utils/platformerrors"
)

// AuthHandler exposes HTTP entrypoints for the authentication flows.
type AuthHandler struct {
	service identity.Service
	log     zerolog.Logger
}

// NewAuthHandler constructs the handler.
func NewAuthHandler(service identity.Service, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		log:     log.With().Str("handler", "auth").Logger(),
	}
}

// SignIn handles POST /v1/auth/signin
func (h *AuthHandler) SignIn(c *gin.Context) {
	var req requests.SignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		platformerrors.WriteValidationError(c, "email and password are required")
		return
	}

	user, err := h.service.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		platformerrors.WriteError(c, err, h.log)
		return
	}

	c.JSON(http.StatusOK, responses.FromUser(user))
}

// SignUp handles POST /v1/auth/signup
func (h *AuthHandler) SignUp(c *gin.Context) {
	var req requests.SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		platformerrors.WriteValidationError(c, "email, password and confirm_password are required")
		return
	}

	user, err := h.service.SignUp(c.Request.Context(), req.Email, req.Password, req.ConfirmPassword)
	if err != nil {
		platformerrors.WriteError(c, err, h.log)
		return
	}

	c.JSON(http.StatusCreated, responses.FromUser(user))
}

// SignOut handles POST /v1/auth/signout
func (h *AuthHandler) SignOut(c *gin.Context) {
	userID, ok := auth.UserID(c)
	if !ok {
		platformerrors.WriteUnauthorized(c, "not signed in")
		return
	}

	h.service.SignOut(c.Request.Context(), userID)
	c.Status(http.StatusNoContent)
}

// Me handles GET /v1/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	idToken := auth.BearerToken(c.GetHeader("Authorization"))
	if idToken == "" {
		platformerrors.WriteUnauthorized(c, "missing bearer token")
		return
	}

	user, err := h.service.CurrentUser(c.Request.Context(), idToken)
	if err != nil {
		platformerrors.WriteError(c, err, h.log)
		return
	}

	c.JSON(http.StatusOK, responses.FromUser(user))
}
