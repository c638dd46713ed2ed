package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/stemsi/profile-directory/internal/middleware"
	"github.com/stemsi/profile-directory/internal/model"
	"github.com/stemsi/profile-directory/internal/response"
	"github.com/stemsi/profile-directory/internal/service"
)

// errorMessage is the bare {error} body of the sign-in endpoint.
type errorMessage struct {
	Error string `json:"error"`
}

// AuthHandler handles admin sign-in and sign-out.
type AuthHandler struct {
	authService *service.AuthService
	cookie      middleware.SessionCookie
	log         zerolog.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *service.AuthService, cookie middleware.SessionCookie, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		cookie:      cookie,
		log:         log.With().Str("component", "auth_handler").Logger(),
	}
}

// SignIn godoc
// POST /api/admin/signin
// Exchanges the configured admin credentials for a 24h token, also stored in
// the adminToken cookie.
func (h *AuthHandler) SignIn(c *gin.Context) {
	var req model.SignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn().Err(err).Msg("Unreadable sign-in body")
		c.JSON(http.StatusInternalServerError, errorMessage{Error: response.GetMessage(response.ErrInternal)})
		return
	}

	token, err := h.authService.SignIn(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, errorMessage{Error: response.GetMessage(response.ErrInvalidCredentials)})
			return
		}
		h.log.Error().Err(err).Msg("Token issue failed")
		c.JSON(http.StatusInternalServerError, errorMessage{Error: response.GetMessage(response.ErrInternal)})
		return
	}

	middleware.GetSession(c).SignIn(token)
	h.cookie.Set(c, token)
	h.log.Info().Str("client_ip", c.ClientIP()).Msg("Admin signed in")

	c.JSON(http.StatusOK, model.SignInResponse{Token: token})
}

// SignOut godoc
// POST /api/admin/signout
// Discards the session and its cookie.
func (h *AuthHandler) SignOut(c *gin.Context) {
	middleware.GetSession(c).SignOut()
	h.cookie.Clear(c)

	response.Success(c, http.StatusOK, gin.H{"signed_in": false}, response.WithNotice(response.NoticeSignedOut))
}
