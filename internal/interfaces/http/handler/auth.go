package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hadesigndz/Ha-Design/internal/application/identity"
	"github.com/hadesigndz/Ha-Design/internal/interfaces/http/dto"
	"github.com/hadesigndz/Ha-Design/internal/interfaces/http/middleware"
)

// AuthHandler handles administrator sign-in
type AuthHandler struct {
	BaseHandler
	authService *identity.AuthService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService *identity.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Login godoc
// @Summary      Administrator login
// @Description  Only served when the local auth provider is configured
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body identity.LoginRequest true "Credentials"
// @Success      200 {object} APIResponse[identity.LoginResult]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req identity.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	result, err := h.authService.Login(c.Request.Context(), identity.LoginInput{
		Email:    req.Email,
		Password: req.Password,
		IP:       c.ClientIP(),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Logout godoc
// @Summary      Revoke the current access token
// @Tags         auth
// @Success      204
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	p := middleware.GetPrincipal(c)
	if p == nil {
		h.Error(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, "Missing authorization token")
		return
	}

	err := h.authService.Logout(c.Request.Context(), identity.LogoutInput{
		TokenJTI:  p.TokenID,
		ExpiresAt: p.ExpiresAt,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Me godoc
// @Summary      The signed-in administrator
// @Tags         auth
// @Produce      json
// @Success      200 {object} APIResponse[identity.AdminInfo]
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	p := middleware.GetPrincipal(c)
	if p == nil {
		h.Error(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, "Missing authorization token")
		return
	}
	h.Success(c, identity.AdminInfo{Email: p.Email, Provider: p.Provider})
}
