// Package handlers contains the gin handlers for the HTTP API.
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/vida-academica/backend/auth"
	"github.com/vida-academica/backend/server"
	"github.com/vida-academica/backend/validation"
)

// AuthHandler serves login, refresh and logout.
type AuthHandler struct {
	authenticator *auth.Authenticator
}

// NewAuthHandler creates the handler.
func NewAuthHandler(a *auth.Authenticator) *AuthHandler {
	return &AuthHandler{authenticator: a}
}

type loginRequest struct {
	Login string `json:"login" validate:"required,max=40"`
	Senha string `json:"senha" validate:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// Login handles POST /login. The token pair is returned bare, not wrapped in
// the data envelope, so clients can feed it straight to their token storage.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := bindAndValidate(c, &req); err != nil {
		server.RespondWithError(c, err)
		return
	}

	pair, err := h.authenticator.Login(c.Request.Context(), req.Login, req.Senha)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	c.JSON(200, pair)
}

// Refresh handles POST /refresh. A valid refresh token is rotated; the old
// one is dead after this call.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req refreshRequest
	if err := bindAndValidate(c, &req); err != nil {
		server.RespondWithError(c, err)
		return
	}

	pair, err := h.authenticator.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	c.JSON(200, pair)
}

// Logout handles POST /logout. Always 204 for authentic tokens, whatever
// ledger state they are in.
func (h *AuthHandler) Logout(c *gin.Context) {
	var req refreshRequest
	if err := bindAndValidate(c, &req); err != nil {
		server.RespondWithError(c, err)
		return
	}

	if err := h.authenticator.Logout(c.Request.Context(), req.RefreshToken); err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondNoContent(c)
}

// bindAndValidate decodes the JSON body and runs struct validation.
func bindAndValidate(c *gin.Context, dst any) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		return validationError(err)
	}
	return validation.Validate(dst)
}
