package handlers

import (
	"context"
	"errors"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vida-academica/backend/auth/password"
	apperrors "github.com/vida-academica/backend/errors"
	"github.com/vida-academica/backend/server"
	"github.com/vida-academica/backend/store"
)

const dateLayout = "2006-01-02"

// SessionRevoker invalidates every refresh token a subject holds. Satisfied
// by auth.Authenticator.
type SessionRevoker interface {
	LogoutAll(ctx context.Context, ra string) error
}

// UsuarioHandler serves registration, profile, password change and account
// deletion.
type UsuarioHandler struct {
	store    *store.Store
	hasher   password.Hasher
	sessions SessionRevoker
}

// NewUsuarioHandler creates the handler.
func NewUsuarioHandler(s *store.Store, hasher password.Hasher, sessions SessionRevoker) *UsuarioHandler {
	return &UsuarioHandler{store: s, hasher: hasher, sessions: sessions}
}

type registerRequest struct {
	RA          string `json:"ra" validate:"required,ra"`
	Nome        string `json:"nome" validate:"required,max=50"`
	Email       string `json:"email" validate:"required,email,max=40"`
	Username    string `json:"username" validate:"required,min=3,max=20"`
	Senha       string `json:"senha" validate:"required,min=6,max=72"`
	Instituicao string `json:"instituicao" validate:"required,max=80"`
}

type updateUsuarioRequest struct {
	Nome         *string `json:"nome" validate:"omitempty,max=50"`
	DtNascimento *string `json:"dt_nascimento"`
	TelCelular   *string `json:"tel_celular" validate:"omitempty,max=15"`
	CursoID      *uint   `json:"id_curso"`
	Modulo       *int    `json:"modulo" validate:"omitempty,gte=1"`
	Bimestre     *int    `json:"bimestre" validate:"omitempty,gte=1,lte=4"`
}

type changeSenhaRequest struct {
	SenhaAtual string `json:"senha_atual" validate:"required"`
	SenhaNova  string `json:"senha_nova" validate:"required,min=6,max=72"`
}

// Register handles POST /usuarios. Open endpoint; the password is hashed
// before anything touches the database.
func (h *UsuarioHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := bindAndValidate(c, &req); err != nil {
		server.RespondWithError(c, err)
		return
	}

	hash, err := h.hasher.Hash(req.Senha)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}

	u := &store.Usuario{
		RA:        req.RA,
		Nome:      req.Nome,
		Email:     req.Email,
		Username:  req.Username,
		SenhaHash: hash,
	}
	if err := h.store.CreateUsuario(c.Request.Context(), u, req.Instituicao); err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondCreated(c, u)
}

// Me handles GET /usuarios/me.
func (h *UsuarioHandler) Me(c *gin.Context) {
	ident, err := callerIdentity(c)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	u, err := h.store.GetUsuarioByRA(c.Request.Context(), ident.RA)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondOK(c, u)
}

// UpdateMe handles PUT /usuarios/me. Only profile fields are mutable; RA,
// username and email are fixed at registration.
func (h *UsuarioHandler) UpdateMe(c *gin.Context) {
	ident, err := callerIdentity(c)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}

	var req updateUsuarioRequest
	if err := bindAndValidate(c, &req); err != nil {
		server.RespondWithError(c, err)
		return
	}

	upd := store.UsuarioUpdate{
		Nome:       req.Nome,
		TelCelular: req.TelCelular,
		CursoID:    req.CursoID,
		Modulo:     req.Modulo,
		Bimestre:   req.Bimestre,
	}
	if req.DtNascimento != nil {
		t, parseErr := time.Parse(dateLayout, *req.DtNascimento)
		if parseErr != nil {
			server.RespondWithError(c, apperrors.Validation("dt_nascimento: must be YYYY-MM-DD"))
			return
		}
		upd.DtNascimento = &t
	}

	u, err := h.store.UpdateUsuario(c.Request.Context(), ident.RA, upd)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondOK(c, u)
}

// ChangeSenha handles PUT /usuarios/me/senha. The current password must
// verify before the new hash is written.
func (h *UsuarioHandler) ChangeSenha(c *gin.Context) {
	ident, err := callerIdentity(c)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}

	var req changeSenhaRequest
	if err := bindAndValidate(c, &req); err != nil {
		server.RespondWithError(c, err)
		return
	}

	u, err := h.store.GetUsuarioByRA(c.Request.Context(), ident.RA)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	if err := h.hasher.Verify(req.SenhaAtual, u.SenhaHash); err != nil {
		if errors.Is(err, password.ErrMismatch) {
			server.RespondWithError(c, apperrors.InvalidCredentials())
			return
		}
		server.RespondWithError(c, err)
		return
	}

	newHash, err := h.hasher.Hash(req.SenhaNova)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	if err := h.store.UpdateSenhaHash(c.Request.Context(), ident.RA, newHash); err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondNoContent(c)
}

// DeleteMe handles DELETE /usuarios/me. The account and everything it owns
// is removed, then every refresh token the subject holds is revoked so a
// leaked token cannot outlive the account.
func (h *UsuarioHandler) DeleteMe(c *gin.Context) {
	ident, err := callerIdentity(c)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}

	if err := h.store.DeleteUsuario(c.Request.Context(), ident.RA); err != nil {
		server.RespondWithError(c, err)
		return
	}
	if err := h.sessions.LogoutAll(c.Request.Context(), ident.RA); err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondNoContent(c)
}
