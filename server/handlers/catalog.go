package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "github.com/vida-academica/backend/errors"
	"github.com/vida-academica/backend/server"
	"github.com/vida-academica/backend/store"
)

// CatalogHandler serves the shared lookup tables. Reads and writes both
// require authentication but the data is not RA-scoped.
type CatalogHandler struct {
	store *store.Store
}

// NewCatalogHandler creates the handler.
func NewCatalogHandler(s *store.Store) *CatalogHandler {
	return &CatalogHandler{store: s}
}

func (h *CatalogHandler) ListCursos(c *gin.Context) {
	out, err := h.store.ListCursos(c.Request.Context())
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondOK(c, out)
}

// ListDisciplinas answers GET /disciplinas, optionally filtered with
// ?curso=<id>&modulo=<n>.
func (h *CatalogHandler) ListDisciplinas(c *gin.Context) {
	cursoRaw := c.Query("curso")
	if cursoRaw == "" {
		out, err := h.store.ListDisciplinas(c.Request.Context())
		if err != nil {
			server.RespondWithError(c, err)
			return
		}
		server.RespondOK(c, out)
		return
	}

	cursoID, err := strconv.ParseUint(cursoRaw, 10, 32)
	if err != nil {
		server.RespondWithError(c, apperrors.Validation("curso must be a positive integer"))
		return
	}
	modulo := 0
	if moduloRaw := c.Query("modulo"); moduloRaw != "" {
		m, parseErr := strconv.Atoi(moduloRaw)
		if parseErr != nil || m < 1 {
			server.RespondWithError(c, apperrors.Validation("modulo must be a positive integer"))
			return
		}
		modulo = m
	}
	out, err := h.store.ListDisciplinasPorCurso(c.Request.Context(), uint(cursoID), modulo)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondOK(c, out)
}

type disciplinaRequest struct {
	Nome string `json:"nome" validate:"required,max=80"`
}

func (h *CatalogHandler) CreateDisciplina(c *gin.Context) {
	var req disciplinaRequest
	if err := bindAndValidate(c, &req); err != nil {
		server.RespondWithError(c, err)
		return
	}
	d := &store.Disciplina{Nome: req.Nome}
	if err := h.store.CreateDisciplina(c.Request.Context(), d); err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondCreated(c, d)
}

type cursoDisciplinaRequest struct {
	CursoID      uint `json:"id_curso" validate:"required"`
	DisciplinaID uint `json:"id_disciplina" validate:"required"`
	Modulo       int  `json:"modulo" validate:"required,gte=1"`
}

// LinkCursoDisciplina answers POST /curso-disciplina.
func (h *CatalogHandler) LinkCursoDisciplina(c *gin.Context) {
	var req cursoDisciplinaRequest
	if err := bindAndValidate(c, &req); err != nil {
		server.RespondWithError(c, err)
		return
	}
	link := &store.CursoDisciplina{
		CursoID:      req.CursoID,
		DisciplinaID: req.DisciplinaID,
		Modulo:       req.Modulo,
	}
	if err := h.store.LinkCursoDisciplina(c.Request.Context(), link); err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondCreated(c, link)
}

// UnlinkCursoDisciplina answers DELETE /curso-disciplina/:curso/:disciplina.
func (h *CatalogHandler) UnlinkCursoDisciplina(c *gin.Context) {
	cursoID, err := pathParam(c, "curso")
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	disciplinaID, err := pathParam(c, "disciplina")
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	if err := h.store.UnlinkCursoDisciplina(c.Request.Context(), cursoID, disciplinaID); err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondNoContent(c)
}

type docenteRequest struct {
	Nome  string `json:"nome" validate:"required,max=50"`
	Email string `json:"email" validate:"required,email,max=40"`
}

func (h *CatalogHandler) ListDocentes(c *gin.Context) {
	out, err := h.store.ListDocentes(c.Request.Context())
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondOK(c, out)
}

func (h *CatalogHandler) CreateDocente(c *gin.Context) {
	var req docenteRequest
	if err := bindAndValidate(c, &req); err != nil {
		server.RespondWithError(c, err)
		return
	}
	d := &store.Docente{Nome: req.Nome, Email: req.Email}
	if err := h.store.CreateDocente(c.Request.Context(), d); err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondCreated(c, d)
}

type discenteRequest struct {
	Nome       string  `json:"nome" validate:"required,max=50"`
	Email      string  `json:"email" validate:"required,email,max=40"`
	TelCelular *string `json:"tel_celular" validate:"omitempty,max=15"`
	CursoID    *uint   `json:"id_curso"`
}

func (h *CatalogHandler) ListDiscentes(c *gin.Context) {
	out, err := h.store.ListDiscentes(c.Request.Context())
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondOK(c, out)
}

func (h *CatalogHandler) CreateDiscente(c *gin.Context) {
	var req discenteRequest
	if err := bindAndValidate(c, &req); err != nil {
		server.RespondWithError(c, err)
		return
	}
	d := &store.Discente{
		Nome:       req.Nome,
		Email:      req.Email,
		TelCelular: req.TelCelular,
		CursoID:    req.CursoID,
	}
	if err := h.store.CreateDiscente(c.Request.Context(), d); err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondCreated(c, d)
}

func (h *CatalogHandler) ListTiposData(c *gin.Context) {
	out, err := h.store.ListTiposData(c.Request.Context())
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondOK(c, out)
}

type tipoDataRequest struct {
	Nome string `json:"nome" validate:"required,max=10"`
}

func (h *CatalogHandler) CreateTipoData(c *gin.Context) {
	var req tipoDataRequest
	if err := bindAndValidate(c, &req); err != nil {
		server.RespondWithError(c, err)
		return
	}
	t := &store.TipoData{Nome: req.Nome}
	if err := h.store.CreateTipoData(c.Request.Context(), t); err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondCreated(c, t)
}

// ListDisciplinaDocentes answers GET /disciplina-docente, optionally
// filtered with ?disciplina=<id>.
func (h *CatalogHandler) ListDisciplinaDocentes(c *gin.Context) {
	var disciplinaID uint
	if raw := c.Query("disciplina"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil || id == 0 {
			server.RespondWithError(c, apperrors.Validation("disciplina must be a positive integer"))
			return
		}
		disciplinaID = uint(id)
	}
	out, err := h.store.ListDisciplinaDocentes(c.Request.Context(), disciplinaID)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondOK(c, out)
}

// ListDocentesDaDisciplina answers GET /disciplinas/:id/docentes with the
// teachers assigned to the subject.
func (h *CatalogHandler) ListDocentesDaDisciplina(c *gin.Context) {
	disciplinaID, err := pathID(c)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	out, err := h.store.ListDocentesPorDisciplina(c.Request.Context(), disciplinaID)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondOK(c, out)
}

type disciplinaDocenteRequest struct {
	DisciplinaID uint `json:"id_disciplina" validate:"required"`
	DocenteID    uint `json:"id_docente" validate:"required"`
}

// LinkDisciplinaDocente answers POST /disciplina-docente.
func (h *CatalogHandler) LinkDisciplinaDocente(c *gin.Context) {
	var req disciplinaDocenteRequest
	if err := bindAndValidate(c, &req); err != nil {
		server.RespondWithError(c, err)
		return
	}
	link := &store.DisciplinaDocente{
		DisciplinaID: req.DisciplinaID,
		DocenteID:    req.DocenteID,
	}
	if err := h.store.LinkDisciplinaDocente(c.Request.Context(), link); err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondCreated(c, link)
}

// UnlinkDisciplinaDocente answers DELETE /disciplina-docente/:disciplina/:docente.
func (h *CatalogHandler) UnlinkDisciplinaDocente(c *gin.Context) {
	disciplinaID, err := pathParam(c, "disciplina")
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	docenteID, err := pathParam(c, "docente")
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	if err := h.store.UnlinkDisciplinaDocente(c.Request.Context(), disciplinaID, docenteID); err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondNoContent(c)
}
