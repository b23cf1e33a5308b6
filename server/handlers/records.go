package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vida-academica/backend/auth"
	apperrors "github.com/vida-academica/backend/errors"
	"github.com/vida-academica/backend/server"
	"github.com/vida-academica/backend/store"
)

// RecordHandler serves the RA-owned record endpoints. Every create stamps the
// caller's RA; every read or mutation of an existing record checks ownership
// first and answers 403 on a foreign record.
type RecordHandler struct {
	store *store.Store
	guard *auth.Guard
}

// NewRecordHandler creates the handler.
func NewRecordHandler(s *store.Store, g *auth.Guard) *RecordHandler {
	return &RecordHandler{store: s, guard: g}
}

// owned verifies that ident owns a record carrying ownerRA.
func (h *RecordHandler) owned(ident *auth.Identity, ownerRA string) error {
	if !h.guard.CheckOwnership(ident, ownerRA) {
		return apperrors.Forbidden()
	}
	return nil
}

// --- Notas ---

type notaRequest struct {
	DisciplinaID uint     `json:"id_disciplina" validate:"required"`
	Bimestre     int      `json:"bimestre" validate:"required,gte=1,lte=4"`
	Nota         *float64 `json:"nota" validate:"omitempty,gte=0,lte=10"`
}

func (h *RecordHandler) ListNotas(c *gin.Context) {
	ident, err := callerIdentity(c)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	out, err := h.store.ListNotas(c.Request.Context(), ident.RA)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondOK(c, out)
}

func (h *RecordHandler) GetNota(c *gin.Context) {
	_, _, rec, err := h.loadNota(c)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondOK(c, rec)
}

func (h *RecordHandler) CreateNota(c *gin.Context) {
	ident, err := callerIdentity(c)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	var req notaRequest
	if err := bindAndValidate(c, &req); err != nil {
		server.RespondWithError(c, err)
		return
	}
	rec := &store.Nota{
		RA:           ident.RA,
		DisciplinaID: req.DisciplinaID,
		Bimestre:     req.Bimestre,
		Nota:         req.Nota,
	}
	if err := h.store.CreateNota(c.Request.Context(), rec); err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondCreated(c, rec)
}

func (h *RecordHandler) UpdateNota(c *gin.Context) {
	_, _, rec, err := h.loadNota(c)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	var req notaRequest
	if err := bindAndValidate(c, &req); err != nil {
		server.RespondWithError(c, err)
		return
	}
	rec.DisciplinaID = req.DisciplinaID
	rec.Bimestre = req.Bimestre
	rec.Nota = req.Nota
	if err := h.store.UpdateNota(c.Request.Context(), rec); err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondOK(c, rec)
}

func (h *RecordHandler) DeleteNota(c *gin.Context) {
	_, id, _, err := h.loadNota(c)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	if err := h.store.DeleteNota(c.Request.Context(), id); err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondNoContent(c)
}

// loadNota resolves the caller, the :id parameter and the record, enforcing
// ownership.
func (h *RecordHandler) loadNota(c *gin.Context) (*auth.Identity, uint, *store.Nota, error) {
	ident, err := callerIdentity(c)
	if err != nil {
		return nil, 0, nil, err
	}
	id, err := pathID(c)
	if err != nil {
		return nil, 0, nil, err
	}
	rec, err := h.store.GetNota(c.Request.Context(), id)
	if err != nil {
		return nil, 0, nil, err
	}
	if err := h.owned(ident, rec.RA); err != nil {
		return nil, 0, nil, err
	}
	return ident, id, rec, nil
}

// --- Horarios ---

type horarioRequest struct {
	DiaSemana     int   `json:"dia_semana" validate:"required,gte=1,lte=7"`
	Disciplina1ID *uint `json:"id_disciplina_1"`
	Disciplina2ID *uint `json:"id_disciplina_2"`
	Disciplina3ID *uint `json:"id_disciplina_3"`
	Disciplina4ID *uint `json:"id_disciplina_4"`
}

func (h *RecordHandler) ListHorarios(c *gin.Context) {
	ident, err := callerIdentity(c)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	out, err := h.store.ListHorarios(c.Request.Context(), ident.RA)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondOK(c, out)
}

func (h *RecordHandler) CreateHorario(c *gin.Context) {
	ident, err := callerIdentity(c)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	var req horarioRequest
	if err := bindAndValidate(c, &req); err != nil {
		server.RespondWithError(c, err)
		return
	}
	rec := &store.Horario{
		RA:            ident.RA,
		DiaSemana:     req.DiaSemana,
		Disciplina1ID: req.Disciplina1ID,
		Disciplina2ID: req.Disciplina2ID,
		Disciplina3ID: req.Disciplina3ID,
		Disciplina4ID: req.Disciplina4ID,
	}
	if err := h.store.CreateHorario(c.Request.Context(), rec); err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondCreated(c, rec)
}

func (h *RecordHandler) UpdateHorario(c *gin.Context) {
	_, _, rec, err := h.loadHorario(c)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	var req horarioRequest
	if err := bindAndValidate(c, &req); err != nil {
		server.RespondWithError(c, err)
		return
	}
	rec.DiaSemana = req.DiaSemana
	rec.Disciplina1ID = req.Disciplina1ID
	rec.Disciplina2ID = req.Disciplina2ID
	rec.Disciplina3ID = req.Disciplina3ID
	rec.Disciplina4ID = req.Disciplina4ID
	if err := h.store.UpdateHorario(c.Request.Context(), rec); err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondOK(c, rec)
}

func (h *RecordHandler) DeleteHorario(c *gin.Context) {
	_, id, _, err := h.loadHorario(c)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	if err := h.store.DeleteHorario(c.Request.Context(), id); err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondNoContent(c)
}

func (h *RecordHandler) loadHorario(c *gin.Context) (*auth.Identity, uint, *store.Horario, error) {
	ident, err := callerIdentity(c)
	if err != nil {
		return nil, 0, nil, err
	}
	id, err := pathID(c)
	if err != nil {
		return nil, 0, nil, err
	}
	rec, err := h.store.GetHorario(c.Request.Context(), id)
	if err != nil {
		return nil, 0, nil, err
	}
	if err := h.owned(ident, rec.RA); err != nil {
		return nil, 0, nil, err
	}
	return ident, id, rec, nil
}

// --- Calendario ---

type calendarioRequest struct {
	DataEvento string `json:"data_evento" validate:"required"`
	TipoDataID uint   `json:"id_tipo_data" validate:"required"`
}

func (h *RecordHandler) ListCalendario(c *gin.Context) {
	ident, err := callerIdentity(c)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	out, err := h.store.ListCalendario(c.Request.Context(), ident.RA)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondOK(c, out)
}

func (h *RecordHandler) CreateCalendario(c *gin.Context) {
	ident, err := callerIdentity(c)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	var req calendarioRequest
	if err := bindAndValidate(c, &req); err != nil {
		server.RespondWithError(c, err)
		return
	}
	when, err := time.Parse(dateLayout, req.DataEvento)
	if err != nil {
		server.RespondWithError(c, apperrors.Validation("data_evento: must be YYYY-MM-DD"))
		return
	}
	rec := &store.Calendario{
		RA:         ident.RA,
		DataEvento: when,
		TipoDataID: req.TipoDataID,
	}
	if err := h.store.CreateCalendario(c.Request.Context(), rec); err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondCreated(c, rec)
}

func (h *RecordHandler) UpdateCalendario(c *gin.Context) {
	_, _, rec, err := h.loadCalendario(c)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	var req calendarioRequest
	if err := bindAndValidate(c, &req); err != nil {
		server.RespondWithError(c, err)
		return
	}
	when, err := time.Parse(dateLayout, req.DataEvento)
	if err != nil {
		server.RespondWithError(c, apperrors.Validation("data_evento: must be YYYY-MM-DD"))
		return
	}
	rec.DataEvento = when
	rec.TipoDataID = req.TipoDataID
	if err := h.store.UpdateCalendario(c.Request.Context(), rec); err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondOK(c, rec)
}

func (h *RecordHandler) DeleteCalendario(c *gin.Context) {
	_, id, _, err := h.loadCalendario(c)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	if err := h.store.DeleteCalendario(c.Request.Context(), id); err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondNoContent(c)
}

func (h *RecordHandler) loadCalendario(c *gin.Context) (*auth.Identity, uint, *store.Calendario, error) {
	ident, err := callerIdentity(c)
	if err != nil {
		return nil, 0, nil, err
	}
	id, err := pathID(c)
	if err != nil {
		return nil, 0, nil, err
	}
	rec, err := h.store.GetCalendario(c.Request.Context(), id)
	if err != nil {
		return nil, 0, nil, err
	}
	if err := h.owned(ident, rec.RA); err != nil {
		return nil, 0, nil, err
	}
	return ident, id, rec, nil
}

// --- Anotacoes ---

type anotacaoRequest struct {
	Titulo   string `json:"titulo" validate:"required,max=50"`
	Anotacao string `json:"anotacao" validate:"required,max=255"`
}

func (h *RecordHandler) ListAnotacoes(c *gin.Context) {
	ident, err := callerIdentity(c)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	out, err := h.store.ListAnotacoes(c.Request.Context(), ident.RA)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondOK(c, out)
}

func (h *RecordHandler) GetAnotacao(c *gin.Context) {
	_, _, rec, err := h.loadAnotacao(c)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondOK(c, rec)
}

func (h *RecordHandler) CreateAnotacao(c *gin.Context) {
	ident, err := callerIdentity(c)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	var req anotacaoRequest
	if err := bindAndValidate(c, &req); err != nil {
		server.RespondWithError(c, err)
		return
	}
	rec := &store.Anotacao{
		RA:         ident.RA,
		Titulo:     req.Titulo,
		Anotacao:   req.Anotacao,
		DtAnotacao: time.Now().UTC(),
	}
	if err := h.store.CreateAnotacao(c.Request.Context(), rec); err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondCreated(c, rec)
}

func (h *RecordHandler) UpdateAnotacao(c *gin.Context) {
	_, _, rec, err := h.loadAnotacao(c)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	var req anotacaoRequest
	if err := bindAndValidate(c, &req); err != nil {
		server.RespondWithError(c, err)
		return
	}
	rec.Titulo = req.Titulo
	rec.Anotacao = req.Anotacao
	if err := h.store.UpdateAnotacao(c.Request.Context(), rec); err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondOK(c, rec)
}

func (h *RecordHandler) DeleteAnotacao(c *gin.Context) {
	_, id, _, err := h.loadAnotacao(c)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	if err := h.store.DeleteAnotacao(c.Request.Context(), id); err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondNoContent(c)
}

func (h *RecordHandler) loadAnotacao(c *gin.Context) (*auth.Identity, uint, *store.Anotacao, error) {
	ident, err := callerIdentity(c)
	if err != nil {
		return nil, 0, nil, err
	}
	id, err := pathID(c)
	if err != nil {
		return nil, 0, nil, err
	}
	rec, err := h.store.GetAnotacao(c.Request.Context(), id)
	if err != nil {
		return nil, 0, nil, err
	}
	if err := h.owned(ident, rec.RA); err != nil {
		return nil, 0, nil, err
	}
	return ident, id, rec, nil
}
