package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	domain "github.com/petcloud/petcloud-api/internal/domain/servico"
	"github.com/petcloud/petcloud-api/internal/httperr"
	"github.com/petcloud/petcloud-api/internal/httpresp"
	"github.com/petcloud/petcloud-api/internal/middleware"
	usecase "github.com/petcloud/petcloud-api/internal/usecase/servico"
)

// ======================================================
// HANDLER
// ======================================================

type ServicoHandler struct {
	repo       domain.Repository
	create     *usecase.CreateServico
	reschedule *usecase.RescheduleServico
	delete     *usecase.DeleteServico
}

func NewServicoHandler(
	repo domain.Repository,
	create *usecase.CreateServico,
	reschedule *usecase.RescheduleServico,
	deleteUC *usecase.DeleteServico,
) *ServicoHandler {
	return &ServicoHandler{
		repo:       repo,
		create:     create,
		reschedule: reschedule,
		delete:     deleteUC,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateServicoRequest struct {
	PetID     uint   `json:"pet_id" binding:"required"`
	ClinicaID uint   `json:"clinica_id" binding:"required"`
	Tipo      string `json:"tipo"`
	Data      string `json:"data_agendada" binding:"required"`
}

type RescheduleServicoRequest struct {
	Data      string `json:"data_agendada"`
	ClinicaID *uint  `json:"clinica_id"`
}

// ======================================================
// ENDPOINTS
// ======================================================

func (h *ServicoHandler) Create(c *gin.Context) {
	var req CreateServicoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "pet_id, clinica_id e data_agendada são obrigatórios")
		return
	}

	userID := optionalUserID(c)

	s, err := h.create.Execute(c.Request.Context(), usecase.CreateServicoInput{
		PetID:     req.PetID,
		ClinicaID: req.ClinicaID,
		Tipo:      req.Tipo,
		Data:      req.Data,
		UserID:    userID,
	})
	if err != nil {
		writeBusinessError(c, err)
		return
	}

	httpresp.Created(c, gin.H{
		"message": "Serviço agendado com sucesso!",
		"servico": s.ToDict(),
	})
}

func (h *ServicoHandler) List(c *gin.Context) {
	var petID *uint
	if raw := c.Query("pet_id"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil {
			httperr.BadRequest(c, "pet_id inválido")
			return
		}
		v := uint(id)
		petID = &v
	}

	servicos, err := h.repo.ListServicos(c.Request.Context(), petID, c.Query("tipo"))
	if err != nil {
		httperr.Internal(c, "Erro ao listar serviços")
		return
	}

	out := make([]map[string]any, 0, len(servicos))
	for i := range servicos {
		out = append(out, servicos[i].ToDict())
	}

	httpresp.OK(c, gin.H{"servicos": out})
}

func (h *ServicoHandler) Get(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		httperr.BadRequest(c, "ID inválido")
		return
	}

	s, err := h.repo.GetServico(c.Request.Context(), uint(id))
	if err != nil {
		httperr.NotFound(c, "Serviço não encontrado.")
		return
	}

	httpresp.OK(c, gin.H{"servico": s.ToDict()})
}

func (h *ServicoHandler) Update(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		httperr.BadRequest(c, "ID inválido")
		return
	}

	var req RescheduleServicoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "Dados inválidos")
		return
	}

	s, err := h.reschedule.Execute(c.Request.Context(), usecase.RescheduleServicoInput{
		ServicoID: uint(id),
		Data:      req.Data,
		ClinicaID: req.ClinicaID,
		UserID:    optionalUserID(c),
	})
	if err != nil {
		writeBusinessError(c, err)
		return
	}

	httpresp.OK(c, gin.H{
		"message": "Serviço remarcado com sucesso!",
		"servico": s.ToDict(),
	})
}

func (h *ServicoHandler) Delete(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		httperr.BadRequest(c, "ID inválido")
		return
	}

	if err := h.delete.Execute(c.Request.Context(), uint(id), optionalUserID(c)); err != nil {
		writeBusinessError(c, err)
		return
	}

	httpresp.OK(c, gin.H{"message": "Serviço cancelado com sucesso!"})
}

// ======================================================
// HELPERS
// ======================================================

// writeBusinessError traduz erros dos use cases em status HTTP.
// Código *_not_found vira 404, o resto da regra de negócio vira 400
// e qualquer outro erro vira 500 genérico.
func writeBusinessError(c *gin.Context, err error) {
	var be httperr.BusinessError
	if errors.As(err, &be) {
		status := http.StatusBadRequest
		switch be.Code {
		case "pet_not_found", "clinica_not_found", "servico_not_found":
			status = http.StatusNotFound
		}
		httperr.Write(c, status, be.Message)
		return
	}

	log.Println("erro inesperado:", err)
	httperr.Internal(c, "Erro interno")
}

func optionalUserID(c *gin.Context) *uint {
	if id, ok := middleware.CurrentUserID(c); ok {
		return &id
	}
	return nil
}
