package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	domain "github.com/petcloud/petcloud-api/internal/domain/servico"
	"github.com/petcloud/petcloud-api/internal/httperr"
	"github.com/petcloud/petcloud-api/internal/httpresp"
	"github.com/petcloud/petcloud-api/internal/models"
)

type ClinicaHandler struct {
	db *gorm.DB
}

func NewClinicaHandler(db *gorm.DB) *ClinicaHandler {
	return &ClinicaHandler{db: db}
}

type CreateClinicaRequest struct {
	Nome         string  `json:"nome" binding:"required"`
	TipoServico  string  `json:"tipo_servico" binding:"required"`
	PrecoServico float64 `json:"preco_servico"`
	Veterinario  string  `json:"veterinario"`
}

func (h *ClinicaHandler) List(c *gin.Context) {
	query := h.db.Order("nome")

	if tipo := c.Query("tipo_servico"); tipo != "" {
		query = query.Where("tipo_servico = ?", tipo)
	}

	var clinicas []models.Clinica
	if err := query.Find(&clinicas).Error; err != nil {
		httperr.Internal(c, "Erro ao listar clínicas")
		return
	}

	out := make([]map[string]any, 0, len(clinicas))
	for i := range clinicas {
		out = append(out, clinicas[i].ToDict())
	}

	httpresp.OK(c, gin.H{"clinicas": out})
}

func (h *ClinicaHandler) Create(c *gin.Context) {
	var req CreateClinicaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "Nome e tipo de serviço são obrigatórios")
		return
	}

	if !domain.IsValidTipo(req.TipoServico) {
		httperr.BadRequest(c, "Tipo de serviço inválido.")
		return
	}

	clinica := models.Clinica{
		Nome:         req.Nome,
		TipoServico:  req.TipoServico,
		PrecoServico: req.PrecoServico,
		Veterinario:  req.Veterinario,
	}

	if err := h.db.Create(&clinica).Error; err != nil {
		httperr.Internal(c, "Erro ao cadastrar clínica")
		return
	}

	httpresp.Created(c, gin.H{
		"message": "Clínica cadastrada com sucesso!",
		"clinica": clinica.ToDict(),
	})
}
