package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/petcloud/petcloud-api/internal/httperr"
	"github.com/petcloud/petcloud-api/internal/httpresp"
	"github.com/petcloud/petcloud-api/internal/models"
	"github.com/petcloud/petcloud-api/internal/timezone"
)

// VaccineHandler atende o caminho legado de vacinas. O painel de
// vacinas vencidas não lê estes registros, apenas os serviços de
// tipo 'vacinacao'.
type VaccineHandler struct {
	db *gorm.DB
}

func NewVaccineHandler(db *gorm.DB) *VaccineHandler {
	return &VaccineHandler{db: db}
}

type CreateVaccineRequest struct {
	PetID         uint   `json:"pet_id" binding:"required"`
	Type          string `json:"type" binding:"required"`
	ScheduledDate string `json:"scheduled_date" binding:"required"`
	Veterinarian  string `json:"veterinarian"`
}

func (h *VaccineHandler) Create(c *gin.Context) {
	var req CreateVaccineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "pet_id, type e scheduled_date são obrigatórios")
		return
	}

	var count int64
	h.db.Model(&models.Pet{}).Where("id = ?", req.PetID).Count(&count)
	if count == 0 {
		httperr.NotFound(c, "Pet não encontrado.")
		return
	}

	date, err := time.ParseInLocation("2006-01-02", req.ScheduledDate, timezone.Location())
	if err != nil {
		httperr.BadRequest(c, "Data inválida. Use o formato YYYY-MM-DD.")
		return
	}

	vaccine := models.Vaccine{
		PetID:         req.PetID,
		Type:          req.Type,
		ScheduledDate: date,
		Veterinarian:  req.Veterinarian,
	}

	if err := h.db.Create(&vaccine).Error; err != nil {
		httperr.Internal(c, "Erro ao registrar vacina")
		return
	}

	httpresp.Created(c, gin.H{
		"message": "Vacina registrada com sucesso!",
		"vaccine": vaccine.ToDict(),
	})
}

func (h *VaccineHandler) List(c *gin.Context) {
	query := h.db.Order("scheduled_date desc")

	if petID := c.Query("pet_id"); petID != "" {
		query = query.Where("pet_id = ?", petID)
	}

	var vaccines []models.Vaccine
	if err := query.Find(&vaccines).Error; err != nil {
		httperr.Internal(c, "Erro ao listar vacinas")
		return
	}

	out := make([]map[string]any, 0, len(vaccines))
	for i := range vaccines {
		out = append(out, vaccines[i].ToDict())
	}

	httpresp.OK(c, gin.H{"vaccines": out})
}
