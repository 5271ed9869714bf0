package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	domain "github.com/petcloud/petcloud-api/internal/domain/servico"
	"github.com/petcloud/petcloud-api/internal/httperr"
	"github.com/petcloud/petcloud-api/internal/httpresp"
	"github.com/petcloud/petcloud-api/internal/models"
	"github.com/petcloud/petcloud-api/internal/timezone"
)

type DashboardHandler struct {
	db *gorm.DB
}

func NewDashboardHandler(db *gorm.DB) *DashboardHandler {
	return &DashboardHandler{db: db}
}

// Stats resume o painel: total de pets, gasto do mês corrente,
// vacinações vencidas e agendamentos futuros.
func (h *DashboardHandler) Stats(c *gin.Context) {
	var totalPets int64
	if err := h.db.Model(&models.Pet{}).Count(&totalPets).Error; err != nil {
		httperr.Internal(c, "Erro ao carregar estatísticas")
		return
	}

	now := timezone.Now()
	monthStart, monthEnd := timezone.MonthRange(now)

	var gastoMes float64
	h.db.Model(&models.Servico{}).
		Where("data_agendada >= ? AND data_agendada < ?", monthStart, monthEnd).
		Select("COALESCE(SUM(preco), 0)").
		Scan(&gastoMes)

	overdue, err := h.overduePets(now)
	if err != nil {
		httperr.Internal(c, "Erro ao carregar estatísticas")
		return
	}

	var proximos int64
	h.db.Model(&models.Servico{}).
		Where("data_agendada >= ?", timezone.Today()).
		Count(&proximos)

	httpresp.OK(c, gin.H{
		"stats": gin.H{
			"total_pets":            totalPets,
			"gasto_mes":             gastoMes,
			"vacinas_vencidas":      len(overdue),
			"proximos_agendamentos": proximos,
		},
	})
}

// VacinasVencidas lista cada pet sem vacinação registrada ou cuja
// vacinação mais recente passou da janela de validade.
func (h *DashboardHandler) VacinasVencidas(c *gin.Context) {
	overdue, err := h.overduePets(timezone.Now())
	if err != nil {
		httperr.Internal(c, "Erro ao verificar vacinas")
		return
	}

	httpresp.OK(c, gin.H{"vacinas_vencidas": overdue})
}

func (h *DashboardHandler) ProximosAgendamentos(c *gin.Context) {
	var servicos []models.Servico
	err := h.db.Preload("Pet").Preload("Clinica").
		Where("data_agendada >= ?", timezone.Today()).
		Order("data_agendada asc").
		Find(&servicos).Error
	if err != nil {
		httperr.Internal(c, "Erro ao listar agendamentos")
		return
	}

	out := make([]map[string]any, 0, len(servicos))
	for i := range servicos {
		out = append(out, servicos[i].ToDict())
	}

	httpresp.OK(c, gin.H{"agendamentos": out})
}

// overduePets aplica a regra de vencimento pet a pet, lendo apenas
// os serviços de tipo 'vacinacao'.
func (h *DashboardHandler) overduePets(now time.Time) ([]map[string]any, error) {
	var pets []models.Pet
	if err := h.db.Order("id").Find(&pets).Error; err != nil {
		return nil, err
	}

	out := make([]map[string]any, 0)
	for i := range pets {
		pet := &pets[i]

		var latest models.Servico
		var last *time.Time
		err := h.db.Where("pet_id = ? AND tipo = ?", pet.ID, domain.TipoVacinacao).
			Order("data_agendada desc").
			First(&latest).Error
		if err == nil {
			last = &latest.DataAgendada
		}

		if !domain.IsVaccinationOverdue(last, now) {
			continue
		}

		entry := map[string]any{
			"pet_id":        pet.ID,
			"pet_name":      pet.Name,
			"dias_vencidos": domain.DaysOverdue(last, now),
		}
		if last != nil {
			entry["ultima_vacinacao"] = last.Format("2006-01-02")
		} else {
			entry["ultima_vacinacao"] = nil
		}
		out = append(out, entry)
	}

	return out, nil
}
