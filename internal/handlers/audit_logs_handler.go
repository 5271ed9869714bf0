package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/petcloud/petcloud-api/internal/httperr"
	"github.com/petcloud/petcloud-api/internal/httpresp"
	"github.com/petcloud/petcloud-api/internal/models"
)

type AuditLogsHandler struct {
	db *gorm.DB
}

func NewAuditLogsHandler(db *gorm.DB) *AuditLogsHandler {
	return &AuditLogsHandler{db: db}
}

// List devolve a trilha de auditoria, mais recente primeiro.
// Filtros opcionais: action, entity, user_id, limit (padrão 50).
func (h *AuditLogsHandler) List(c *gin.Context) {
	limit := 50
	if raw := c.Query("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 && v <= 500 {
			limit = v
		}
	}

	query := h.db.Order("id desc").Limit(limit)

	if action := c.Query("action"); action != "" {
		query = query.Where("action = ?", action)
	}
	if entity := c.Query("entity"); entity != "" {
		query = query.Where("entity = ?", entity)
	}
	if userID := c.Query("user_id"); userID != "" {
		query = query.Where("user_id = ?", userID)
	}

	var logs []models.AuditLog
	if err := query.Find(&logs).Error; err != nil {
		httperr.Internal(c, "Erro ao listar auditoria")
		return
	}

	out := make([]map[string]any, 0, len(logs))
	for i := range logs {
		out = append(out, logs[i].ToDict())
	}

	httpresp.OK(c, gin.H{"logs": out})
}
