package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/petcloud/petcloud-api/internal/httperr"
	"github.com/petcloud/petcloud-api/internal/httpresp"
	"github.com/petcloud/petcloud-api/internal/middleware"
	"github.com/petcloud/petcloud-api/internal/models"
)

type UsersHandler struct {
	db *gorm.DB
}

func NewUsersHandler(db *gorm.DB) *UsersHandler {
	return &UsersHandler{db: db}
}

// Lookup resolve um usuário pelo email (usado pelo frontend para
// descobrir o id antes de operações que pedem owner_id).
func (h *UsersHandler) Lookup(c *gin.Context) {
	email := strings.ToLower(strings.TrimSpace(c.Query("email")))
	if email == "" {
		httperr.BadRequest(c, "Parâmetro 'email' é obrigatório")
		return
	}

	var user models.User
	if err := h.db.Where("email = ?", email).First(&user).Error; err != nil {
		httperr.NotFound(c, "Usuário não encontrado.")
		return
	}

	httpresp.OK(c, gin.H{"user": user.ToDict()})
}

// Me devolve o usuário do token e seus pets. Exige AuthMiddleware.
func (h *UsersHandler) Me(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		httperr.Unauthorized(c, "Token de autenticação inválido ou ausente.")
		return
	}

	var user models.User
	if err := h.db.Preload("Pets").First(&user, userID).Error; err != nil {
		httperr.NotFound(c, "Usuário não encontrado.")
		return
	}

	pets := make([]map[string]any, 0, len(user.Pets))
	for i := range user.Pets {
		pets = append(pets, user.Pets[i].ToDict())
	}

	httpresp.OK(c, gin.H{
		"user": user.ToDict(),
		"pets": pets,
	})
}
