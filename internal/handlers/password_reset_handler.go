package handlers

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/petcloud/petcloud-api/internal/audit"
	"github.com/petcloud/petcloud-api/internal/config"
	"github.com/petcloud/petcloud-api/internal/httperr"
	"github.com/petcloud/petcloud-api/internal/httpresp"
	"github.com/petcloud/petcloud-api/internal/mail"
	"github.com/petcloud/petcloud-api/internal/models"
	"github.com/petcloud/petcloud-api/internal/timezone"
)

const resetTokenTTL = time.Hour

type PasswordResetHandler struct {
	db     *gorm.DB
	config *config.Config
	mailer mail.Sender
	audit  *audit.Dispatcher
}

func NewPasswordResetHandler(db *gorm.DB, cfg *config.Config, mailer mail.Sender, auditDispatcher *audit.Dispatcher) *PasswordResetHandler {
	return &PasswordResetHandler{db: db, config: cfg, mailer: mailer, audit: auditDispatcher}
}

type RequestResetRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type ResetPasswordRequest struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=3"`
}

// Request gera um token de uso único com validade de 1 hora.
// A resposta é sempre a mesma, exista o email ou não.
func (h *PasswordResetHandler) Request(c *gin.Context) {
	var req RequestResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "Email é obrigatório")
		return
	}

	genericMessage := "Se o email estiver cadastrado, você receberá as instruções de redefinição."

	email := strings.ToLower(strings.TrimSpace(req.Email))

	var user models.User
	if err := h.db.Where("email = ?", email).First(&user).Error; err != nil {
		httpresp.OK(c, gin.H{"message": genericMessage})
		return
	}

	token, err := newResetToken()
	if err != nil {
		httperr.Internal(c, "Erro ao gerar token de redefinição")
		return
	}

	// tokens anteriores do mesmo usuário deixam de valer
	h.db.Where("user_id = ?", user.ID).Delete(&models.PasswordReset{})

	reset := models.PasswordReset{
		UserID:    user.ID,
		Token:     token,
		ExpiresAt: timezone.Now().Add(resetTokenTTL),
	}
	if err := h.db.Create(&reset).Error; err != nil {
		httperr.Internal(c, "Erro ao gerar token de redefinição")
		return
	}

	resetURL := fmt.Sprintf("%s/resetar-senha/%s", strings.TrimRight(h.config.BaseURL, "/"), token)

	h.audit.Dispatch(audit.Event{
		UserID:   &user.ID,
		Action:   "password_reset_requested",
		Entity:   "user",
		EntityID: &user.ID,
	})

	if !h.mailer.IsConfigured() {
		// fallback de desenvolvimento: sem SMTP, o link volta na resposta
		httpresp.OK(c, gin.H{
			"message":   genericMessage,
			"reset_url": resetURL,
		})
		return
	}

	body := fmt.Sprintf(
		"Olá, %s!\r\n\r\n"+
			"Recebemos um pedido para redefinir a sua senha no PetCloud.\r\n"+
			"Acesse o link abaixo para escolher uma nova senha (válido por 1 hora):\r\n\r\n"+
			"%s\r\n\r\n"+
			"Se você não fez esse pedido, ignore este email.\r\n",
		user.Name, resetURL,
	)

	if err := h.mailer.Send(c.Request.Context(), user.Email, "PetCloud - Redefinição de senha", body); err != nil {
		log.Println("erro ao enviar email de redefinição:", err)
	}

	httpresp.OK(c, gin.H{"message": genericMessage})
}

// Reset consome o token: ele é apagado tanto no sucesso quanto
// quando está expirado.
func (h *PasswordResetHandler) Reset(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "Token e nova senha são obrigatórios")
		return
	}

	var reset models.PasswordReset
	if err := h.db.Where("token = ?", req.Token).First(&reset).Error; err != nil {
		httperr.BadRequest(c, "Token inválido ou expirado.")
		return
	}

	h.db.Delete(&reset)

	if reset.Expired(timezone.Now()) {
		httperr.BadRequest(c, "Token inválido ou expirado.")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		httperr.Internal(c, "Erro ao redefinir senha")
		return
	}

	if err := h.db.Model(&models.User{}).Where("id = ?", reset.UserID).
		Update("password", string(hashed)).Error; err != nil {
		httperr.Internal(c, "Erro ao redefinir senha")
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:   &reset.UserID,
		Action:   "password_reset",
		Entity:   "user",
		EntityID: &reset.UserID,
	})

	httpresp.OK(c, gin.H{"message": "Senha redefinida com sucesso!"})
}

func newResetToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
