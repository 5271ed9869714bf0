package handlers

import (
	"crypto/rand"
	"encoding/hex"

	"github.com/gin-gonic/gin"

	"github.com/petcloud/petcloud-api/internal/httperr"
	"github.com/petcloud/petcloud-api/internal/httpresp"
	"github.com/petcloud/petcloud-api/internal/mail"
)

// OAuthHandler expõe o fluxo de autorização do Google que habilita o
// envio de e-mail. Sem credenciais configuradas, as rotas respondem
// que o recurso está desabilitado.
type OAuthHandler struct {
	oauth  *mail.OAuthService
	mailer mail.Sender
}

func NewOAuthHandler(oauth *mail.OAuthService, mailer mail.Sender) *OAuthHandler {
	return &OAuthHandler{oauth: oauth, mailer: mailer}
}

func (h *OAuthHandler) Authorize(c *gin.Context) {
	if h.oauth == nil {
		httperr.Write(c, 503, "Integração com o Google não está configurada.")
		return
	}

	state := randomState()
	httpresp.OK(c, gin.H{
		"authorization_url": h.oauth.AuthorizationURL(state),
		"state":             state,
	})
}

func (h *OAuthHandler) Callback(c *gin.Context) {
	if h.oauth == nil {
		httperr.Write(c, 503, "Integração com o Google não está configurada.")
		return
	}

	code := c.Query("code")
	if code == "" {
		httperr.BadRequest(c, "Parâmetro 'code' é obrigatório")
		return
	}

	if err := h.oauth.ExchangeCode(c.Request.Context(), code); err != nil {
		httperr.BadRequest(c, "Não foi possível concluir a autorização com o Google.")
		return
	}

	httpresp.OK(c, gin.H{"message": "Autorização concluída. O envio de email está habilitado."})
}

func (h *OAuthHandler) Status(c *gin.Context) {
	authenticated := h.oauth != nil && h.oauth.IsAuthenticated(c.Request.Context())

	httpresp.OK(c, gin.H{
		"is_authenticated": authenticated,
		"mail_configured":  h.mailer.IsConfigured(),
	})
}

func randomState() string {
	buf := make([]byte, 16)
	_, _ = rand.Read(buf)
	return hex.EncodeToString(buf)
}
