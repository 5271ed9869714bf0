package handlers

import (
	"fmt"
	"log"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/petcloud/petcloud-api/internal/chatbot"
	"github.com/petcloud/petcloud-api/internal/httperr"
	"github.com/petcloud/petcloud-api/internal/httpresp"
	"github.com/petcloud/petcloud-api/internal/middleware"
	"github.com/petcloud/petcloud-api/internal/models"
	"github.com/petcloud/petcloud-api/internal/timezone"
	usecase "github.com/petcloud/petcloud-api/internal/usecase/servico"
)

// ======================================================
// CHATBOT DE AGENDAMENTO
// ======================================================

type ChatbotHandler struct {
	db         *gorm.DB
	llm        chatbot.Client
	create     *usecase.CreateServico
	reschedule *usecase.RescheduleServico
	delete     *usecase.DeleteServico
}

func NewChatbotHandler(
	db *gorm.DB,
	llm chatbot.Client,
	create *usecase.CreateServico,
	reschedule *usecase.RescheduleServico,
	deleteUC *usecase.DeleteServico,
) *ChatbotHandler {
	return &ChatbotHandler{
		db:         db,
		llm:        llm,
		create:     create,
		reschedule: reschedule,
		delete:     deleteUC,
	}
}

type ChatbotRequest struct {
	Message   string            `json:"message" binding:"required"`
	History   []chatbot.Message `json:"history"`
	UserEmail string            `json:"user_email"`
}

// Agendar conduz um turno da conversa: monta o contexto, consulta o
// modelo e, quando a resposta pede uma ação, executa os mesmos use
// cases da API de serviços.
func (h *ChatbotHandler) Agendar(c *gin.Context) {
	if h.llm == nil {
		httperr.Write(c, 503, "Assistente indisponível no momento.")
		return
	}

	var req ChatbotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "Campo 'message' é obrigatório")
		return
	}

	userID := h.resolveUser(c, req.UserEmail)
	pets, clinicas, servicos, err := h.loadContext(userID)
	if err != nil {
		httperr.Internal(c, "Erro ao carregar contexto")
		return
	}

	messages := make([]chatbot.Message, 0, len(req.History)+2)
	messages = append(messages, chatbot.Message{
		Role:    "system",
		Content: chatbot.BuildSystemPrompt(pets, clinicas, servicos),
	})
	messages = append(messages, req.History...)
	messages = append(messages, chatbot.Message{Role: "user", Content: req.Message})

	raw, err := h.llm.Complete(c.Request.Context(), messages)
	if err != nil {
		log.Println("erro na chamada ao modelo:", err)
		httperr.Internal(c, "Erro ao processar mensagem.")
		return
	}

	reply, err := chatbot.ParseReply(raw)
	if err != nil {
		// o modelo respondeu texto livre; a conversa segue
		httpresp.OK(c, gin.H{"resposta": chatbot.StripFences(raw)})
		return
	}

	if !reply.Sucesso {
		httpresp.OK(c, gin.H{"resposta": reply.Mensagem})
		return
	}

	h.executeAction(c, reply, pets, clinicas, userID)
}

func (h *ChatbotHandler) executeAction(
	c *gin.Context,
	reply *chatbot.Reply,
	pets []models.Pet,
	clinicas []models.Clinica,
	userID *uint,
) {
	pet := chatbot.FindPetByName(pets, reply.Pet)
	if pet == nil {
		httpresp.OK(c, gin.H{
			"resposta": fmt.Sprintf("Não encontrei nenhum pet chamado \"%s\". Pode confirmar o nome?", reply.Pet),
		})
		return
	}

	switch reply.Acao {
	case chatbot.AcaoAgendar:
		clinica := chatbot.FindClinicaByName(clinicas, reply.Clinica)
		if clinica == nil {
			httpresp.OK(c, gin.H{
				"resposta": fmt.Sprintf("Não encontrei a clínica \"%s\". Pode confirmar o nome?", reply.Clinica),
			})
			return
		}

		s, err := h.create.Execute(c.Request.Context(), usecase.CreateServicoInput{
			PetID:     pet.ID,
			ClinicaID: clinica.ID,
			Tipo:      reply.Tipo,
			Data:      reply.Data,
			UserID:    userID,
		})
		if err != nil {
			h.writeActionError(c, err)
			return
		}

		httpresp.OK(c, gin.H{
			"resposta": reply.Mensagem,
			"servico":  s.ToDict(),
		})

	case chatbot.AcaoRemarcar:
		existing, err := h.findServico(c, pet.ID, reply.Tipo)
		if err != nil {
			return
		}

		var clinicaID *uint
		if reply.Clinica != "" {
			clinica := chatbot.FindClinicaByName(clinicas, reply.Clinica)
			if clinica == nil {
				httpresp.OK(c, gin.H{
					"resposta": fmt.Sprintf("Não encontrei a clínica \"%s\". Pode confirmar o nome?", reply.Clinica),
				})
				return
			}
			clinicaID = &clinica.ID
		}

		s, err := h.reschedule.Execute(c.Request.Context(), usecase.RescheduleServicoInput{
			ServicoID: existing.ID,
			Data:      reply.Data,
			ClinicaID: clinicaID,
			UserID:    userID,
		})
		if err != nil {
			h.writeActionError(c, err)
			return
		}

		httpresp.OK(c, gin.H{
			"resposta": reply.Mensagem,
			"servico":  s.ToDict(),
		})

	case chatbot.AcaoCancelar:
		existing, err := h.findServico(c, pet.ID, reply.Tipo)
		if err != nil {
			return
		}

		if err := h.delete.Execute(c.Request.Context(), existing.ID, userID); err != nil {
			h.writeActionError(c, err)
			return
		}

		httpresp.OK(c, gin.H{"resposta": reply.Mensagem})

	default:
		httpresp.OK(c, gin.H{"resposta": reply.Mensagem})
	}
}

func (h *ChatbotHandler) findServico(c *gin.Context, petID uint, tipo string) (*models.Servico, error) {
	var s models.Servico
	query := h.db.Where("pet_id = ?", petID)
	if tipo != "" {
		query = query.Where("tipo = ?", tipo)
	}

	if err := query.Order("data_agendada desc").First(&s).Error; err != nil {
		httpresp.OK(c, gin.H{
			"resposta": "Não encontrei nenhum agendamento desse tipo para esse pet.",
		})
		return nil, err
	}
	return &s, nil
}

// writeActionError devolve erro de regra de negócio como conversa
// (a requisição HTTP deu certo, o pedido do tutor é que não pôde).
func (h *ChatbotHandler) writeActionError(c *gin.Context, err error) {
	if msg, ok := httperr.BusinessMessage(err); ok {
		httpresp.OK(c, gin.H{"resposta": msg})
		return
	}

	log.Println("erro inesperado no chatbot:", err)
	httperr.Internal(c, "Erro ao processar mensagem.")
}

// resolveUser identifica o tutor pelo token ou pelo user_email do corpo.
func (h *ChatbotHandler) resolveUser(c *gin.Context, userEmail string) *uint {
	if id, ok := middleware.CurrentUserID(c); ok {
		return &id
	}

	email := strings.ToLower(strings.TrimSpace(userEmail))
	if email == "" {
		return nil
	}

	var user models.User
	if err := h.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil
	}
	return &user.ID
}

// loadContext reúne pets, clínicas e agendamentos futuros. Com tutor
// identificado, só os pets dele entram no prompt.
func (h *ChatbotHandler) loadContext(userID *uint) ([]models.Pet, []models.Clinica, []models.Servico, error) {
	petQuery := h.db.Order("id")
	if userID != nil {
		petQuery = petQuery.Where("owner_id = ?", *userID)
	}

	var pets []models.Pet
	if err := petQuery.Find(&pets).Error; err != nil {
		return nil, nil, nil, err
	}

	var clinicas []models.Clinica
	if err := h.db.Order("nome").Find(&clinicas).Error; err != nil {
		return nil, nil, nil, err
	}

	petIDs := make([]uint, 0, len(pets))
	for i := range pets {
		petIDs = append(petIDs, pets[i].ID)
	}

	var servicos []models.Servico
	if len(petIDs) > 0 {
		err := h.db.Preload("Pet").
			Where("pet_id IN ? AND data_agendada >= ?", petIDs, timezone.Today()).
			Order("data_agendada asc").
			Find(&servicos).Error
		if err != nil {
			return nil, nil, nil, err
		}
	}

	return pets, clinicas, servicos, nil
}
