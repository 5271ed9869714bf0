package handlers

import (
	"io"
	"log"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/petcloud/petcloud-api/internal/audit"
	"github.com/petcloud/petcloud-api/internal/config"
	"github.com/petcloud/petcloud-api/internal/httperr"
	"github.com/petcloud/petcloud-api/internal/httpresp"
	"github.com/petcloud/petcloud-api/internal/middleware"
	"github.com/petcloud/petcloud-api/internal/models"
	"github.com/petcloud/petcloud-api/internal/storage"
)

// ======================================================
// CONCURSO DE FOTOS
// ======================================================

type ConcursoHandler struct {
	db     *gorm.DB
	config *config.Config
	store  storage.Store
	audit  *audit.Dispatcher
}

func NewConcursoHandler(db *gorm.DB, cfg *config.Config, store storage.Store, auditDispatcher *audit.Dispatcher) *ConcursoHandler {
	return &ConcursoHandler{db: db, config: cfg, store: store, audit: auditDispatcher}
}

// Enviar inscreve a foto de um pet. Multipart: imagem, pet_id,
// user_email, descricao. Cada pet participa com uma única foto.
func (h *ConcursoHandler) Enviar(c *gin.Context) {
	file, header, err := c.Request.FormFile("imagem")
	if err != nil {
		httperr.BadRequest(c, "Arquivo de imagem é obrigatório (campo 'imagem').")
		return
	}
	defer file.Close()

	petIDRaw := c.PostForm("pet_id")
	userEmail := strings.ToLower(strings.TrimSpace(c.PostForm("user_email")))
	descricao := c.PostForm("descricao")

	if petIDRaw == "" || userEmail == "" {
		httperr.BadRequest(c, "pet_id e user_email são obrigatórios.")
		return
	}

	petID, err := strconv.Atoi(petIDRaw)
	if err != nil {
		httperr.BadRequest(c, "pet_id inválido")
		return
	}

	if !storage.AllowedExt(header.Filename) {
		httperr.BadRequest(c, "Formato de imagem não suportado. Use png, jpg, jpeg, gif ou webp.")
		return
	}

	var pet models.Pet
	if err := h.db.First(&pet, petID).Error; err != nil {
		httperr.NotFound(c, "Pet não encontrado.")
		return
	}

	var user models.User
	if err := h.db.Where("email = ?", userEmail).First(&user).Error; err != nil {
		httperr.NotFound(c, "Usuário não encontrado.")
		return
	}

	var count int64
	h.db.Model(&models.Concurso{}).Where("pet_id = ?", pet.ID).Count(&count)
	if count > 0 {
		httperr.BadRequest(c, "Este pet já está participando do concurso.")
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, h.config.MaxUploadBytes()+1))
	if err != nil {
		httperr.Internal(c, "Erro ao ler arquivo")
		return
	}
	if int64(len(data)) > h.config.MaxUploadBytes() {
		httperr.BadRequest(c, "Arquivo muito grande. O limite é 16MB.")
		return
	}

	img, err := storage.DecodeImage(data)
	if err != nil {
		httperr.BadRequest(c, "O arquivo enviado não é uma imagem válida.")
		return
	}

	filename := storage.NewFilename(header.Filename)
	url, err := h.store.Save(c.Request.Context(), "concurso", filename, data)
	if err != nil {
		log.Println("erro ao salvar imagem do concurso:", err)
		httperr.Internal(c, "Erro ao salvar imagem")
		return
	}

	// miniatura é conforto, não requisito: falha só gera log
	if thumb, err := storage.Thumbnail(img); err == nil {
		if _, err := h.store.Save(c.Request.Context(), "concurso", storage.ThumbnailName(filename), thumb); err != nil {
			log.Println("erro ao salvar miniatura:", err)
		}
	} else {
		log.Println("erro ao gerar miniatura:", err)
	}

	concurso := models.Concurso{
		PetID:     pet.ID,
		UserID:    user.ID,
		ImagemURL: url,
		Descricao: descricao,
	}

	if err := h.db.Create(&concurso).Error; err != nil {
		// corrida entre dois envios do mesmo pet: a unique constraint decide
		_ = h.store.Remove(c.Request.Context(), url)
		httperr.BadRequest(c, "Este pet já está participando do concurso.")
		return
	}
	concurso.Pet = &pet
	concurso.User = &user

	h.audit.Dispatch(audit.Event{
		UserID:   &user.ID,
		Action:   "concurso_entered",
		Entity:   "concurso",
		EntityID: &concurso.ID,
		Metadata: map[string]any{"pet_id": pet.ID},
	})

	httpresp.Created(c, gin.H{
		"message": "Foto enviada com sucesso!",
		"foto":    concurso.ToDict(),
	})
}

// Fotos lista as inscrições, mais votadas primeiro.
func (h *ConcursoHandler) Fotos(c *gin.Context) {
	var entries []models.Concurso
	err := h.db.Preload("Pet").Preload("User").
		Order("votos desc, id asc").
		Find(&entries).Error
	if err != nil {
		httperr.Internal(c, "Erro ao listar fotos")
		return
	}

	out := make([]map[string]any, 0, len(entries))
	for i := range entries {
		out = append(out, entries[i].ToDict())
	}

	httpresp.OK(c, gin.H{"fotos": out})
}

// Votar incrementa o contador direto no banco, de forma atômica.
func (h *ConcursoHandler) Votar(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		httperr.BadRequest(c, "ID inválido")
		return
	}

	result := h.db.Model(&models.Concurso{}).
		Where("id = ?", id).
		UpdateColumn("votos", gorm.Expr("votos + 1"))
	if result.Error != nil {
		httperr.Internal(c, "Erro ao registrar voto")
		return
	}
	if result.RowsAffected == 0 {
		httperr.NotFound(c, "Foto não encontrada.")
		return
	}

	var concurso models.Concurso
	h.db.First(&concurso, id)

	httpresp.OK(c, gin.H{
		"message": "Voto registrado!",
		"votos":   concurso.Votos,
	})
}

// Deletar remove a inscrição e o arquivo. Só o dono (por token ou
// por user_email) pode remover.
func (h *ConcursoHandler) Deletar(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		httperr.BadRequest(c, "ID inválido")
		return
	}

	var concurso models.Concurso
	if err := h.db.Preload("User").First(&concurso, id).Error; err != nil {
		httperr.NotFound(c, "Foto não encontrada.")
		return
	}

	if !h.isOwner(c, &concurso) {
		httperr.Write(c, 403, "Você não pode remover a foto de outro usuário.")
		return
	}

	if err := h.db.Delete(&concurso).Error; err != nil {
		httperr.Internal(c, "Erro ao remover foto")
		return
	}

	if concurso.ImagemURL != "" {
		if err := h.store.Remove(c.Request.Context(), concurso.ImagemURL); err != nil {
			log.Println("erro ao remover arquivo do concurso:", err)
		}
		thumbURL := storage.ThumbnailName(concurso.ImagemURL)
		if err := h.store.Remove(c.Request.Context(), thumbURL); err != nil {
			log.Println("erro ao remover miniatura do concurso:", err)
		}
	}

	h.audit.Dispatch(audit.Event{
		UserID:   &concurso.UserID,
		Action:   "concurso_removed",
		Entity:   "concurso",
		EntityID: &concurso.ID,
	})

	httpresp.OK(c, gin.H{"message": "Foto removida do concurso."})
}

func (h *ConcursoHandler) isOwner(c *gin.Context, concurso *models.Concurso) bool {
	if userID, ok := middleware.CurrentUserID(c); ok {
		return userID == concurso.UserID
	}

	email := strings.ToLower(strings.TrimSpace(c.Query("user_email")))
	if email == "" {
		return false
	}
	return concurso.User != nil && strings.EqualFold(concurso.User.Email, email)
}
