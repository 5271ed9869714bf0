package handlers

import (
	"context"
	"io"
	"log"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/petcloud/petcloud-api/internal/audit"
	"github.com/petcloud/petcloud-api/internal/config"
	"github.com/petcloud/petcloud-api/internal/httperr"
	"github.com/petcloud/petcloud-api/internal/httpresp"
	"github.com/petcloud/petcloud-api/internal/models"
	"github.com/petcloud/petcloud-api/internal/storage"
	"github.com/petcloud/petcloud-api/internal/timezone"
)

type PetHandler struct {
	db     *gorm.DB
	config *config.Config
	store  storage.Store
	audit  *audit.Dispatcher
}

func NewPetHandler(db *gorm.DB, cfg *config.Config, store storage.Store, auditDispatcher *audit.Dispatcher) *PetHandler {
	return &PetHandler{db: db, config: cfg, store: store, audit: auditDispatcher}
}

// Chaves em português, iguais às do frontend original
type CreatePetRequest struct {
	Nome         string   `json:"nome"`
	Raca         string   `json:"raca"`
	BirthDate    string   `json:"birth_date"`
	Especie      string   `json:"especie"`
	OwnerID      *uint    `json:"owner_id"`
	BehaviorTags []string `json:"behavior_tags"`
}

type UpdatePetRequest struct {
	Nome         *string   `json:"nome"`
	Raca         *string   `json:"raca"`
	Especie      *string   `json:"especie"`
	BirthDate    *string   `json:"birth_date"`
	BehaviorTags *[]string `json:"behavior_tags"`
}

func (h *PetHandler) Create(c *gin.Context) {
	var req CreatePetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "Dados inválidos")
		return
	}

	if req.Nome == "" || req.Raca == "" || req.BirthDate == "" {
		httperr.BadRequest(c, "Nome, raça e data de nascimento são obrigatórios.")
		return
	}

	birth, err := time.ParseInLocation("2006-01-02", req.BirthDate, timezone.Location())
	if err != nil {
		httperr.BadRequest(c, "Data de nascimento inválida. Use o formato YYYY-MM-DD.")
		return
	}

	if req.OwnerID != nil {
		var count int64
		h.db.Model(&models.User{}).Where("id = ?", *req.OwnerID).Count(&count)
		if count == 0 {
			httperr.NotFound(c, "Usuário não encontrado.")
			return
		}
	}

	pet := models.Pet{
		Name:      req.Nome,
		Breed:     req.Raca,
		Type:      req.Especie,
		BirthDate: birth,
		OwnerID:   req.OwnerID,
	}
	pet.SetBehaviorTags(req.BehaviorTags)

	if err := h.db.Create(&pet).Error; err != nil {
		log.Println("erro ao criar pet:", err)
		httperr.Internal(c, "Erro ao cadastrar pet")
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:   req.OwnerID,
		Action:   "pet_created",
		Entity:   "pet",
		EntityID: &pet.ID,
	})

	httpresp.Created(c, gin.H{
		"message": "Pet cadastrado com sucesso!",
		"pet":     pet.ToDict(),
	})
}

func (h *PetHandler) List(c *gin.Context) {
	query := h.db.Preload("Owner")

	if ownerID := c.Query("owner_id"); ownerID != "" {
		query = query.Where("owner_id = ?", ownerID)
	}

	var pets []models.Pet
	if err := query.Order("id").Find(&pets).Error; err != nil {
		httperr.Internal(c, "Erro ao listar pets")
		return
	}

	out := make([]map[string]any, 0, len(pets))
	for i := range pets {
		out = append(out, pets[i].ToDict())
	}

	httpresp.OK(c, gin.H{"pets": out})
}

func (h *PetHandler) Get(c *gin.Context) {
	pet, ok := h.findPet(c)
	if !ok {
		return
	}

	httpresp.OK(c, gin.H{"pet": pet.ToDetailDict(timezone.Now())})
}

func (h *PetHandler) Update(c *gin.Context) {
	pet, ok := h.findPet(c)
	if !ok {
		return
	}

	var req UpdatePetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "Dados inválidos")
		return
	}

	if req.Nome != nil {
		pet.Name = *req.Nome
	}
	if req.Raca != nil {
		pet.Breed = *req.Raca
	}
	if req.Especie != nil {
		pet.Type = *req.Especie
	}
	if req.BirthDate != nil {
		birth, err := time.ParseInLocation("2006-01-02", *req.BirthDate, timezone.Location())
		if err != nil {
			httperr.BadRequest(c, "Data de nascimento inválida. Use o formato YYYY-MM-DD.")
			return
		}
		pet.BirthDate = birth
	}
	if req.BehaviorTags != nil {
		pet.SetBehaviorTags(*req.BehaviorTags)
	}

	if err := h.db.Omit("Owner").Save(pet).Error; err != nil {
		httperr.Internal(c, "Erro ao atualizar pet")
		return
	}

	httpresp.OK(c, gin.H{
		"message": "Pet atualizado com sucesso!",
		"pet":     pet.ToDict(),
	})
}

// Delete remove o pet e tudo que depende dele: serviços, vacinas,
// inscrição no concurso e os arquivos de foto armazenados.
func (h *PetHandler) Delete(c *gin.Context) {
	pet, ok := h.findPet(c)
	if !ok {
		return
	}

	var concurso models.Concurso
	hasConcurso := h.db.Where("pet_id = ?", pet.ID).First(&concurso).Error == nil

	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("pet_id = ?", pet.ID).Delete(&models.Servico{}).Error; err != nil {
			return err
		}
		if err := tx.Where("pet_id = ?", pet.ID).Delete(&models.Vaccine{}).Error; err != nil {
			return err
		}
		if err := tx.Where("pet_id = ?", pet.ID).Delete(&models.Concurso{}).Error; err != nil {
			return err
		}
		return tx.Delete(pet).Error
	})
	if err != nil {
		log.Println("erro ao excluir pet:", err)
		httperr.Internal(c, "Erro ao excluir pet")
		return
	}

	// arquivos são removidos depois do commit; falha aqui não desfaz nada
	ctx := context.Background()
	if pet.PhotoURL != "" {
		if err := h.store.Remove(ctx, pet.PhotoURL); err != nil {
			log.Println("erro ao remover foto do pet:", err)
		}
	}
	if hasConcurso && concurso.ImagemURL != "" {
		if err := h.store.Remove(ctx, concurso.ImagemURL); err != nil {
			log.Println("erro ao remover foto do concurso:", err)
		}
	}

	h.audit.Dispatch(audit.Event{
		UserID:   pet.OwnerID,
		Action:   "pet_deleted",
		Entity:   "pet",
		EntityID: &pet.ID,
	})

	httpresp.OK(c, gin.H{"message": "Pet excluído com sucesso!"})
}

func (h *PetHandler) UploadPhoto(c *gin.Context) {
	pet, ok := h.findPet(c)
	if !ok {
		return
	}

	file, header, err := c.Request.FormFile("foto")
	if err != nil {
		httperr.BadRequest(c, "Arquivo de foto é obrigatório (campo 'foto').")
		return
	}
	defer file.Close()

	if !storage.AllowedExt(header.Filename) {
		httperr.BadRequest(c, "Formato de imagem não suportado. Use png, jpg, jpeg, gif ou webp.")
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

	if _, err := storage.DecodeImage(data); err != nil {
		httperr.BadRequest(c, "O arquivo enviado não é uma imagem válida.")
		return
	}

	old := pet.PhotoURL

	filename := storage.NewFilename(header.Filename)
	url, err := h.store.Save(c.Request.Context(), "pets", filename, data)
	if err != nil {
		log.Println("erro ao salvar foto:", err)
		httperr.Internal(c, "Erro ao salvar foto")
		return
	}

	if err := h.db.Model(pet).Update("photo_url", url).Error; err != nil {
		httperr.Internal(c, "Erro ao salvar foto")
		return
	}

	if old != "" && old != url {
		if err := h.store.Remove(c.Request.Context(), old); err != nil {
			log.Println("erro ao remover foto antiga:", err)
		}
	}

	pet.PhotoURL = url
	httpresp.OK(c, gin.H{
		"message":   "Foto atualizada com sucesso!",
		"photo_url": url,
	})
}

func (h *PetHandler) findPet(c *gin.Context) (*models.Pet, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		httperr.BadRequest(c, "ID inválido")
		return nil, false
	}

	var pet models.Pet
	if err := h.db.Preload("Owner").First(&pet, id).Error; err != nil {
		httperr.NotFound(c, "Pet não encontrado.")
		return nil, false
	}
	return &pet, true
}
