package servico

import (
	"context"
	"time"

	"github.com/petcloud/petcloud-api/internal/audit"
	domain "github.com/petcloud/petcloud-api/internal/domain/servico"
	"github.com/petcloud/petcloud-api/internal/httperr"
	"github.com/petcloud/petcloud-api/internal/models"
	"github.com/petcloud/petcloud-api/internal/timezone"
)

// ======================================================
// INPUT
// ======================================================

type CreateServicoInput struct {
	PetID     uint
	ClinicaID uint

	// Vazio → herda o tipo de serviço da clínica
	Tipo string

	Data string // YYYY-MM-DD

	UserID *uint
}

// ======================================================
// USE CASE
// ======================================================

type CreateServico struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewCreateServico(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *CreateServico {
	return &CreateServico{
		repo:  repo,
		audit: audit,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateServico) Execute(
	ctx context.Context,
	in CreateServicoInput,
) (*models.Servico, error) {

	// --------------------------------------------------
	// 1. Pet e clínica
	// --------------------------------------------------
	pet, err := uc.repo.GetPet(ctx, in.PetID)
	if err != nil {
		return nil, httperr.ErrBusiness("pet_not_found", "Pet não encontrado.")
	}

	clinica, err := uc.repo.GetClinica(ctx, in.ClinicaID)
	if err != nil {
		return nil, httperr.ErrBusiness("clinica_not_found", "Clínica não encontrada.")
	}

	// --------------------------------------------------
	// 2. Tipo do serviço
	// --------------------------------------------------
	tipo := in.Tipo
	if tipo == "" {
		tipo = clinica.TipoServico
	}
	if !domain.IsValidTipo(tipo) {
		return nil, httperr.ErrBusiness("invalid_tipo", "Tipo de serviço inválido.")
	}

	// --------------------------------------------------
	// 3. Data agendada
	// --------------------------------------------------
	data, err := time.ParseInLocation("2006-01-02", in.Data, timezone.Location())
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_date", "Data inválida. Use o formato YYYY-MM-DD.")
	}

	// --------------------------------------------------
	// 4. Supersede: serviços vencidos do mesmo tipo saem
	//    antes do novo entrar, para não acumular alertas
	// --------------------------------------------------
	if _, err := uc.repo.DeletePastByTipo(
		ctx,
		pet.ID,
		tipo,
		timezone.Today(),
	); err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 5. Criação, com preço e veterinário copiados da
	//    clínica no momento do agendamento
	// --------------------------------------------------
	clinicaID := clinica.ID
	s := &models.Servico{
		PetID:        pet.ID,
		ClinicaID:    &clinicaID,
		Tipo:         tipo,
		DataAgendada: data,
		Preco:        clinica.PrecoServico,
		Veterinario:  clinica.Veterinario,
	}

	if err := uc.repo.CreateServico(ctx, s); err != nil {
		return nil, err
	}
	s.Clinica = clinica
	s.Pet = pet

	// --------------------------------------------------
	// 6. Auditoria
	// --------------------------------------------------
	uc.audit.Dispatch(audit.Event{
		UserID:   in.UserID,
		Action:   "servico_created",
		Entity:   "servico",
		EntityID: &s.ID,
		Metadata: map[string]any{
			"pet_id": pet.ID,
			"tipo":   tipo,
			"data":   in.Data,
		},
	})

	return s, nil
}
