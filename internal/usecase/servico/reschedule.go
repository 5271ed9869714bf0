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

type RescheduleServicoInput struct {
	ServicoID uint

	// Campos opcionais: só o que vier preenchido muda
	Data      string
	ClinicaID *uint

	UserID *uint
}

type RescheduleServico struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewRescheduleServico(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *RescheduleServico {
	return &RescheduleServico{
		repo:  repo,
		audit: audit,
	}
}

func (uc *RescheduleServico) Execute(
	ctx context.Context,
	in RescheduleServicoInput,
) (*models.Servico, error) {

	s, err := uc.repo.GetServico(ctx, in.ServicoID)
	if err != nil {
		return nil, httperr.ErrBusiness("servico_not_found", "Serviço não encontrado.")
	}

	if in.Data != "" {
		data, err := time.ParseInLocation("2006-01-02", in.Data, timezone.Location())
		if err != nil {
			return nil, httperr.ErrBusiness("invalid_date", "Data inválida. Use o formato YYYY-MM-DD.")
		}
		s.DataAgendada = data
	}

	// Trocar de clínica re-copia preço e veterinário
	if in.ClinicaID != nil {
		clinica, err := uc.repo.GetClinica(ctx, *in.ClinicaID)
		if err != nil {
			return nil, httperr.ErrBusiness("clinica_not_found", "Clínica não encontrada.")
		}
		clinicaID := clinica.ID
		s.ClinicaID = &clinicaID
		s.Preco = clinica.PrecoServico
		s.Veterinario = clinica.Veterinario
		s.Clinica = clinica
	}

	if err := uc.repo.UpdateServico(ctx, s); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   in.UserID,
		Action:   "servico_rescheduled",
		Entity:   "servico",
		EntityID: &s.ID,
		Metadata: map[string]any{
			"data": s.DataAgendada.Format("2006-01-02"),
		},
	})

	return s, nil
}
