package servico

import (
	"context"

	"github.com/petcloud/petcloud-api/internal/audit"
	domain "github.com/petcloud/petcloud-api/internal/domain/servico"
	"github.com/petcloud/petcloud-api/internal/httperr"
)

type DeleteServico struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewDeleteServico(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *DeleteServico {
	return &DeleteServico{
		repo:  repo,
		audit: audit,
	}
}

func (uc *DeleteServico) Execute(
	ctx context.Context,
	servicoID uint,
	userID *uint,
) error {

	s, err := uc.repo.GetServico(ctx, servicoID)
	if err != nil {
		return httperr.ErrBusiness("servico_not_found", "Serviço não encontrado.")
	}

	if err := uc.repo.DeleteServico(ctx, s); err != nil {
		return err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   userID,
		Action:   "servico_deleted",
		Entity:   "servico",
		EntityID: &s.ID,
	})

	return nil
}
