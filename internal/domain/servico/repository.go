package servico

import (
	"context"
	"time"

	"github.com/petcloud/petcloud-api/internal/models"
)

type Repository interface {
	// -------- Pet / Clinica --------
	GetPet(
		ctx context.Context,
		id uint,
	) (*models.Pet, error)

	GetClinica(
		ctx context.Context,
		id uint,
	) (*models.Clinica, error)

	// -------- Servico (create / supersede) --------
	CreateServico(
		ctx context.Context,
		s *models.Servico,
	) error

	// DeletePastByTipo remove serviços do mesmo tipo já vencidos
	// (data anterior a `before`), para não acumular alertas.
	DeletePastByTipo(
		ctx context.Context,
		petID uint,
		tipo string,
		before time.Time,
	) (int64, error)

	// -------- Servico (read / mutate) --------
	GetServico(
		ctx context.Context,
		id uint,
	) (*models.Servico, error)

	FindByPetAndTipo(
		ctx context.Context,
		petID uint,
		tipo string,
	) (*models.Servico, error)

	UpdateServico(
		ctx context.Context,
		s *models.Servico,
	) error

	DeleteServico(
		ctx context.Context,
		s *models.Servico,
	) error

	// -------- Listagens --------
	ListServicos(
		ctx context.Context,
		petID *uint,
		tipo string,
	) ([]models.Servico, error)
}
