package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	domain "github.com/petcloud/petcloud-api/internal/domain/servico"
	"github.com/petcloud/petcloud-api/internal/models"
)

type ServicoGormRepository struct {
	db *gorm.DB
}

func NewServicoGormRepository(db *gorm.DB) *ServicoGormRepository {
	return &ServicoGormRepository{db: db}
}

// --------------------------------------------------
// Pet / Clinica
// --------------------------------------------------

func (r *ServicoGormRepository) GetPet(
	ctx context.Context,
	id uint,
) (*models.Pet, error) {

	var pet models.Pet
	if err := r.db.WithContext(ctx).First(&pet, id).Error; err != nil {
		return nil, err
	}
	return &pet, nil
}

func (r *ServicoGormRepository) GetClinica(
	ctx context.Context,
	id uint,
) (*models.Clinica, error) {

	var clinica models.Clinica
	if err := r.db.WithContext(ctx).First(&clinica, id).Error; err != nil {
		return nil, err
	}
	return &clinica, nil
}

// --------------------------------------------------
// Servico
// --------------------------------------------------

func (r *ServicoGormRepository) CreateServico(
	ctx context.Context,
	s *models.Servico,
) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *ServicoGormRepository) DeletePastByTipo(
	ctx context.Context,
	petID uint,
	tipo string,
	before time.Time,
) (int64, error) {

	res := r.db.WithContext(ctx).
		Where(
			"pet_id = ? AND tipo = ? AND data_agendada < ?",
			petID, tipo, before,
		).
		Delete(&models.Servico{})

	return res.RowsAffected, res.Error
}

func (r *ServicoGormRepository) GetServico(
	ctx context.Context,
	id uint,
) (*models.Servico, error) {

	var s models.Servico
	if err := r.db.WithContext(ctx).
		Preload("Pet").
		Preload("Clinica").
		First(&s, id).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *ServicoGormRepository) FindByPetAndTipo(
	ctx context.Context,
	petID uint,
	tipo string,
) (*models.Servico, error) {

	var s models.Servico
	if err := r.db.WithContext(ctx).
		Preload("Clinica").
		Where("pet_id = ? AND tipo = ?", petID, tipo).
		Order("data_agendada DESC").
		First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *ServicoGormRepository) UpdateServico(
	ctx context.Context,
	s *models.Servico,
) error {
	return r.db.WithContext(ctx).Save(s).Error
}

func (r *ServicoGormRepository) DeleteServico(
	ctx context.Context,
	s *models.Servico,
) error {
	return r.db.WithContext(ctx).Delete(s).Error
}

func (r *ServicoGormRepository) ListServicos(
	ctx context.Context,
	petID *uint,
	tipo string,
) ([]models.Servico, error) {

	q := r.db.WithContext(ctx).
		Preload("Pet").
		Preload("Clinica")

	if petID != nil {
		q = q.Where("pet_id = ?", *petID)
	}
	if tipo != "" {
		q = q.Where("tipo = ?", tipo)
	}

	var servicos []models.Servico
	if err := q.
		Order("data_agendada ASC").
		Find(&servicos).Error; err != nil {
		return nil, err
	}

	return servicos, nil
}

// Compile-time check
var _ domain.Repository = (*ServicoGormRepository)(nil)
