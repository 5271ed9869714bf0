package models

import "time"

type Servico struct {
	ID uint `gorm:"primaryKey" json:"id"`

	PetID uint `gorm:"not null;index" json:"pet_id"`
	Pet   *Pet `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	ClinicaID *uint    `json:"clinica_id"`
	Clinica   *Clinica `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`

	Tipo         string    `gorm:"size:50;not null;index" json:"tipo"` // 'banho', 'vacinacao', 'consulta'
	DataAgendada time.Time `gorm:"not null" json:"-"`

	// Cópia desnormalizada dos dados da clínica no momento do agendamento
	Preco       float64 `json:"preco"`
	Veterinario string  `gorm:"size:100" json:"veterinario"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s *Servico) ToDict() map[string]any {
	d := map[string]any{
		"id":            s.ID,
		"pet_id":        s.PetID,
		"clinica_id":    s.ClinicaID,
		"tipo":          s.Tipo,
		"data_agendada": s.DataAgendada.Format("2006-01-02"),
		"preco":         s.Preco,
		"veterinario":   s.Veterinario,
	}
	if s.Clinica != nil {
		d["clinica"] = s.Clinica.Nome
	}
	if s.Pet != nil {
		d["pet_name"] = s.Pet.Name
	}
	return d
}
