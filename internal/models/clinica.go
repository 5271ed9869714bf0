package models

type Clinica struct {
	ID           uint    `gorm:"primaryKey" json:"id"`
	Nome         string  `gorm:"size:100;not null" json:"nome"`
	TipoServico  string  `gorm:"size:50;not null" json:"tipo_servico"` // 'banho', 'vacinacao', 'consulta'
	PrecoServico float64 `json:"preco_servico"`
	Veterinario  string  `gorm:"size:100" json:"veterinario"`

	Servicos []Servico `gorm:"foreignKey:ClinicaID" json:"-"`
}

func (cl *Clinica) ToDict() map[string]any {
	return map[string]any{
		"id":            cl.ID,
		"nome":          cl.Nome,
		"tipo_servico":  cl.TipoServico,
		"preco_servico": cl.PrecoServico,
		"veterinario":   cl.Veterinario,
	}
}
