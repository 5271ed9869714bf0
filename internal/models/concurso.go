package models

import "time"

type Concurso struct {
	ID uint `gorm:"primaryKey" json:"id"`

	// Um pet participa com no máximo uma foto
	PetID uint `gorm:"not null;uniqueIndex" json:"pet_id"`
	Pet   *Pet `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	UserID uint  `gorm:"not null" json:"user_id"`
	User   *User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	ImagemURL string `gorm:"size:500;not null" json:"imagem_url"`
	Descricao string `gorm:"type:text" json:"descricao"`
	Votos     int    `gorm:"default:0" json:"votos"`

	DataEnvio time.Time `gorm:"autoCreateTime" json:"data_envio"`
}

func (co *Concurso) ToDict() map[string]any {
	d := map[string]any{
		"id":         co.ID,
		"pet_id":     co.PetID,
		"user_id":    co.UserID,
		"imagem_url": co.ImagemURL,
		"descricao":  co.Descricao,
		"votos":      co.Votos,
		"data_envio": co.DataEnvio.Format(time.RFC3339),
	}
	if co.Pet != nil {
		d["pet_name"] = co.Pet.Name
	}
	if co.User != nil {
		d["user_name"] = co.User.Name
		d["user_email"] = co.User.Email
	}
	return d
}
