package models

import "time"

// Vaccine é o caminho legado de registro de vacinas, paralelo a
// Servico com tipo 'vacinacao'. Os dois convivem no banco original.
type Vaccine struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Type          string    `gorm:"size:100;not null" json:"type"` // ex: V8, Antirrábica
	ScheduledDate time.Time `gorm:"not null" json:"-"`
	Veterinarian  string    `gorm:"size:100" json:"veterinarian"`

	PetID uint `gorm:"not null;index" json:"pet_id"`
	Pet   *Pet `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
}

func (v *Vaccine) ToDict() map[string]any {
	return map[string]any{
		"id":             v.ID,
		"type":           v.Type,
		"scheduled_date": v.ScheduledDate.Format("2006-01-02"),
		"veterinarian":   v.Veterinarian,
		"pet_id":         v.PetID,
	}
}
