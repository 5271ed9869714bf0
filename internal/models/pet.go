package models

import (
	"encoding/json"
	"time"
)

type Pet struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name      string    `gorm:"size:100;not null" json:"name"`
	Breed     string    `gorm:"size:100;not null" json:"breed"`
	Type      string    `gorm:"size:50" json:"type"` // espécie, opcional
	BirthDate time.Time `gorm:"not null" json:"-"`

	OwnerID *uint `json:"owner_id"`
	Owner   *User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`

	PhotoURL string `gorm:"size:500" json:"photo_url"`

	// Listas serializadas como JSON em colunas de texto,
	// igual ao esquema original do banco
	BehaviorTags    string `gorm:"type:text;default:'[]'" json:"-"`
	HealthRecords   string `gorm:"type:text;default:'[]'" json:"-"`
	FeedingSchedule string `gorm:"type:text;default:'[]'" json:"-"`

	Servicos []Servico `gorm:"constraint:OnDelete:CASCADE;" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p *Pet) GetBehaviorTags() []string {
	var tags []string
	if p.BehaviorTags != "" {
		_ = json.Unmarshal([]byte(p.BehaviorTags), &tags)
	}
	if tags == nil {
		tags = []string{}
	}
	return tags
}

func (p *Pet) SetBehaviorTags(tags []string) {
	if tags == nil {
		tags = []string{}
	}
	b, _ := json.Marshal(tags)
	p.BehaviorTags = string(b)
}

func (p *Pet) GetHealthRecords() []map[string]any {
	var records []map[string]any
	if p.HealthRecords != "" {
		_ = json.Unmarshal([]byte(p.HealthRecords), &records)
	}
	if records == nil {
		records = []map[string]any{}
	}
	return records
}

func (p *Pet) GetFeedingSchedule() []map[string]any {
	var schedule []map[string]any
	if p.FeedingSchedule != "" {
		_ = json.Unmarshal([]byte(p.FeedingSchedule), &schedule)
	}
	if schedule == nil {
		schedule = []map[string]any{}
	}
	return schedule
}

// Age decompõe a idade do pet em anos, meses e dias.
func (p *Pet) Age(now time.Time) map[string]int {
	years := now.Year() - p.BirthDate.Year()
	months := int(now.Month()) - int(p.BirthDate.Month())
	days := now.Day() - p.BirthDate.Day()

	if days < 0 {
		months--
		prevMonth := time.Date(now.Year(), now.Month(), 0, 0, 0, 0, 0, now.Location())
		days += prevMonth.Day()
	}
	if months < 0 {
		years--
		months += 12
	}
	if years < 0 {
		years, months, days = 0, 0, 0
	}

	return map[string]int{
		"years":  years,
		"months": months,
		"days":   days,
	}
}

func (p *Pet) ToDict() map[string]any {
	d := map[string]any{
		"id":         p.ID,
		"name":       p.Name,
		"type":       p.Type,
		"breed":      p.Breed,
		"birth_date": p.BirthDate.Format("2006-01-02"),
		"owner_id":   p.OwnerID,
		"photo_url":  p.PhotoURL,
	}
	if p.Owner != nil {
		d["owner"] = map[string]any{"id": p.Owner.ID, "name": p.Owner.Name}
	}
	return d
}

// ToDetailDict inclui idade e as listas serializadas.
func (p *Pet) ToDetailDict(now time.Time) map[string]any {
	d := p.ToDict()
	d["age"] = p.Age(now)
	d["behavior_tags"] = p.GetBehaviorTags()
	d["health_records"] = p.GetHealthRecords()
	d["feeding_schedule"] = p.GetFeedingSchedule()
	d["created_at"] = p.CreatedAt.Format(time.RFC3339)
	d["updated_at"] = p.UpdatedAt.Format(time.RFC3339)
	return d
}
