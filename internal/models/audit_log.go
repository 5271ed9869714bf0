package models

import (
	"encoding/json"
	"time"
)

type AuditLog struct {
	ID uint `gorm:"primaryKey" json:"id"`

	UserID *uint  `json:"user_id"`
	Action string `gorm:"size:50;not null" json:"action"`

	Entity   string `gorm:"size:50" json:"entity"`
	EntityID *uint  `json:"entity_id"`
	Metadata string `gorm:"type:text" json:"metadata"`

	CreatedAt time.Time `json:"created_at"`
}

func (a *AuditLog) ToDict() map[string]any {
	d := map[string]any{
		"id":         a.ID,
		"user_id":    a.UserID,
		"action":     a.Action,
		"entity":     a.Entity,
		"entity_id":  a.EntityID,
		"created_at": a.CreatedAt.Format(time.RFC3339),
	}
	if a.Metadata != "" {
		var meta any
		if json.Unmarshal([]byte(a.Metadata), &meta) == nil {
			d["metadata"] = meta
		}
	}
	return d
}
