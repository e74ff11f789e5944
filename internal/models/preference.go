package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Preference holds per-user UI flags (theme, collapsed sidebar, desktop
// notifications). Plain key/value, no business logic attached.
type Preference struct {
	ID        string `gorm:"primaryKey;size:36"`
	UserID    string `gorm:"size:36;index:idx_pref_user_key,unique;not null"`
	Key       string `gorm:"size:50;index:idx_pref_user_key,unique;not null"`
	Value     string `gorm:"size:255"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (p *Preference) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}
