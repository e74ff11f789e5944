package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type LeadStage string

const (
	LeadNew       LeadStage = "new"
	LeadContacted LeadStage = "contacted"
	LeadQualified LeadStage = "qualified"
	LeadWon       LeadStage = "won"
	LeadLost      LeadStage = "lost"
)

type Lead struct {
	ID        string    `gorm:"primaryKey;size:36"`
	Name      string    `gorm:"size:150;not null"`
	Company   string    `gorm:"size:150"`
	Email     string    `gorm:"size:100"`
	Stage     LeadStage `gorm:"size:20;index;not null"`
	Value     float64   `gorm:"default:0"` // estimated deal value
	OwnerID   string    `gorm:"size:36;index"`
	Notes     string    `gorm:"size:500"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (l *Lead) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	return nil
}
