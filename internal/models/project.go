package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProjectStatus string

const (
	ProjectActive    ProjectStatus = "active"
	ProjectOnHold    ProjectStatus = "on_hold"
	ProjectCompleted ProjectStatus = "completed"
)

type Project struct {
	ID          string        `gorm:"primaryKey;size:36"`
	Name        string        `gorm:"size:150;not null"`
	ClientName  string        `gorm:"size:150"`
	Status      ProjectStatus `gorm:"size:20;index;not null"`
	Budget      float64       `gorm:"default:0"`
	StartDate   *time.Time
	DueDate     *time.Time
	Description string `gorm:"size:500"`
	OwnerID     string `gorm:"size:36;index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (p *Project) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}
