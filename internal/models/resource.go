package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ResourceKind string

const (
	ResourcePrompt  ResourceKind = "prompt"
	ResourceTool    ResourceKind = "tool"
	ResourceArticle ResourceKind = "article"
	ResourceModel   ResourceKind = "model"
)

// Resource is an entry in the shared AI resource library.
type Resource struct {
	ID          string       `gorm:"primaryKey;size:36"`
	Title       string       `gorm:"size:200;not null"`
	URL         string       `gorm:"size:500"`
	Kind        ResourceKind `gorm:"size:20;index;not null"`
	Tags        string       `gorm:"size:255"` // comma separated
	Description string       `gorm:"size:1000"`
	AddedByID   string       `gorm:"size:36;index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (r *Resource) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}
