package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SubscriptionStatus string

const (
	SubscriptionActive    SubscriptionStatus = "active"
	SubscriptionCancelled SubscriptionStatus = "cancelled"
)

type Subscription struct {
	ID          string             `gorm:"primaryKey;size:36"`
	Name        string             `gorm:"size:150;not null"`
	Vendor      string             `gorm:"size:150"`
	MonthlyCost float64            `gorm:"not null"`
	RenewsOn    *time.Time         `gorm:"index"`
	Status      SubscriptionStatus `gorm:"size:20;index;not null"`
	OwnerID     string             `gorm:"size:36;index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (s *Subscription) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}
