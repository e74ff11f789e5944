package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TransactionType string

const (
	TransactionIncome  TransactionType = "income"
	TransactionExpense TransactionType = "expense"
)

type TransactionStatus string

const (
	TransactionCompleted TransactionStatus = "completed"
	TransactionPending   TransactionStatus = "pending"
)

// Transaction is append-only: no update endpoint exists, only create/delete.
type Transaction struct {
	ID          string            `gorm:"primaryKey;size:36"`
	Date        time.Time         `gorm:"index;not null"`
	Description string            `gorm:"size:255"`
	Amount      float64           `gorm:"not null"`
	Type        TransactionType   `gorm:"size:10;index;not null"`
	Category    string            `gorm:"size:100"`
	Status      TransactionStatus `gorm:"size:20;not null"`
	CreatedByID string            `gorm:"size:36;index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}
