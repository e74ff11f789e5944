package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TaskStatus string

const (
	TaskTodo       TaskStatus = "todo"
	TaskInProgress TaskStatus = "in_progress"
	TaskDone       TaskStatus = "done"
)

type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
)

type Task struct {
	ID         string       `gorm:"primaryKey;size:36"`
	ProjectID  string       `gorm:"size:36;index;not null"`
	Project    *Project     `gorm:"foreignKey:ProjectID"`
	Title      string       `gorm:"size:200;not null"`
	Status     TaskStatus   `gorm:"size:20;index;not null"`
	Priority   TaskPriority `gorm:"size:10;not null"`
	AssigneeID *string      `gorm:"size:36;index"`
	DueDate    *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (t *Task) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}
