package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Post struct {
	ID        string `gorm:"primaryKey;size:36"`
	AuthorID  string `gorm:"size:36;index;not null"`
	Author    *User  `gorm:"foreignKey:AuthorID"`
	Body      string `gorm:"size:2000;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (p *Post) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

type Comment struct {
	ID        string `gorm:"primaryKey;size:36"`
	PostID    string `gorm:"size:36;index;not null"`
	AuthorID  string `gorm:"size:36;index;not null"`
	Author    *User  `gorm:"foreignKey:AuthorID"`
	Body      string `gorm:"size:1000;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}
