package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Role string

const (
	RoleFounder   Role = "founder"
	RoleCTO       Role = "cto"
	RoleCFO       Role = "cfo"
	RoleDeveloper Role = "developer"
	RoleSales     Role = "sales"
	RoleClient    Role = "client"
)

// AllRoles in privilege order; developer/sales/client are unordered peers.
var AllRoles = []Role{RoleFounder, RoleCTO, RoleCFO, RoleDeveloper, RoleSales, RoleClient}

func (r Role) Valid() bool {
	switch r {
	case RoleFounder, RoleCTO, RoleCFO, RoleDeveloper, RoleSales, RoleClient:
		return true
	}
	return false
}

type User struct {
	ID           string `gorm:"primaryKey;size:36"`
	Name         string `gorm:"size:100;not null"`
	Email        string `gorm:"size:100;uniqueIndex;not null"`
	PasswordHash string `gorm:"size:255;not null"`
	Role         Role   `gorm:"size:20;not null"`
	AvatarURL    string `gorm:"size:255"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}
