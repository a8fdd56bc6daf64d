package model

import (
	"time"

	"github.com/google/uuid"
)

// UserModel mirrors the 'users' table. PostgreSQL generates UUIDs via uuid_generate_v7().
// It is an exported type so it can be used by the GORM Gen tool from other packages.
// The profile columns are nullable; the mapper normalizes NULL to "" when
// building the domain entity.
type UserModel struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	Username     string    `gorm:"type:varchar(100);unique;not null"`
	Email        string    `gorm:"type:varchar(255);unique;not null"`
	PasswordHash string    `gorm:"type:varchar(255);not null"`
	Role         string    `gorm:"type:varchar(20);not null"`
	IsAdmin      bool      `gorm:"not null;default:false"`

	FirstName    *string `gorm:"type:varchar(100)"`
	LastName     *string `gorm:"type:varchar(100)"`
	Location     *string `gorm:"type:varchar(255)"`
	Tel          *string `gorm:"type:varchar(50)"`
	Description  *string `gorm:"type:text"`
	WorkingHours *string `gorm:"type:varchar(255)"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName explicitly sets the table name for GORM.
func (UserModel) TableName() string {
	return "users"
}
