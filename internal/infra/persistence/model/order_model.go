package model

import (
	"time"

	"github.com/google/uuid"
)

// OrderModel mirrors the 'orders' table. The tier columns are a snapshot
// copied from the offer detail at creation time; they never change when the
// live detail is edited. OfferDetailID keeps a RESTRICT reference so a detail
// with orders cannot be deleted out from under them.
type OrderModel struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	CustomerUserID uuid.UUID `gorm:"type:uuid;not null;index"`
	BusinessUserID uuid.UUID `gorm:"type:uuid;not null;index"`
	OfferDetailID  uuid.UUID `gorm:"type:uuid;not null"`

	Title              string   `gorm:"type:varchar(255);not null"`
	Revisions          int      `gorm:"not null"`
	DeliveryTimeInDays int      `gorm:"not null"`
	Price              float64  `gorm:"type:decimal(10,2);not null"`
	Features           []string `gorm:"type:jsonb;serializer:json;not null"`
	OfferType          string   `gorm:"type:varchar(50);not null"`

	Status    string `gorm:"type:varchar(20);not null;default:'in_progress'"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Customer    *UserModel        `gorm:"foreignKey:CustomerUserID"`
	Business    *UserModel        `gorm:"foreignKey:BusinessUserID"`
	OfferDetail *OfferDetailModel `gorm:"foreignKey:OfferDetailID;constraint:OnDelete:RESTRICT"`
}

// TableName explicitly sets the table name for GORM.
func (OrderModel) TableName() string {
	return "orders"
}
