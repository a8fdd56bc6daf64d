package model

import (
	"time"

	"github.com/google/uuid"
)

// OfferModel mirrors the 'offers' table. Deleting an offer cascades to its
// detail rows at the database level.
type OfferModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;index"`
	Title       string    `gorm:"type:varchar(255);not null"`
	Description string    `gorm:"type:text;not null"`
	Image       *string   `gorm:"type:varchar(512)"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Owner   *UserModel         `gorm:"foreignKey:UserID"`
	Details []OfferDetailModel `gorm:"foreignKey:OfferID;constraint:OnDelete:CASCADE"`
}

// TableName explicitly sets the table name for GORM.
func (OfferModel) TableName() string {
	return "offers"
}

// OfferDetailModel mirrors the 'offer_details' table, one priced tier per
// row. Features is stored as a jsonb array.
type OfferDetailModel struct {
	ID                 uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	OfferID            uuid.UUID `gorm:"type:uuid;not null;index"`
	Title              string    `gorm:"type:varchar(255);not null"`
	Revisions          int       `gorm:"not null"`
	DeliveryTimeInDays int       `gorm:"not null"`
	Price              float64   `gorm:"type:decimal(10,2);not null"`
	Features           []string  `gorm:"type:jsonb;serializer:json;not null"`
	OfferType          string    `gorm:"type:varchar(50);not null"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// TableName explicitly sets the table name for GORM.
func (OfferDetailModel) TableName() string {
	return "offer_details"
}
