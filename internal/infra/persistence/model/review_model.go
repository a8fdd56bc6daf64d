package model

import (
	"time"

	"github.com/google/uuid"
)

// ReviewModel mirrors the 'reviews' table. The composite unique index on
// (business_user_id, reviewer_id) is the authoritative one-review-per-pair
// guarantee; inserts racing each other resolve at the constraint.
type ReviewModel struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	BusinessUserID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_reviews_business_reviewer"`
	ReviewerID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_reviews_business_reviewer"`
	Rating         int       `gorm:"not null;check:rating >= 1 AND rating <= 5"`
	Description    string    `gorm:"type:text;not null"`
	CreatedAt      time.Time
	UpdatedAt      time.Time

	Business *UserModel `gorm:"foreignKey:BusinessUserID"`
	Reviewer *UserModel `gorm:"foreignKey:ReviewerID"`
}

// TableName explicitly sets the table name for GORM.
func (ReviewModel) TableName() string {
	return "reviews"
}
