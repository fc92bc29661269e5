package model

import (
	"time"

	"gorm.io/gorm"
)

// Customer represents a retail customer. LoyaltyEnrolled only ever
// transitions false -> true; nothing in the system reverts it.
type Customer struct {
	ID              uint           `json:"id" gorm:"primarykey"`
	Name            string         `json:"name" gorm:"type:varchar(255);not null"`
	Email           string         `json:"email" gorm:"type:varchar(255)"`
	LoyaltyEnrolled bool           `json:"loyalty_enrolled" gorm:"not null;default:false"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}
