package models

import "time"

// Product prices are stored in cents.
const (
	MinPrice = 100   // $1.00
	MaxPrice = 10000 // $100.00
)

type Product struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"type:varchar(50);unique;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	Price       int       `gorm:"not null" json:"price"`
	IsActive    bool      `gorm:"not null;default:true" json:"is_active"`
	Image       string    `gorm:"type:varchar(255)" json:"image"`
	CategoryID  uint      `gorm:"not null" json:"category_id"`
	Category    Category  `gorm:"foreignKey:CategoryID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"category,omitempty"`
	CreatedByID *uint     `json:"created_by,omitempty"`
	UpdatedByID *uint     `json:"updated_by,omitempty"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null" json:"updated_at"`
}
