package models

import "time"

type Category struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"type:varchar(50);unique;not null" json:"name"`
	IsActive    bool      `gorm:"not null;default:true" json:"is_active"`
	Image       string    `gorm:"type:varchar(255)" json:"image"`
	CreatedByID *uint     `json:"created_by,omitempty"`
	UpdatedByID *uint     `json:"updated_by,omitempty"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null" json:"updated_at"`
}
