package models

import "time"

// TableCodeLength is the number of numeric characters in a table code,
// e.g. "0004".
const TableCodeLength = 4

type Table struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Code        string    `gorm:"type:varchar(4);unique;not null" json:"code"`
	IsActive    bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedByID *uint     `json:"created_by,omitempty"`
	UpdatedByID *uint     `json:"updated_by,omitempty"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null" json:"updated_at"`
}
