package models

import "time"

// Payment types and statuses. A payment starts PENDING and can only move to
// PAID, which is terminal.
const (
	PaymentTypeCash = "CASH"
	PaymentTypeCard = "CARD"

	PaymentStatusPending = "PENDING"
	PaymentStatusPaid    = "PAID"
)

const (
	PaymentCodeLength = 6
	MinTotal          = 100 // $1.00 in cents
)

type Payment struct {
	Code        string    `gorm:"type:varchar(6);primaryKey" json:"code"`
	TableID     uint      `gorm:"not null" json:"table_id"`
	Table       Table     `gorm:"foreignKey:TableID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"table,omitempty"`
	Total       int       `gorm:"not null" json:"total"`
	Type        string    `gorm:"type:varchar(10);not null" json:"type"`
	Status      string    `gorm:"type:varchar(10);not null;default:'PENDING'" json:"status"`
	CreatedByID *uint     `json:"created_by,omitempty"`
	UpdatedByID *uint     `json:"updated_by,omitempty"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null" json:"updated_at"`
}
