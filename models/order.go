package models

import "time"

// Order status values. PENDING and DELIVERED may flip back and forth while
// the order is open; CANCELED is terminal.
const (
	OrderStatusPending   = "PENDING"
	OrderStatusDelivered = "DELIVERED"
	OrderStatusCanceled  = "CANCELED"
)

const (
	OrderCodeLength = 6
	MinQuantity     = 1
	MaxQuantity     = 7
)

// OrderStatusLabels maps a status value to its display label.
var OrderStatusLabels = map[string]string{
	OrderStatusPending:   "Pending",
	OrderStatusDelivered: "Delivered",
	OrderStatusCanceled:  "Canceled",
}

type Order struct {
	Code        string    `gorm:"type:varchar(6);primaryKey" json:"code"`
	TableID     uint      `gorm:"not null" json:"table_id"`
	Table       Table     `gorm:"foreignKey:TableID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"table,omitempty"`
	ProductID   uint      `gorm:"not null" json:"product_id"`
	Product     Product   `gorm:"foreignKey:ProductID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"product,omitempty"`
	Quantity    int       `gorm:"not null;default:1" json:"quantity"`
	Status      string    `gorm:"type:varchar(20);not null;default:'PENDING'" json:"status"`
	IsClosed    bool      `gorm:"not null;default:false" json:"is_closed"`
	PaymentCode *string   `gorm:"type:varchar(6)" json:"payment_code,omitempty"`
	Payment     *Payment  `gorm:"foreignKey:PaymentCode;references:Code" json:"payment,omitempty"`
	CreatedByID *uint     `json:"created_by,omitempty"`
	UpdatedByID *uint     `json:"updated_by,omitempty"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null" json:"updated_at"`
}

func (o *Order) IsCanceled() bool {
	return o.Status == OrderStatusCanceled
}

func (o *Order) IsDelivered() bool {
	return o.Status == OrderStatusDelivered
}
