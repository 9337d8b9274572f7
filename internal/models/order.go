package models

import (
	"time"

	"github.com/google/uuid"
)

// Order is created from a Pending cart at checkout.
type Order struct {
	BaseModel
	UserID          uuid.UUID     `gorm:"type:uuid;index" json:"user_id"`
	OrderDate       time.Time     `json:"order_date"`
	TotalAmount     float64       `json:"total_amount"`
	Status          string        `gorm:"default:Pending" json:"status"`
	ShippingAddress string        `json:"shipping_address"`
	DeliveryDate    *time.Time    `json:"delivery_date"`
	Details         []OrderDetail `json:"details,omitempty"`
}

// OrderDetail is one order line. UnitPrice is copied from the product at
// order creation and stays fixed even if the product price changes later.
type OrderDetail struct {
	BaseModel
	OrderID   uuid.UUID `gorm:"type:uuid;index" json:"order_id"`
	ProductID uuid.UUID `gorm:"type:uuid;index" json:"product_id"`
	Quantity  int       `json:"quantity"`
	UnitPrice float64   `json:"unit_price"`
}
