package models

import "github.com/google/uuid"

// Product is a sellable item. Price is snapshotted into order lines at
// checkout time; later price edits never touch historical orders.
type Product struct {
	BaseModel
	Name            string      `json:"name"`
	Description     string      `json:"description"`
	Price           float64     `json:"price"`
	DiscountedPrice float64     `json:"discounted_price"`
	StockQuantity   int         `json:"stock_quantity"`
	CategoryID      *uuid.UUID  `gorm:"type:uuid;index" json:"category_id"`
	Category        *Category   `json:"category,omitempty"`
	FlowerTypeID    *uuid.UUID  `gorm:"type:uuid;index" json:"flower_type_id"`
	FlowerType      *FlowerType `json:"flower_type,omitempty"`
	ImageURL        string      `json:"image_url"`
	IsFreeship      bool        `json:"is_freeship"`
}
