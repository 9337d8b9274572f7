package models

import "github.com/google/uuid"

// Cart statuses. A cart is Pending until checkout converts it to Paid.
const (
	CartStatusPending = "Pending"
	CartStatusPaid    = "Paid"
)

// Cart holds a user's not-yet-ordered items. At most one Pending cart
// exists per user; the lookup is get-or-create, so two concurrent
// first-time requests can still race and each create one.
type Cart struct {
	BaseModel
	UserID uuid.UUID  `gorm:"type:uuid;index" json:"user_id"`
	Status string     `gorm:"default:Pending" json:"status"`
	Items  []CartItem `json:"items,omitempty"`
}

// CartItem is one product line in a cart. The (cart_id, product_id) pair
// is unique: adding the same product again accumulates the quantity.
type CartItem struct {
	BaseModel
	CartID    uuid.UUID `gorm:"type:uuid;index;uniqueIndex:idx_cart_product" json:"cart_id"`
	ProductID uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_cart_product" json:"product_id"`
	Quantity  int       `json:"quantity"`
}
