package services

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/flowershop/internal/models"
)

// CartService owns the pending-cart lifecycle and line-item accumulation.
type CartService struct {
	db *gorm.DB
}

// NewCartService constructs CartService.
func NewCartService(db *gorm.DB) *CartService {
	return &CartService{db: db}
}

// GetOrCreatePendingCart returns the user's Pending cart, creating one if
// none exists. Two concurrent first-time calls can both observe "no cart"
// and each create one; this TOCTOU race is a documented limitation of the
// get-or-create lookup, not masked by a constraint.
func (s *CartService) GetOrCreatePendingCart(userID uuid.UUID) (*models.Cart, error) {
	var cart models.Cart
	err := s.db.Where("user_id = ? AND status = ?", userID, models.CartStatusPending).
		First(&cart).Error
	if err == nil {
		return &cart, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	cart = models.Cart{UserID: userID, Status: models.CartStatusPending}
	if err := s.db.Create(&cart).Error; err != nil {
		return nil, err
	}
	return &cart, nil
}

// AddItem adds quantity of a product to the cart. If the cart already has
// a line for the product, the quantity accumulates instead of creating a
// duplicate row.
func (s *CartService) AddItem(cartID, productID uuid.UUID, quantity int) (*models.CartItem, error) {
	if quantity < 1 {
		return nil, ErrQuantityInvalid
	}

	cart, err := s.loadCart(cartID)
	if err != nil {
		return nil, err
	}
	if cart.Status == models.CartStatusPaid {
		return nil, ErrCartPaid
	}

	var product models.Product
	if err := s.db.First(&product, "id = ?", productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	var item models.CartItem
	err = s.db.Where("cart_id = ? AND product_id = ?", cartID, productID).
		First(&item).Error
	if err == nil {
		item.Quantity += quantity
		if err := s.db.Save(&item).Error; err != nil {
			return nil, err
		}
		return &item, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	item = models.CartItem{CartID: cartID, ProductID: productID, Quantity: quantity}
	if err := s.db.Create(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// UpdateItemQuantity overwrites the stored quantity of an item. The item
// must belong to the given cart.
func (s *CartService) UpdateItemQuantity(cartID, itemID uuid.UUID, quantity int) (*models.CartItem, error) {
	if quantity < 1 {
		return nil, ErrQuantityInvalid
	}

	cart, err := s.loadCart(cartID)
	if err != nil {
		return nil, err
	}
	if cart.Status == models.CartStatusPaid {
		return nil, ErrCartPaid
	}

	var item models.CartItem
	if err := s.db.Where("id = ? AND cart_id = ?", itemID, cartID).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCartItemNotFound
		}
		return nil, err
	}

	item.Quantity = quantity
	if err := s.db.Save(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// RemoveItem deletes an item from the cart. The item must belong to the
// given cart.
func (s *CartService) RemoveItem(cartID, itemID uuid.UUID) error {
	cart, err := s.loadCart(cartID)
	if err != nil {
		return err
	}
	if cart.Status == models.CartStatusPaid {
		return ErrCartPaid
	}

	var item models.CartItem
	if err := s.db.Where("id = ? AND cart_id = ?", itemID, cartID).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCartItemNotFound
		}
		return err
	}

	return s.db.Delete(&item).Error
}

// CartLine is one cart item joined to its product with a computed subtotal.
type CartLine struct {
	ItemID   uuid.UUID      `json:"item_id"`
	Quantity int            `json:"quantity"`
	Product  models.Product `json:"product"`
	Subtotal float64        `json:"subtotal"`
}

// CartSummary is a cart with its priced lines and total.
type CartSummary struct {
	Cart  models.Cart `json:"cart"`
	Lines []CartLine  `json:"lines"`
	Total float64     `json:"total"`
}

// Summary joins the cart's items to current products and computes per-line
// subtotals and the cart total. Lines whose product has been deleted are
// silently omitted from the result and the total.
func (s *CartService) Summary(cartID uuid.UUID) (*CartSummary, error) {
	cart, err := s.loadCart(cartID)
	if err != nil {
		return nil, err
	}

	var items []models.CartItem
	if err := s.db.Where("cart_id = ?", cartID).Order("created_at asc").Find(&items).Error; err != nil {
		return nil, err
	}

	productIDs := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		productIDs = append(productIDs, item.ProductID)
	}

	products := map[uuid.UUID]models.Product{}
	if len(productIDs) > 0 {
		var rows []models.Product
		if err := s.db.Where("id IN ?", productIDs).Find(&rows).Error; err != nil {
			return nil, err
		}
		for _, p := range rows {
			products[p.ID] = p
		}
	}

	summary := &CartSummary{Cart: *cart, Lines: []CartLine{}}
	for _, item := range items {
		product, ok := products[item.ProductID]
		if !ok {
			continue
		}
		subtotal := product.Price * float64(item.Quantity)
		summary.Lines = append(summary.Lines, CartLine{
			ItemID:   item.ID,
			Quantity: item.Quantity,
			Product:  product,
			Subtotal: subtotal,
		})
		summary.Total += subtotal
	}

	return summary, nil
}

func (s *CartService) loadCart(cartID uuid.UUID) (*models.Cart, error) {
	var cart models.Cart
	if err := s.db.First(&cart, "id = ?", cartID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCartNotFound
		}
		return nil, err
	}
	return &cart, nil
}
