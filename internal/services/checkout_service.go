package services

import (
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/flowershop/internal/models"
)

// CheckoutService converts a user's Pending cart into an order.
type CheckoutService struct {
	db       *gorm.DB
	carts    *CartService
	telegram *TelegramService
}

// NewCheckoutService constructs CheckoutService. telegram may be nil.
func NewCheckoutService(db *gorm.DB, carts *CartService, telegram *TelegramService) *CheckoutService {
	return &CheckoutService{db: db, carts: carts, telegram: telegram}
}

// CheckoutResult reports the outcome of a successful checkout.
type CheckoutResult struct {
	Order      models.Order `json:"order"`
	PaidCartID uuid.UUID    `json:"cart_id"`
	CartStatus string       `json:"cart_status"`
	NewCartID  uuid.UUID    `json:"new_cart_id"`
}

// Checkout resolves the user's Pending cart and converts it into an Order
// with one OrderDetail per line, snapshotting each product's current price
// as unit_price. The cart transitions to Paid and a fresh Pending cart is
// created so the user's current cart is always resolvable. Order creation,
// detail creation, and both cart writes share one transaction; any failure
// leaves no partial rows and the cart status unchanged.
func (s *CheckoutService) Checkout(userID uuid.UUID) (*CheckoutResult, error) {
	cart, err := s.carts.GetOrCreatePendingCart(userID)
	if err != nil {
		return nil, err
	}
	if cart.Status == models.CartStatusPaid {
		return nil, ErrCartPaid
	}

	var items []models.CartItem
	if err := s.db.Where("cart_id = ?", cart.ID).Order("created_at asc").Find(&items).Error; err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	var order models.Order
	var newCart models.Cart

	err = s.db.Transaction(func(tx *gorm.DB) error {
		// Prices are resolved now, not at add-to-cart time; the total
		// reflects any drift since the items were added.
		var total float64
		details := make([]models.OrderDetail, 0, len(items))
		for _, item := range items {
			var product models.Product
			if err := tx.First(&product, "id = ?", item.ProductID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrProductNotFound
				}
				return err
			}
			total += product.Price * float64(item.Quantity)
			details = append(details, models.OrderDetail{
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
				UnitPrice: product.Price,
			})
		}

		order = models.Order{
			UserID:      userID,
			OrderDate:   time.Now(),
			TotalAmount: total,
			Status:      "Pending",
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		for i := range details {
			details[i].OrderID = order.ID
		}
		if err := tx.Create(&details).Error; err != nil {
			return err
		}
		order.Details = details

		if err := tx.Model(&models.Cart{}).Where("id = ?", cart.ID).
			Update("status", models.CartStatusPaid).Error; err != nil {
			return err
		}

		newCart = models.Cart{UserID: userID, Status: models.CartStatusPending}
		return tx.Create(&newCart).Error
	})
	if err != nil {
		return nil, err
	}

	if s.telegram != nil {
		go s.notify(order, userID, items)
	}

	return &CheckoutResult{
		Order:      order,
		PaidCartID: cart.ID,
		CartStatus: models.CartStatusPaid,
		NewCartID:  newCart.ID,
	}, nil
}

func (s *CheckoutService) notify(order models.Order, userID uuid.UUID, items []models.CartItem) {
	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		log.Printf("[Checkout] Failed to load user for notification: %v", err)
	}

	notification := OrderNotification{
		OrderID:     order.ID.String(),
		TotalAmount: order.TotalAmount,
		UserEmail:   user.Email,
		Status:      order.Status,
	}
	for _, detail := range order.Details {
		var product models.Product
		name := detail.ProductID.String()
		if err := s.db.First(&product, "id = ?", detail.ProductID).Error; err == nil {
			name = product.Name
		}
		notification.Items = append(notification.Items, OrderItemNotification{
			Name:     name,
			Quantity: detail.Quantity,
			Price:    detail.UnitPrice,
		})
	}

	if err := s.telegram.NotifyNewOrder(notification); err != nil {
		log.Printf("[Checkout] Telegram notification failed for order %s: %v", order.ID, err)
	}
}
