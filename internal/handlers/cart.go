package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/flowershop/internal/models"
	"github.com/example/flowershop/internal/services"
)

// CartHandler exposes the pending cart and checkout endpoints. Callers
// identify the cart owner explicitly; the cart surface does not require a
// session.
type CartHandler struct {
	db       *gorm.DB
	carts    *services.CartService
	checkout *services.CheckoutService
}

// NewCartHandler constructs CartHandler.
func NewCartHandler(db *gorm.DB, carts *services.CartService, checkout *services.CheckoutService) *CartHandler {
	return &CartHandler{db: db, carts: carts, checkout: checkout}
}

type addItemRequest struct {
	UserID    uuid.UUID `json:"user_id"`
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
}

type updateItemRequest struct {
	UserID   uuid.UUID `json:"user_id"`
	Quantity int       `json:"quantity"`
}

// resolveUser verifies the user exists before any cart lookup so a bogus
// id yields 404 instead of a silently created cart.
func (h *CartHandler) resolveUser(userID uuid.UUID) error {
	if userID == uuid.Nil {
		return fiber.NewError(fiber.StatusBadRequest, "user_id is required")
	}
	var user models.User
	if err := h.db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return services.ErrUserNotFound
		}
		return err
	}
	return nil
}

func (h *CartHandler) userIDFromQuery(c *fiber.Ctx) (uuid.UUID, error) {
	raw := c.Query("user_id")
	if raw == "" {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "user_id is required")
	}
	userID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "invalid user_id")
	}
	return userID, nil
}

// GetCart returns the user's pending cart summary, creating the cart if
// the user has none.
func (h *CartHandler) GetCart(c *fiber.Ctx) error {
	userID, err := h.userIDFromQuery(c)
	if err != nil {
		return err
	}
	if err := h.resolveUser(userID); err != nil {
		return err
	}

	cart, err := h.carts.GetOrCreatePendingCart(userID)
	if err != nil {
		return err
	}

	summary, err := h.carts.Summary(cart.ID)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": summary})
}

// AddItem adds a product to the user's pending cart, accumulating the
// quantity when the product is already in the cart.
func (h *CartHandler) AddItem(c *fiber.Ctx) error {
	var req addItemRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := h.resolveUser(req.UserID); err != nil {
		return err
	}

	cart, err := h.carts.GetOrCreatePendingCart(req.UserID)
	if err != nil {
		return err
	}

	item, err := h.carts.AddItem(cart.ID, req.ProductID, req.Quantity)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": item})
}

// UpdateItem overwrites the quantity of a cart item.
func (h *CartHandler) UpdateItem(c *fiber.Ctx) error {
	itemID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var req updateItemRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := h.resolveUser(req.UserID); err != nil {
		return err
	}

	cart, err := h.carts.GetOrCreatePendingCart(req.UserID)
	if err != nil {
		return err
	}

	item, err := h.carts.UpdateItemQuantity(cart.ID, itemID, req.Quantity)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": item})
}

// RemoveItem deletes a cart item from the user's pending cart.
func (h *CartHandler) RemoveItem(c *fiber.Ctx) error {
	itemID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	userID, err := h.userIDFromQuery(c)
	if err != nil {
		return err
	}
	if err := h.resolveUser(userID); err != nil {
		return err
	}

	cart, err := h.carts.GetOrCreatePendingCart(userID)
	if err != nil {
		return err
	}

	if err := h.carts.RemoveItem(cart.ID, itemID); err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "item removed from cart",
	})
}

// Checkout converts the user's pending cart into an order.
func (h *CartHandler) Checkout(c *fiber.Ctx) error {
	userID, err := h.userIDFromQuery(c)
	if err != nil {
		return err
	}
	if err := h.resolveUser(userID); err != nil {
		return err
	}

	result, err := h.checkout.Checkout(userID)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": result})
}
