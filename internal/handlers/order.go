package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/flowershop/internal/middleware"
	"github.com/example/flowershop/internal/models"
	"github.com/example/flowershop/internal/services"
	"github.com/example/flowershop/internal/utils"
)

// OrderHandler exposes the authenticated order history surface.
type OrderHandler struct {
	db *gorm.DB
}

// NewOrderHandler constructs OrderHandler.
func NewOrderHandler(db *gorm.DB) *OrderHandler {
	return &OrderHandler{db: db}
}

type orderDetailResponse struct {
	DetailID  uuid.UUID       `json:"detail_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice float64         `json:"unit_price"`
	Product   *models.Product `json:"product"`
}

type orderResponse struct {
	OrderID         uuid.UUID             `json:"order_id"`
	UserID          uuid.UUID             `json:"user_id"`
	OrderDate       time.Time             `json:"order_date"`
	TotalAmount     float64               `json:"total_amount"`
	Status          string                `json:"status"`
	ShippingAddress string                `json:"shipping_address"`
	DeliveryDate    *time.Time            `json:"delivery_date"`
	Details         []orderDetailResponse `json:"details"`
}

func (h *OrderHandler) toResponse(order models.Order) orderResponse {
	resp := orderResponse{
		OrderID:         order.ID,
		UserID:          order.UserID,
		OrderDate:       order.OrderDate,
		TotalAmount:     order.TotalAmount,
		Status:          order.Status,
		ShippingAddress: order.ShippingAddress,
		DeliveryDate:    order.DeliveryDate,
		Details:         []orderDetailResponse{},
	}
	for _, detail := range order.Details {
		// Product is nil when it has since been deleted; the snapshotted
		// unit price still tells the history.
		var product *models.Product
		var row models.Product
		if err := h.db.First(&row, "id = ?", detail.ProductID).Error; err == nil {
			product = &row
		}
		resp.Details = append(resp.Details, orderDetailResponse{
			DetailID:  detail.ID,
			Quantity:  detail.Quantity,
			UnitPrice: detail.UnitPrice,
			Product:   product,
		})
	}
	return resp
}

// ListOrders returns the current user's orders, newest first.
func (h *OrderHandler) ListOrders(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	pg := utils.ParsePagination(c)

	var total int64
	if err := h.db.Model(&models.Order{}).Where("user_id = ?", userID).
		Count(&total).Error; err != nil {
		return err
	}

	var orders []models.Order
	if err := h.db.Preload("Details").Where("user_id = ?", userID).
		Limit(pg.PerPage).Offset(pg.Offset).
		Order("order_date desc").Find(&orders).Error; err != nil {
		return err
	}

	data := make([]orderResponse, 0, len(orders))
	for _, order := range orders {
		data = append(data, h.toResponse(order))
	}

	return c.JSON(fiber.Map{
		"data":          data,
		"total_records": total,
		"page":          pg.Page,
		"per_page":      pg.PerPage,
	})
}

func (h *OrderHandler) loadOwnedOrder(c *fiber.Ctx) (*models.Order, error) {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var order models.Order
	if err := h.db.Preload("Details").
		Where("id = ? AND user_id = ?", id, userID).
		First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, services.ErrOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}

// GetOrder returns one of the current user's orders with its details.
func (h *OrderHandler) GetOrder(c *fiber.Ctx) error {
	order, err := h.loadOwnedOrder(c)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": h.toResponse(*order)})
}

type updateOrderRequest struct {
	Status          string     `json:"status"`
	ShippingAddress string     `json:"shipping_address"`
	DeliveryDate    *time.Time `json:"delivery_date"`
}

// UpdateOrder updates the mutable order fields. Status is free text.
func (h *OrderHandler) UpdateOrder(c *fiber.Ctx) error {
	order, err := h.loadOwnedOrder(c)
	if err != nil {
		return err
	}

	var req updateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if req.Status != "" {
		order.Status = req.Status
	}
	if req.ShippingAddress != "" {
		order.ShippingAddress = req.ShippingAddress
	}
	if req.DeliveryDate != nil {
		order.DeliveryDate = req.DeliveryDate
	}

	if err := h.db.Save(order).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": h.toResponse(*order)})
}

// DeleteOrder removes an order and its details in one transaction.
func (h *OrderHandler) DeleteOrder(c *fiber.Ctx) error {
	order, err := h.loadOwnedOrder(c)
	if err != nil {
		return err
	}

	if err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", order.ID).
			Delete(&models.OrderDetail{}).Error; err != nil {
			return err
		}
		return tx.Delete(order).Error
	}); err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success":    true,
		"message":    "order deleted successfully",
		"deleted_id": order.ID,
	})
}
