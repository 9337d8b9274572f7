package handlers

import (
	"errors"
	"io"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/flowershop/internal/classifier"
	"github.com/example/flowershop/internal/models"
	"github.com/example/flowershop/internal/services"
	"github.com/example/flowershop/internal/storage"
	"github.com/example/flowershop/internal/utils"
)

// ProductHandler manages the sellable product catalog.
type ProductHandler struct {
	db         *gorm.DB
	images     *storage.ImageStore
	classifier *classifier.Classifier
}

// NewProductHandler constructs ProductHandler.
func NewProductHandler(db *gorm.DB, images *storage.ImageStore, cls *classifier.Classifier) *ProductHandler {
	return &ProductHandler{db: db, images: images, classifier: cls}
}

type productRequest struct {
	Name            string     `json:"name"`
	Description     string     `json:"description"`
	Price           float64    `json:"price"`
	DiscountedPrice float64    `json:"discounted_price"`
	StockQuantity   int        `json:"stock_quantity"`
	CategoryID      *uuid.UUID `json:"category_id"`
	FlowerTypeID    *uuid.UUID `json:"flower_type_id"`
	ImageURL        string     `json:"image_url"`
	IsFreeship      bool       `json:"is_freeship"`
}

type productResponse struct {
	models.Product
	ImageBase64 *string `json:"image_base64"`
}

func (h *ProductHandler) toResponse(product models.Product) productResponse {
	return productResponse{
		Product:     product,
		ImageBase64: h.images.ReadBase64(product.ImageURL),
	}
}

func (h *ProductHandler) paginatedList(c *fiber.Ctx, query *gorm.DB) error {
	pg := utils.ParsePagination(c)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var products []models.Product
	if err := query.Preload("Category").Preload("FlowerType").
		Limit(pg.PerPage).Offset(pg.Offset).
		Order("created_at desc").Find(&products).Error; err != nil {
		return err
	}

	data := make([]productResponse, 0, len(products))
	for _, product := range products {
		data = append(data, h.toResponse(product))
	}

	return c.JSON(fiber.Map{
		"data":          data,
		"total_records": total,
		"page":          pg.Page,
		"per_page":      pg.PerPage,
	})
}

// ListProducts returns paginated products with their category and flower
// type preloaded.
func (h *ProductHandler) ListProducts(c *fiber.Ctx) error {
	return h.paginatedList(c, h.db.Model(&models.Product{}))
}

// ListProductsByFlowerType returns paginated products belonging to one
// flower type.
func (h *ProductHandler) ListProductsByFlowerType(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}
	return h.paginatedList(c, h.db.Model(&models.Product{}).Where("flower_type_id = ?", id))
}

// GetProduct returns a single product.
func (h *ProductHandler) GetProduct(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var product models.Product
	if err := h.db.Preload("Category").Preload("FlowerType").
		First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return services.ErrProductNotFound
		}
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": h.toResponse(product)})
}

// CreateProduct creates a product. Foreign keys are validated so a typo'd
// category or flower type id fails loudly instead of dangling.
func (h *ProductHandler) CreateProduct(c *fiber.Ctx) error {
	var req productRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if req.Name == "" {
		return fiber.NewError(fiber.StatusBadRequest, "name is required")
	}
	if req.Price < 0 {
		return fiber.NewError(fiber.StatusBadRequest, "price must not be negative")
	}

	if err := h.validateRefs(req.CategoryID, req.FlowerTypeID); err != nil {
		return err
	}

	product := models.Product{
		Name:            req.Name,
		Description:     req.Description,
		Price:           req.Price,
		DiscountedPrice: req.DiscountedPrice,
		StockQuantity:   req.StockQuantity,
		CategoryID:      req.CategoryID,
		FlowerTypeID:    req.FlowerTypeID,
		ImageURL:        req.ImageURL,
		IsFreeship:      req.IsFreeship,
	}

	if err := h.db.Create(&product).Error; err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": h.toResponse(product)})
}

// UpdateProduct overwrites product fields from the request body.
func (h *ProductHandler) UpdateProduct(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var product models.Product
	if err := h.db.First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return services.ErrProductNotFound
		}
		return err
	}

	var req productRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.Price < 0 {
		return fiber.NewError(fiber.StatusBadRequest, "price must not be negative")
	}

	if err := h.validateRefs(req.CategoryID, req.FlowerTypeID); err != nil {
		return err
	}

	product.Name = req.Name
	product.Description = req.Description
	product.Price = req.Price
	product.DiscountedPrice = req.DiscountedPrice
	product.StockQuantity = req.StockQuantity
	product.CategoryID = req.CategoryID
	product.FlowerTypeID = req.FlowerTypeID
	if req.ImageURL != "" {
		product.ImageURL = req.ImageURL
	}
	product.IsFreeship = req.IsFreeship

	if err := h.db.Save(&product).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": h.toResponse(product)})
}

// DeleteProduct removes a product. Historical order details keep their
// snapshotted unit price and product id.
func (h *ProductHandler) DeleteProduct(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var product models.Product
	if err := h.db.First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return services.ErrProductNotFound
		}
		return err
	}

	if err := h.db.Delete(&product).Error; err != nil {
		return err
	}

	if product.ImageURL != "" {
		h.images.Delete(product.ImageURL)
	}

	return c.JSON(fiber.Map{
		"success":    true,
		"message":    "product deleted successfully",
		"deleted_id": product.ID,
	})
}

// Predict classifies the uploaded image and returns paginated products
// whose flower type matches the predicted species.
func (h *ProductHandler) Predict(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "image file is required")
	}

	src, err := file.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	imageBytes, err := io.ReadAll(src)
	if err != nil {
		return err
	}

	prediction, err := h.classifier.Classify(imageBytes)
	if err != nil {
		return err
	}

	query := h.db.Model(&models.Product{}).
		Joins("JOIN flower_types ON flower_types.id = products.flower_type_id").
		Where("flower_types.name = ?", prediction.Label)

	pg := utils.ParsePagination(c)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var products []models.Product
	if err := query.Preload("Category").Preload("FlowerType").
		Limit(pg.PerPage).Offset(pg.Offset).
		Order("products.created_at desc").Find(&products).Error; err != nil {
		return err
	}

	data := make([]productResponse, 0, len(products))
	for _, product := range products {
		data = append(data, h.toResponse(product))
	}

	return c.JSON(fiber.Map{
		"flower_name":      prediction.Label,
		"confidence":       prediction.Confidence,
		"related_products": data,
		"total_records":    total,
		"page":             pg.Page,
		"per_page":         pg.PerPage,
	})
}

func (h *ProductHandler) validateRefs(categoryID, flowerTypeID *uuid.UUID) error {
	if categoryID != nil {
		var count int64
		if err := h.db.Model(&models.Category{}).Where("id = ?", *categoryID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "category not found")
		}
	}
	if flowerTypeID != nil {
		var count int64
		if err := h.db.Model(&models.FlowerType{}).Where("id = ?", *flowerTypeID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "flower type not found")
		}
	}
	return nil
}
