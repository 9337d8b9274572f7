package handlers

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/flowershop/internal/classifier"
	"github.com/example/flowershop/internal/models"
	"github.com/example/flowershop/internal/services"
	"github.com/example/flowershop/internal/storage"
	"github.com/example/flowershop/internal/utils"
)

// FlowerHandler manages flower records, their uploaded images, and the
// image-classification endpoint.
type FlowerHandler struct {
	db         *gorm.DB
	images     *storage.ImageStore
	classifier *classifier.Classifier
}

// NewFlowerHandler constructs FlowerHandler.
func NewFlowerHandler(db *gorm.DB, images *storage.ImageStore, cls *classifier.Classifier) *FlowerHandler {
	return &FlowerHandler{db: db, images: images, classifier: cls}
}

type flowerResponse struct {
	models.Flower
	ImageBase64 *string `json:"image_base64"`
}

func (h *FlowerHandler) toResponse(flower models.Flower) flowerResponse {
	return flowerResponse{
		Flower:      flower,
		ImageBase64: h.images.ReadBase64(flower.ImageURL),
	}
}

// ListFlowers returns paginated flowers with base64-embedded images.
func (h *FlowerHandler) ListFlowers(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)

	var total int64
	if err := h.db.Model(&models.Flower{}).Count(&total).Error; err != nil {
		return err
	}

	var flowers []models.Flower
	if err := h.db.Limit(pg.PerPage).Offset(pg.Offset).
		Order("created_at desc").Find(&flowers).Error; err != nil {
		return err
	}

	data := make([]flowerResponse, 0, len(flowers))
	for _, flower := range flowers {
		data = append(data, h.toResponse(flower))
	}

	return c.JSON(fiber.Map{
		"data":          data,
		"total_records": total,
		"page":          pg.Page,
		"per_page":      pg.PerPage,
	})
}

// GetFlower returns a single flower with its image.
func (h *FlowerHandler) GetFlower(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var flower models.Flower
	if err := h.db.First(&flower, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return services.ErrFlowerNotFound
		}
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": h.toResponse(flower)})
}

// CreateFlower creates a flower from multipart form fields. The uploaded
// image, if any, is stored under the flower type's directory.
func (h *FlowerHandler) CreateFlower(c *fiber.Ctx) error {
	flowerType := c.FormValue("flower_type")
	if !classifier.KnownLabel(flowerType) {
		return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("invalid flower type: %s", flowerType))
	}

	name := c.FormValue("name")
	if name == "" {
		return fiber.NewError(fiber.StatusBadRequest, "name is required")
	}

	price, err := strconv.ParseFloat(c.FormValue("price"), 64)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid price")
	}

	stock, err := strconv.Atoi(c.FormValue("stock_quantity", "0"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid stock_quantity")
	}

	flower := models.Flower{
		Name:          name,
		Description:   c.FormValue("description"),
		Price:         price,
		StockQuantity: stock,
		FlowerType:    flowerType,
	}

	if file, err := c.FormFile("image_file"); err == nil {
		path, err := h.images.Save(file, flowerType)
		if err != nil {
			return err
		}
		flower.ImageURL = path
	}

	if err := h.db.Create(&flower).Error; err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": h.toResponse(flower)})
}

// UpdateFlower updates form-provided fields and optionally replaces the
// stored image, deleting the old file after the new one is saved.
func (h *FlowerHandler) UpdateFlower(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var flower models.Flower
	if err := h.db.First(&flower, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return services.ErrFlowerNotFound
		}
		return err
	}

	if v := c.FormValue("name"); v != "" {
		flower.Name = v
	}
	if v := c.FormValue("description"); v != "" {
		flower.Description = v
	}
	if v := c.FormValue("price"); v != "" {
		price, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid price")
		}
		flower.Price = price
	}
	if v := c.FormValue("stock_quantity"); v != "" {
		stock, err := strconv.Atoi(v)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid stock_quantity")
		}
		flower.StockQuantity = stock
	}
	if v := c.FormValue("flower_type"); v != "" {
		if !classifier.KnownLabel(v) {
			return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("invalid flower type: %s", v))
		}
		flower.FlowerType = v
	}

	oldImage := flower.ImageURL
	newImage := ""
	if file, err := c.FormFile("image_file"); err == nil {
		path, err := h.images.Save(file, flower.FlowerType)
		if err != nil {
			return err
		}
		flower.ImageURL = path
		newImage = path
	}

	if err := h.db.Save(&flower).Error; err != nil {
		return err
	}

	if newImage != "" && oldImage != "" {
		h.images.Delete(oldImage)
	}

	return c.JSON(fiber.Map{"success": true, "data": h.toResponse(flower)})
}

// DeleteFlower removes a flower record and its image file.
func (h *FlowerHandler) DeleteFlower(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var flower models.Flower
	if err := h.db.First(&flower, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return services.ErrFlowerNotFound
		}
		return err
	}

	if err := h.db.Delete(&flower).Error; err != nil {
		return err
	}

	h.images.Delete(flower.ImageURL)

	return c.JSON(fiber.Map{
		"success":    true,
		"message":    "flower deleted successfully",
		"deleted_id": flower.ID,
	})
}

// Predict classifies the uploaded image and returns paginated flowers of
// the predicted species.
func (h *FlowerHandler) Predict(c *fiber.Ctx) error {
	prediction, err := h.classifyUpload(c)
	if err != nil {
		return err
	}

	pg := utils.ParsePagination(c)
	query := h.db.Model(&models.Flower{}).Where("flower_type = ?", prediction.Label)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var flowers []models.Flower
	if err := query.Limit(pg.PerPage).Offset(pg.Offset).
		Order("created_at desc").Find(&flowers).Error; err != nil {
		return err
	}

	data := make([]flowerResponse, 0, len(flowers))
	for _, flower := range flowers {
		data = append(data, h.toResponse(flower))
	}

	return c.JSON(fiber.Map{
		"flower_name":     prediction.Label,
		"confidence":      prediction.Confidence,
		"related_flowers": data,
		"total_records":   total,
		"page":            pg.Page,
		"per_page":        pg.PerPage,
	})
}

// classifyUpload reads the multipart image and runs the gated classifier.
func (h *FlowerHandler) classifyUpload(c *fiber.Ctx) (classifier.Prediction, error) {
	file, err := c.FormFile("file")
	if err != nil {
		return classifier.Prediction{}, fiber.NewError(fiber.StatusBadRequest, "image file is required")
	}

	src, err := file.Open()
	if err != nil {
		return classifier.Prediction{}, err
	}
	defer src.Close()

	imageBytes, err := io.ReadAll(src)
	if err != nil {
		return classifier.Prediction{}, err
	}

	return h.classifier.Classify(imageBytes)
}
