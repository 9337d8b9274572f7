package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/flowershop/internal/models"
	"github.com/example/flowershop/internal/utils"
)

// CatalogHandler manages category and flower type lookup tables.
type CatalogHandler struct {
	db *gorm.DB
}

// NewCatalogHandler constructs CatalogHandler.
func NewCatalogHandler(db *gorm.DB) *CatalogHandler {
	return &CatalogHandler{db: db}
}

// Generic helpers for simple lookup tables.

func (h *CatalogHandler) listSimple(c *fiber.Ctx, model interface{}, out interface{}) error {
	pg := utils.ParsePagination(c)
	var total int64
	if err := h.db.Model(model).Count(&total).Error; err != nil {
		return err
	}
	if err := h.db.Model(model).Limit(pg.PerPage).Offset(pg.Offset).
		Order("created_at desc").Find(out).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"data":          out,
		"total_records": total,
		"page":          pg.Page,
		"per_page":      pg.PerPage,
	})
}

func (h *CatalogHandler) getSimple(c *fiber.Ctx, model interface{}) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}
	if err := h.db.First(model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "resource not found")
		}
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": model})
}

func (h *CatalogHandler) createSimple(c *fiber.Ctx, model interface{}) error {
	if err := c.BodyParser(model); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := h.db.Create(model).Error; err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": model})
}

func (h *CatalogHandler) updateSimple(c *fiber.Ctx, model interface{}) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}
	if err := h.db.First(model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "resource not found")
		}
		return err
	}
	if err := c.BodyParser(model); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := h.db.Save(model).Error; err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": model})
}

func (h *CatalogHandler) deleteSimple(c *fiber.Ctx, model interface{}) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}
	if err := h.db.Delete(model, "id = ?", id).Error; err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Category CRUD.

func (h *CatalogHandler) ListCategories(c *fiber.Ctx) error {
	var items []models.Category
	return h.listSimple(c, &models.Category{}, &items)
}

func (h *CatalogHandler) GetCategory(c *fiber.Ctx) error {
	var item models.Category
	return h.getSimple(c, &item)
}

func (h *CatalogHandler) CreateCategory(c *fiber.Ctx) error {
	var item models.Category
	return h.createSimple(c, &item)
}

func (h *CatalogHandler) UpdateCategory(c *fiber.Ctx) error {
	var item models.Category
	return h.updateSimple(c, &item)
}

func (h *CatalogHandler) DeleteCategory(c *fiber.Ctx) error {
	var item models.Category
	return h.deleteSimple(c, &item)
}

// FlowerType CRUD.

func (h *CatalogHandler) ListFlowerTypes(c *fiber.Ctx) error {
	var items []models.FlowerType
	return h.listSimple(c, &models.FlowerType{}, &items)
}

func (h *CatalogHandler) GetFlowerType(c *fiber.Ctx) error {
	var item models.FlowerType
	return h.getSimple(c, &item)
}

func (h *CatalogHandler) CreateFlowerType(c *fiber.Ctx) error {
	var item models.FlowerType
	return h.createSimple(c, &item)
}

func (h *CatalogHandler) UpdateFlowerType(c *fiber.Ctx) error {
	var item models.FlowerType
	return h.updateSimple(c, &item)
}

func (h *CatalogHandler) DeleteFlowerType(c *fiber.Ctx) error {
	var item models.FlowerType
	return h.deleteSimple(c, &item)
}
