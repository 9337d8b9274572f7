package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/flowershop/internal/middleware"
	"github.com/example/flowershop/internal/models"
)

// ProfileHandler manages the one-to-one profile record of the current user.
type ProfileHandler struct {
	db *gorm.DB
}

// NewProfileHandler constructs ProfileHandler.
func NewProfileHandler(db *gorm.DB) *ProfileHandler {
	return &ProfileHandler{db: db}
}

type informationRequest struct {
	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	DateOfBirth *time.Time `json:"date_of_birth"`
	Gender      string     `json:"gender"`
	Address     string     `json:"address"`
}

type informationResponse struct {
	models.Information
	Email string `json:"email"`
}

func fullName(first, last string) string {
	switch {
	case first == "":
		return last
	case last == "":
		return first
	default:
		return first + " " + last
	}
}

// GetInfo returns the current user's profile joined with the account email.
func (h *ProfileHandler) GetInfo(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var info models.Information
	if err := h.db.Where("user_id = ?", userID).First(&info).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "profile not found")
		}
		return err
	}

	var user models.User
	if err := h.db.First(&user, "id = ?", userID).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    informationResponse{Information: info, Email: user.Email},
	})
}

// CreateInfo creates the current user's profile. One profile per user; a
// second create is rejected.
func (h *ProfileHandler) CreateInfo(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var existing models.Information
	if err := h.db.Where("user_id = ?", userID).First(&existing).Error; err == nil {
		return fiber.NewError(fiber.StatusBadRequest, "profile already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	var req informationRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	info := models.Information{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		FullName:  fullName(req.FirstName, req.LastName),
		Gender:    req.Gender,
		Address:   req.Address,
		UserID:    userID,
	}
	if req.DateOfBirth != nil {
		info.DateOfBirth = *req.DateOfBirth
	}

	if err := h.db.Create(&info).Error; err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": info})
}

// UpdateInfo updates the profile by id. The record must belong to the
// current user; FullName is rederived from the stored names.
func (h *ProfileHandler) UpdateInfo(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var info models.Information
	if err := h.db.Where("id = ? AND user_id = ?", id, userID).First(&info).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "profile not found")
		}
		return err
	}

	var req informationRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if req.FirstName != "" {
		info.FirstName = req.FirstName
	}
	if req.LastName != "" {
		info.LastName = req.LastName
	}
	if req.DateOfBirth != nil {
		info.DateOfBirth = *req.DateOfBirth
	}
	if req.Gender != "" {
		info.Gender = req.Gender
	}
	if req.Address != "" {
		info.Address = req.Address
	}
	info.FullName = fullName(info.FirstName, info.LastName)

	if err := h.db.Save(&info).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": info})
}
