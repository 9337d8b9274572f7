package models

import (
	"time"

	"github.com/google/uuid"
)

// Role names seeded at startup.
const (
	RoleAdmin    = "admin"
	RoleCustomer = "customer"
)

// User represents an authenticated customer account.
type User struct {
	BaseModel
	Email        string  `gorm:"uniqueIndex" json:"email"`
	PasswordHash string  `json:"-"`
	Orders       []Order `json:"orders,omitempty"`
}

// Role is a named permission group.
type Role struct {
	BaseModel
	Name string `gorm:"uniqueIndex" json:"name"`
}

// UserRole assigns a role to a user. New registrations get "customer".
type UserRole struct {
	BaseModel
	UserID uuid.UUID `gorm:"type:uuid;index" json:"user_id"`
	RoleID uuid.UUID `gorm:"type:uuid;index" json:"role_id"`
}

// Information is the one-to-one profile extension of a user.
// FullName is derived from first and last name at write time.
type Information struct {
	BaseModel
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	FullName    string    `json:"full_name"`
	DateOfBirth time.Time `json:"date_of_birth"`
	Gender      string    `json:"gender"`
	Address     string    `json:"address"`
	UserID      uuid.UUID `gorm:"type:uuid;uniqueIndex" json:"user_id"`
}
