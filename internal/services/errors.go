package services

import "errors"

// Service-level failures. Handlers translate these to HTTP status codes at
// the request boundary; anything else is treated as internal and rolled
// back by the surrounding transaction.
var (
	ErrUserNotFound     = errors.New("user not found")
	ErrProductNotFound  = errors.New("product not found")
	ErrCartNotFound     = errors.New("cart not found")
	ErrCartItemNotFound = errors.New("cart item not found")
	ErrOrderNotFound    = errors.New("order not found")
	ErrFlowerNotFound   = errors.New("flower not found")

	ErrCartPaid        = errors.New("cart is already paid")
	ErrEmptyCart       = errors.New("cart is empty")
	ErrQuantityInvalid = errors.New("quantity must be at least 1")
)
