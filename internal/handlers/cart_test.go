package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/example/flowershop/internal/models"
	"github.com/example/flowershop/internal/services"
)

func newCartApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	db := newTestDB(t)
	carts := services.NewCartService(db)
	checkout := services.NewCheckoutService(db, carts, nil)
	handler := NewCartHandler(db, carts, checkout)

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	app.Get("/cart", handler.GetCart)
	app.Post("/cart/items", handler.AddItem)
	app.Put("/cart/items/:id", handler.UpdateItem)
	app.Delete("/cart/items/:id", handler.RemoveItem)
	app.Post("/cart/checkout", handler.Checkout)

	return app, db
}

func seedBuyer(t *testing.T, db *gorm.DB) (models.User, models.Product) {
	t.Helper()

	user := models.User{Email: "buyer@example.com", PasswordHash: "x"}
	require.NoError(t, db.Create(&user).Error)

	product := models.Product{Name: "Rose bouquet", Price: 10, StockQuantity: 50}
	require.NoError(t, db.Create(&product).Error)

	return user, product
}

func TestCartAddAndSummary(t *testing.T) {
	app, db := newCartApp(t)
	user, product := seedBuyer(t, db)

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/cart/items", fiber.Map{
		"user_id":    user.ID,
		"product_id": product.ID,
		"quantity":   2,
	}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/cart?user_id="+user.ID.String(), nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	data := body["data"].(map[string]interface{})
	assert.InDelta(t, 20, data["total"].(float64), 1e-9)
	assert.Len(t, data["lines"].([]interface{}), 1)
}

func TestCartRejectsUnknownUser(t *testing.T) {
	app, db := newCartApp(t)
	_, product := seedBuyer(t, db)

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/cart/items", fiber.Map{
		"user_id":    uuid.New(),
		"product_id": product.ID,
		"quantity":   1,
	}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/cart?user_id="+uuid.New().String(), nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCartCheckoutEndpoint(t *testing.T) {
	app, db := newCartApp(t)
	user, product := seedBuyer(t, db)

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/cart/items", fiber.Map{
		"user_id":    user.ID,
		"product_id": product.ID,
		"quantity":   3,
	}))
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodPost, "/cart/checkout?user_id="+user.ID.String(), nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	body := decodeBody(t, resp)
	data := body["data"].(map[string]interface{})
	order := data["order"].(map[string]interface{})
	assert.InDelta(t, 30, order["total_amount"].(float64), 1e-9)
	assert.Equal(t, models.CartStatusPaid, data["cart_status"])

	// An immediate second checkout hits the fresh, empty cart.
	resp, err = app.Test(httptest.NewRequest(http.MethodPost, "/cart/checkout?user_id="+user.ID.String(), nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCartRemoveItem(t *testing.T) {
	app, db := newCartApp(t)
	user, product := seedBuyer(t, db)

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/cart/items", fiber.Map{
		"user_id":    user.ID,
		"product_id": product.ID,
		"quantity":   1,
	}))
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	item := decodeBody(t, resp)["data"].(map[string]interface{})
	itemID := item["id"].(string)

	resp, err = app.Test(httptest.NewRequest(http.MethodDelete,
		"/cart/items/"+itemID+"?user_id="+user.ID.String(), nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodDelete,
		"/cart/items/"+itemID+"?user_id="+user.ID.String(), nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
