package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/example/flowershop/internal/models"
)

func newCheckoutFixture(t *testing.T) (*gorm.DB, *CartService, *CheckoutService, models.User) {
	t.Helper()
	db := newTestDB(t)
	carts := NewCartService(db)
	checkout := NewCheckoutService(db, carts, nil)
	user := createUser(t, db, "buyer@example.com")
	return db, carts, checkout, user
}

func TestCheckoutCreatesOrderFromCart(t *testing.T) {
	db, carts, checkout, user := newCheckoutFixture(t)
	roses := createProduct(t, db, "Rose bouquet", 10)
	tulips := createProduct(t, db, "Tulip bunch", 5)

	cart, err := carts.GetOrCreatePendingCart(user.ID)
	require.NoError(t, err)
	_, err = carts.AddItem(cart.ID, roses.ID, 2)
	require.NoError(t, err)
	_, err = carts.AddItem(cart.ID, tulips.ID, 1)
	require.NoError(t, err)

	result, err := checkout.Checkout(user.ID)
	require.NoError(t, err)

	assert.InDelta(t, 25, result.Order.TotalAmount, 1e-9)
	assert.Equal(t, "Pending", result.Order.Status)
	assert.Equal(t, user.ID, result.Order.UserID)
	assert.Equal(t, cart.ID, result.PaidCartID)
	assert.Equal(t, models.CartStatusPaid, result.CartStatus)
	assert.NotEqual(t, cart.ID, result.NewCartID)

	require.Len(t, result.Order.Details, 2)
	byProduct := map[string]models.OrderDetail{}
	for _, detail := range result.Order.Details {
		assert.Equal(t, result.Order.ID, detail.OrderID)
		byProduct[detail.ProductID.String()] = detail
	}
	assert.InDelta(t, 10, byProduct[roses.ID.String()].UnitPrice, 1e-9)
	assert.Equal(t, 2, byProduct[roses.ID.String()].Quantity)
	assert.InDelta(t, 5, byProduct[tulips.ID.String()].UnitPrice, 1e-9)
	assert.Equal(t, 1, byProduct[tulips.ID.String()].Quantity)

	var paid models.Cart
	require.NoError(t, db.First(&paid, "id = ?", cart.ID).Error)
	assert.Equal(t, models.CartStatusPaid, paid.Status)

	// The fresh cart is Pending and empty, and is what the user resolves
	// to on the next lookup.
	next, err := carts.GetOrCreatePendingCart(user.ID)
	require.NoError(t, err)
	assert.Equal(t, result.NewCartID, next.ID)

	var itemCount int64
	require.NoError(t, db.Model(&models.CartItem{}).
		Where("cart_id = ?", next.ID).Count(&itemCount).Error)
	assert.EqualValues(t, 0, itemCount)
}

func TestCheckoutRejectsEmptyCart(t *testing.T) {
	_, _, checkout, user := newCheckoutFixture(t)

	_, err := checkout.Checkout(user.ID)
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestCheckoutUsesCurrentPrices(t *testing.T) {
	db, carts, checkout, user := newCheckoutFixture(t)
	product := createProduct(t, db, "Rose bouquet", 10)

	cart, err := carts.GetOrCreatePendingCart(user.ID)
	require.NoError(t, err)
	_, err = carts.AddItem(cart.ID, product.ID, 2)
	require.NoError(t, err)

	// Price changes between add-to-cart and checkout; the order reflects
	// the price at checkout time.
	require.NoError(t, db.Model(&models.Product{}).Where("id = ?", product.ID).
		Update("price", 12.5).Error)

	result, err := checkout.Checkout(user.ID)
	require.NoError(t, err)
	assert.InDelta(t, 25, result.Order.TotalAmount, 1e-9)
	require.Len(t, result.Order.Details, 1)
	assert.InDelta(t, 12.5, result.Order.Details[0].UnitPrice, 1e-9)
}

func TestCheckoutSnapshotSurvivesLaterPriceEdit(t *testing.T) {
	db, carts, checkout, user := newCheckoutFixture(t)
	product := createProduct(t, db, "Rose bouquet", 10)

	cart, err := carts.GetOrCreatePendingCart(user.ID)
	require.NoError(t, err)
	_, err = carts.AddItem(cart.ID, product.ID, 1)
	require.NoError(t, err)

	result, err := checkout.Checkout(user.ID)
	require.NoError(t, err)

	require.NoError(t, db.Model(&models.Product{}).Where("id = ?", product.ID).
		Update("price", 99).Error)

	var detail models.OrderDetail
	require.NoError(t, db.First(&detail, "order_id = ?", result.Order.ID).Error)
	assert.InDelta(t, 10, detail.UnitPrice, 1e-9)
}

func TestCheckoutRollsBackWhenProductVanishes(t *testing.T) {
	db, carts, checkout, user := newCheckoutFixture(t)
	product := createProduct(t, db, "Rose bouquet", 10)

	cart, err := carts.GetOrCreatePendingCart(user.ID)
	require.NoError(t, err)
	_, err = carts.AddItem(cart.ID, product.ID, 1)
	require.NoError(t, err)

	require.NoError(t, db.Delete(&product).Error)

	_, err = checkout.Checkout(user.ID)
	assert.ErrorIs(t, err, ErrProductNotFound)

	var orderCount int64
	require.NoError(t, db.Model(&models.Order{}).Count(&orderCount).Error)
	assert.EqualValues(t, 0, orderCount)

	var detailCount int64
	require.NoError(t, db.Model(&models.OrderDetail{}).Count(&detailCount).Error)
	assert.EqualValues(t, 0, detailCount)

	// The cart is untouched; a retry with a valid product still works.
	var current models.Cart
	require.NoError(t, db.First(&current, "id = ?", cart.ID).Error)
	assert.Equal(t, models.CartStatusPending, current.Status)
}

func TestCheckoutTwiceCreatesSeparateOrders(t *testing.T) {
	db, carts, checkout, user := newCheckoutFixture(t)
	product := createProduct(t, db, "Rose bouquet", 10)

	for i := 0; i < 2; i++ {
		cart, err := carts.GetOrCreatePendingCart(user.ID)
		require.NoError(t, err)
		_, err = carts.AddItem(cart.ID, product.ID, 1)
		require.NoError(t, err)

		_, err = checkout.Checkout(user.ID)
		require.NoError(t, err)
	}

	var orderCount int64
	require.NoError(t, db.Model(&models.Order{}).
		Where("user_id = ?", user.ID).Count(&orderCount).Error)
	assert.EqualValues(t, 2, orderCount)
}
