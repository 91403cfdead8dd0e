package services

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/junaidrashid-git/storefront-api/apierr"
	"github.com/junaidrashid-git/storefront-api/models"
)

func TestAddItemAggregatesQuantity(t *testing.T) {
	db := newTestDB(t)
	svc := NewCartService(db, testLogger())
	user := seedUserWithCart(t, db, "shopper@example.com", models.RoleUser)
	product := seedProduct(t, db, "Blue Shirt", 19.99, "", time.Now())

	first, err := svc.AddItem(context.Background(), user.ID, AddItemInput{ProductID: product.ID, Quantity: 2})
	require.NoError(t, err)
	assert.Equal(t, 2, first.Quantity)

	second, err := svc.AddItem(context.Background(), user.ID, AddItemInput{ProductID: product.ID, Quantity: 3})
	require.NoError(t, err)
	assert.Equal(t, 5, second.Quantity)
	assert.Equal(t, first.ID, second.ID)

	var count int64
	require.NoError(t, db.Model(&models.CartItem{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestAddItemMissingProduct(t *testing.T) {
	db := newTestDB(t)
	svc := NewCartService(db, testLogger())
	user := seedUserWithCart(t, db, "shopper@example.com", models.RoleUser)

	_, err := svc.AddItem(context.Background(), user.ID, AddItemInput{ProductID: "nope", Quantity: 1})
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, apierr.Status(err))
}

func TestAddItemMissingCart(t *testing.T) {
	db := newTestDB(t)
	svc := NewCartService(db, testLogger())
	product := seedProduct(t, db, "Blue Shirt", 19.99, "", time.Now())

	_, err := svc.AddItem(context.Background(), "no-such-user", AddItemInput{ProductID: product.ID, Quantity: 1})
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, apierr.Status(err))
}

func TestGetCartExpandsProducts(t *testing.T) {
	db := newTestDB(t)
	svc := NewCartService(db, testLogger())
	user := seedUserWithCart(t, db, "shopper@example.com", models.RoleUser)
	product := seedProduct(t, db, "Blue Shirt", 19.99, "", time.Now())

	_, err := svc.AddItem(context.Background(), user.ID, AddItemInput{ProductID: product.ID, Quantity: 2})
	require.NoError(t, err)

	cart, err := svc.GetCart(context.Background(), user.ID)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, "Blue Shirt", cart.Items[0].Product.Name)
	assert.Equal(t, 19.99, cart.Items[0].Product.Price)
	assert.NotEmpty(t, cart.Items[0].Product.Images)
}

func TestUpdateItemQuantityChecksOwnership(t *testing.T) {
	db := newTestDB(t)
	svc := NewCartService(db, testLogger())
	owner := seedUserWithCart(t, db, "owner@example.com", models.RoleUser)
	other := seedUserWithCart(t, db, "other@example.com", models.RoleUser)
	product := seedProduct(t, db, "Blue Shirt", 19.99, "", time.Now())

	item, err := svc.AddItem(context.Background(), owner.ID, AddItemInput{ProductID: product.ID, Quantity: 1})
	require.NoError(t, err)

	_, err = svc.UpdateItemQuantity(context.Background(), other.ID, item.ID, 4)
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, apierr.Status(err))

	updated, err := svc.UpdateItemQuantity(context.Background(), owner.ID, item.ID, 4)
	require.NoError(t, err)
	assert.Equal(t, 4, updated.Quantity)
}

func TestRemoveItem(t *testing.T) {
	db := newTestDB(t)
	svc := NewCartService(db, testLogger())
	user := seedUserWithCart(t, db, "shopper@example.com", models.RoleUser)
	product := seedProduct(t, db, "Blue Shirt", 19.99, "", time.Now())

	item, err := svc.AddItem(context.Background(), user.ID, AddItemInput{ProductID: product.ID, Quantity: 1})
	require.NoError(t, err)

	require.NoError(t, svc.RemoveItem(context.Background(), user.ID, item.ID))

	err = svc.RemoveItem(context.Background(), user.ID, item.ID)
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, apierr.Status(err))
}

func TestClearCart(t *testing.T) {
	db := newTestDB(t)
	svc := NewCartService(db, testLogger())
	user := seedUserWithCart(t, db, "shopper@example.com", models.RoleUser)
	first := seedProduct(t, db, "Blue Shirt", 19.99, "", time.Now())
	second := seedProduct(t, db, "Red Hoodie", 39.99, "", time.Now())

	_, err := svc.AddItem(context.Background(), user.ID, AddItemInput{ProductID: first.ID, Quantity: 1})
	require.NoError(t, err)
	_, err = svc.AddItem(context.Background(), user.ID, AddItemInput{ProductID: second.ID, Quantity: 2})
	require.NoError(t, err)

	require.NoError(t, svc.ClearCart(context.Background(), user.ID))

	cart, err := svc.GetCart(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
}

func TestCartTotalTracksCurrentPrice(t *testing.T) {
	db := newTestDB(t)
	svc := NewCartService(db, testLogger())
	user := seedUserWithCart(t, db, "shopper@example.com", models.RoleUser)
	shirt := seedProduct(t, db, "Blue Shirt", 10, "", time.Now())
	hoodie := seedProduct(t, db, "Red Hoodie", 25, "", time.Now())

	_, err := svc.AddItem(context.Background(), user.ID, AddItemInput{ProductID: shirt.ID, Quantity: 3})
	require.NoError(t, err)
	_, err = svc.AddItem(context.Background(), user.ID, AddItemInput{ProductID: hoodie.ID, Quantity: 1})
	require.NoError(t, err)

	total, err := svc.CartTotal(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, 55.0, total)

	// A price change shows up in future totals without touching the cart rows.
	require.NoError(t, db.Model(&models.Product{}).Where("id = ?", shirt.ID).Update("price", 12).Error)

	total, err = svc.CartTotal(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, 61.0, total)

	var item models.CartItem
	require.NoError(t, db.First(&item, "product_id = ?", shirt.ID).Error)
	assert.Equal(t, 3, item.Quantity)
}

func TestCartTotalMissingCart(t *testing.T) {
	db := newTestDB(t)
	svc := NewCartService(db, testLogger())

	_, err := svc.CartTotal(context.Background(), "no-such-user")
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, apierr.Status(err))
}
