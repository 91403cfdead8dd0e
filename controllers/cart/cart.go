package cartControllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/junaidrashid-git/storefront-api/api"
	"github.com/junaidrashid-git/storefront-api/logger"
	"github.com/junaidrashid-git/storefront-api/services"
)

// GET /cart
func GetCart(carts *services.CartService, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")

		cart, err := carts.GetCart(c.Request.Context(), userID)
		if err != nil {
			api.Fail(c, log, err)
			return
		}
		total, err := carts.CartTotal(c.Request.Context(), userID)
		if err != nil {
			api.Fail(c, log, err)
			return
		}

		api.OK(c, http.StatusOK, gin.H{"id": cart.ID, "items": cart.Items, "total": total})
	}
}

// POST /cart
func AddItem(carts *services.CartService, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in services.AddItemInput
		if err := c.ShouldBindJSON(&in); err != nil {
			api.ValidationError(c, err)
			return
		}

		item, err := carts.AddItem(c.Request.Context(), c.GetString("user_id"), in)
		if err != nil {
			api.Fail(c, log, err)
			return
		}
		api.OK(c, http.StatusCreated, item)
	}
}

// PUT /cart/items/:id
func UpdateItem(carts *services.CartService, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in services.UpdateQuantityInput
		if err := c.ShouldBindJSON(&in); err != nil {
			api.ValidationError(c, err)
			return
		}

		item, err := carts.UpdateItemQuantity(c.Request.Context(), c.GetString("user_id"), c.Param("id"), in.Quantity)
		if err != nil {
			api.Fail(c, log, err)
			return
		}
		api.OK(c, http.StatusOK, item)
	}
}

// DELETE /cart/items/:id
func RemoveItem(carts *services.CartService, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := carts.RemoveItem(c.Request.Context(), c.GetString("user_id"), c.Param("id")); err != nil {
			api.Fail(c, log, err)
			return
		}
		api.NoContent(c)
	}
}

// DELETE /cart
func ClearCart(carts *services.CartService, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := carts.ClearCart(c.Request.Context(), c.GetString("user_id")); err != nil {
			api.Fail(c, log, err)
			return
		}
		api.NoContent(c)
	}
}
