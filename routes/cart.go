package routes

import (
	"github.com/gin-gonic/gin"

	cartControllers "github.com/junaidrashid-git/storefront-api/controllers/cart"

	"github.com/junaidrashid-git/storefront-api/config"
	"github.com/junaidrashid-git/storefront-api/logger"
	"github.com/junaidrashid-git/storefront-api/middleware"
	"github.com/junaidrashid-git/storefront-api/services"
)

// SetupCartRoutes registers the "/cart" endpoints. All of them require a
// logged-in user; the cart touched is always the caller's own.
func SetupCartRoutes(r *gin.Engine, carts *services.CartService, cfg config.Config, log *logger.Logger) {
	cartGroup := r.Group("/cart")
	cartGroup.Use(middleware.RequireAuth(cfg.JWTSecret))
	{
		cartGroup.GET("", cartControllers.GetCart(carts, log))
		cartGroup.POST("", cartControllers.AddItem(carts, log))
		cartGroup.DELETE("", cartControllers.ClearCart(carts, log))
		cartGroup.PUT("/items/:id", cartControllers.UpdateItem(carts, log))
		cartGroup.DELETE("/items/:id", cartControllers.RemoveItem(carts, log))
	}
}
