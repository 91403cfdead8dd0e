package routes

import (
	"github.com/gin-gonic/gin"

	userControllers "github.com/junaidrashid-git/storefront-api/controllers/user"

	"github.com/junaidrashid-git/storefront-api/config"
	"github.com/junaidrashid-git/storefront-api/logger"
	"github.com/junaidrashid-git/storefront-api/middleware"
	"github.com/junaidrashid-git/storefront-api/services"
)

// SetupUserRoutes registers the "/users" endpoints. Fine-grained access
// (own record vs. admin) is decided by the policy inside the handlers.
func SetupUserRoutes(r *gin.Engine, users *services.UserService, carts *services.CartService, cfg config.Config, log *logger.Logger) {
	userGroup := r.Group("/users")
	userGroup.Use(middleware.RequireAuth(cfg.JWTSecret))
	{
		userGroup.GET("", userControllers.GetAllUsers(users, log))
		userGroup.POST("", userControllers.CreateUser(users, log))
		userGroup.GET("/:id", userControllers.GetUser(users, carts, log))
		userGroup.PUT("/:id", userControllers.UpdateUser(users, log))
		userGroup.DELETE("/:id", userControllers.DeleteUser(users, log))
	}
}
