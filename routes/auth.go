package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/junaidrashid-git/storefront-api/auth"
	"github.com/junaidrashid-git/storefront-api/config"
	"github.com/junaidrashid-git/storefront-api/logger"
	"github.com/junaidrashid-git/storefront-api/services"
)

// SetupAuthRoutes registers the public "/auth/*" endpoints.
func SetupAuthRoutes(r *gin.Engine, users *services.UserService, cfg config.Config, log *logger.Logger) {
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/register", auth.Register(users, cfg, log))
		authGroup.POST("/login", auth.Login(users, cfg, log))
	}
}
