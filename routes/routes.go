package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/junaidrashid-git/storefront-api/config"
	"github.com/junaidrashid-git/storefront-api/logger"
	"github.com/junaidrashid-git/storefront-api/services"
)

// SetupRoutes constructs the service objects once and wires every route group
// against them.
func SetupRoutes(r *gin.Engine, db *gorm.DB, cfg config.Config, log *logger.Logger) {
	products := services.NewProductService(db, log)
	carts := services.NewCartService(db, log)
	users := services.NewUserService(db, log)

	SetupAuthRoutes(r, users, cfg, log)
	SetupProductRoutes(r, products, cfg, log)
	SetupCartRoutes(r, carts, cfg, log)
	SetupUserRoutes(r, users, carts, cfg, log)

	r.GET("/healthz", healthHandler(db))
}

func healthHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
