package routes

import (
	"github.com/gin-gonic/gin"

	productcontroller "github.com/junaidrashid-git/storefront-api/controllers/product"

	"github.com/junaidrashid-git/storefront-api/config"
	"github.com/junaidrashid-git/storefront-api/logger"
	"github.com/junaidrashid-git/storefront-api/middleware"
	"github.com/junaidrashid-git/storefront-api/services"
)

// SetupProductRoutes registers catalog browsing (public) and catalog
// management (admin only).
func SetupProductRoutes(r *gin.Engine, products *services.ProductService, cfg config.Config, log *logger.Logger) {
	productGroup := r.Group("/products")
	{
		productGroup.GET("", productcontroller.GetProducts(products, log))
		productGroup.GET("/:id", productcontroller.GetProductByID(products, log))
	}

	adminGroup := productGroup.Group("")
	adminGroup.Use(middleware.RequireAuth(cfg.JWTSecret), middleware.RequireAdmin())
	{
		adminGroup.POST("", productcontroller.CreateProduct(products, log))
		adminGroup.PUT("/:id", productcontroller.UpdateProduct(products, log))
		adminGroup.DELETE("/:id", productcontroller.DeleteProduct(products, log))
	}

	exportGroup := r.Group("/admin/products")
	exportGroup.Use(middleware.RequireAuth(cfg.JWTSecret), middleware.RequireAdmin())
	{
		exportGroup.GET("/export", productcontroller.ExportProductsToExcel(products, log))
	}
}
