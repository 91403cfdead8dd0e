package productcontroller

import (
	"github.com/gin-gonic/gin"

	"github.com/junaidrashid-git/storefront-api/api"
	"github.com/junaidrashid-git/storefront-api/logger"
	"github.com/junaidrashid-git/storefront-api/services"
)

// DELETE /products/:id (admin)
func DeleteProduct(products *services.ProductService, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := products.Delete(c.Request.Context(), c.Param("id")); err != nil {
			api.Fail(c, log, err)
			return
		}
		api.NoContent(c)
	}
}
