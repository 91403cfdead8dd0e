package productcontroller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/junaidrashid-git/storefront-api/api"
	"github.com/junaidrashid-git/storefront-api/logger"
	"github.com/junaidrashid-git/storefront-api/services"
)

// GET /products
func GetProducts(products *services.ProductService, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var q services.ProductQuery
		if err := c.ShouldBindQuery(&q); err != nil {
			api.ValidationError(c, err)
			return
		}

		items, pagination, err := products.FindMany(c.Request.Context(), q)
		if err != nil {
			api.Fail(c, log, err)
			return
		}
		api.Paginated(c, items, pagination)
	}
}

// GET /products/:id
func GetProductByID(products *services.ProductService, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		product, err := products.FindByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			api.Fail(c, log, err)
			return
		}
		api.OK(c, http.StatusOK, product)
	}
}
