package productcontroller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/junaidrashid-git/storefront-api/api"
	"github.com/junaidrashid-git/storefront-api/logger"
	"github.com/junaidrashid-git/storefront-api/services"
)

// PUT /products/:id (admin)
func UpdateProduct(products *services.ProductService, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in services.UpdateProductInput
		if err := c.ShouldBindJSON(&in); err != nil {
			api.ValidationError(c, err)
			return
		}

		product, err := products.Update(c.Request.Context(), c.Param("id"), in)
		if err != nil {
			api.Fail(c, log, err)
			return
		}
		api.OK(c, http.StatusOK, product)
	}
}
