package productcontroller

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/tealeg/xlsx"

	"github.com/junaidrashid-git/storefront-api/api"
	"github.com/junaidrashid-git/storefront-api/apierr"
	"github.com/junaidrashid-git/storefront-api/logger"
	"github.com/junaidrashid-git/storefront-api/services"
)

// GET /admin/products/export (admin)
func ExportProductsToExcel(products *services.ProductService, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := products.All(c.Request.Context())
		if err != nil {
			api.Fail(c, log, err)
			return
		}

		file := xlsx.NewFile()
		sheet, err := file.AddSheet("Products")
		if err != nil {
			api.Fail(c, log, apierr.Internal(err))
			return
		}

		headerRow := sheet.AddRow()
		for _, h := range []string{"ID", "Name", "Price", "Description", "Images", "CreatedAt", "UpdatedAt"} {
			headerRow.AddCell().SetValue(h)
		}

		for _, p := range items {
			row := sheet.AddRow()
			row.AddCell().SetValue(p.ID)
			row.AddCell().SetValue(p.Name)
			row.AddCell().SetValue(p.Price)
			row.AddCell().SetValue(p.Description)
			row.AddCell().SetValue(strings.Join(p.Images, ","))
			row.AddCell().SetValue(p.CreatedAt.Format("2006-01-02 15:04:05"))
			row.AddCell().SetValue(p.UpdatedAt.Format("2006-01-02 15:04:05"))
		}

		c.Header("Content-Disposition", `attachment; filename="products.xlsx"`)
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		if err := file.Write(c.Writer); err != nil {
			log.Error("excel export failed", "error", err)
			c.Status(http.StatusInternalServerError)
		}
	}
}
