package productcontroller

import (
	"context"
	"io"

	"github.com/gin-gonic/gin"
	"github.com/tealeg/xlsx"
	"github.com/xhfmvls/c-buy/middleware"
	"github.com/xhfmvls/c-buy/models"
	"gorm.io/gorm"
)

var exportHeaders = []string{
	"ProductID", "ProductName", "Price", "Category", "Stocks", "CreatedAt", "UpdatedAt",
}

// WriteStoreProducts writes every product of storeID as an xlsx workbook.
func WriteStoreProducts(ctx context.Context, db *gorm.DB, storeID string, w io.Writer) error {
	var products []models.Product
	if err := db.WithContext(ctx).
		Where("store_id = ?", storeID).
		Order("product_name").
		Find(&products).Error; err != nil {
		return err
	}

	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Products")
	if err != nil {
		return err
	}

	headerRow := sheet.AddRow()
	for _, h := range exportHeaders {
		headerRow.AddCell().SetValue(h)
	}

	for _, p := range products {
		row := sheet.AddRow()
		row.AddCell().SetValue(p.ProductID)
		row.AddCell().SetValue(p.ProductName)
		row.AddCell().SetValue(p.Price.StringFixed(2))
		row.AddCell().SetValue(p.Category)
		row.AddCell().SetValue(p.Stocks)
		row.AddCell().SetValue(p.CreatedAt.Format("2006-01-02 15:04:05"))
		row.AddCell().SetValue(p.UpdatedAt.Format("2006-01-02 15:04:05"))
	}

	return file.Write(w)
}

// GET /product/export
func ExportProductsToExcel(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		store, err := middleware.CurrentStore(c)
		if err != nil {
			_ = c.Error(err)
			return
		}

		c.Header("Content-Disposition", "attachment; filename=products.xlsx")
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Header("Content-Transfer-Encoding", "binary")
		c.Header("Expires", "0")

		if err := WriteStoreProducts(c.Request.Context(), db, store.StoreID, c.Writer); err != nil {
			_ = c.Error(err)
			return
		}
	}
}
