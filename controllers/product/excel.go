package productcontroller

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/tealeg/xlsx"
	"github.com/xhfmvls/c-buy/cache"
	"github.com/xhfmvls/c-buy/middleware"
	"github.com/xhfmvls/c-buy/models"
	"gorm.io/gorm"
)

type ImportResult struct {
	Created    int      `json:"created_count"`
	Updated    int      `json:"updated_count"`
	Skipped    int      `json:"skipped_count"`
	ProductIDs []string `json:"-"`
}

// ImportStoreProducts reads rows laid out like the export (ProductID, ProductName,
// Price, Category, Stocks). Rows with a ProductID owned by the store update it,
// rows without one create a product, anything else is skipped.
func ImportStoreProducts(ctx context.Context, db *gorm.DB, storeID string, r io.ReaderAt, size int64) (ImportResult, error) {
	var res ImportResult

	xlFile, err := xlsx.OpenReaderAt(r, size)
	if err != nil {
		return res, models.BadRequestError("Failed to parse Excel file")
	}
	if len(xlFile.Sheets) == 0 || xlFile.Sheets[0].MaxRow < 2 {
		return res, models.BadRequestError("Excel file is empty or missing header row")
	}

	sheet := xlFile.Sheets[0]
	for i := 1; i < sheet.MaxRow; i++ {
		row := sheet.Rows[i]
		if row == nil || len(row.Cells) < 5 {
			res.Skipped++
			continue
		}
		get := func(index int) string {
			return strings.TrimSpace(row.Cells[index].String())
		}

		id := get(0)
		price, priceErr := decimal.NewFromString(get(2))
		stocks, stocksErr := strconv.Atoi(get(4))
		if priceErr != nil || stocksErr != nil {
			res.Skipped++
			continue
		}

		if id == "" {
			p, err := CreateProduct(ctx, db, storeID, CreateProductInput{
				ProductName: get(1),
				Price:       &price,
				Category:    get(3),
				Stocks:      stocks,
			})
			if err != nil {
				res.Skipped++
				continue
			}
			res.Created++
			res.ProductIDs = append(res.ProductIDs, p.ProductID)
			continue
		}

		name, category := get(1), get(3)
		_, err := PatchProduct(ctx, db, storeID, PatchProductInput{
			ProductID:   id,
			ProductName: &name,
			Price:       &price,
			Category:    &category,
			Stocks:      &stocks,
		})
		if err != nil {
			var msg models.ErrMsg
			if errors.As(err, &msg) {
				res.Skipped++
				continue
			}
			return res, err
		}
		res.Updated++
		res.ProductIDs = append(res.ProductIDs, id)
	}
	return res, nil
}

// POST /product/import
func ImportProductsFromExcel(db *gorm.DB, pc cache.ProductCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		store, err := middleware.CurrentStore(c)
		if err != nil {
			_ = c.Error(err)
			return
		}

		excelFileHeader, err := c.FormFile("file")
		if err != nil {
			_ = c.Error(models.BadRequestError("Excel file is required"))
			return
		}
		file, err := excelFileHeader.Open()
		if err != nil {
			_ = c.Error(err)
			return
		}
		defer file.Close()

		res, err := ImportStoreProducts(c.Request.Context(), db, store.StoreID, file, excelFileHeader.Size)
		if err != nil {
			_ = c.Error(err)
			return
		}
		pc.Invalidate(c.Request.Context(), res.ProductIDs...)

		c.JSON(http.StatusOK, gin.H{
			"success":       true,
			"created_count": res.Created,
			"updated_count": res.Updated,
			"skipped_count": res.Skipped,
		})
	}
}
