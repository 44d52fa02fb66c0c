package transactionControllers

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/xhfmvls/c-buy/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var errCartChanged = models.BadRequestError("Cart changed while creating transaction")

type CreateResult struct {
	TransactionIDs []string
	Headers        []models.TransactionHeader
}

type Confirmation struct {
	Header  models.TransactionHeader
	Details []models.TransactionDetail
}

// CreateTransaction moves the user's cart into one pending header per store.
// Either every header, detail and cart deletion commits, or none does.
func CreateTransaction(ctx context.Context, db *gorm.DB, userID string) (*CreateResult, error) {
	if userID == "" {
		return nil, models.AuthenticationError("No User Privilege")
	}

	res := &CreateResult{}
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var storeIDs []string
		if err := tx.Table("cart").
			Joins("JOIN ms_product ON ms_product.product_id = cart.product_id").
			Where("cart.user_id = ?", userID).
			Group("ms_product.store_id").
			Order("ms_product.store_id").
			Pluck("ms_product.store_id", &storeIDs).Error; err != nil {
			return err
		}
		if len(storeIDs) == 0 {
			return models.NotFoundError("No Product(s) in Cart")
		}

		for _, storeID := range storeIDs {
			header, err := createStoreTransaction(tx, userID, storeID)
			if err != nil {
				return err
			}
			res.TransactionIDs = append(res.TransactionIDs, header.TransactionID)
			res.Headers = append(res.Headers, header)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func createStoreTransaction(tx *gorm.DB, userID, storeID string) (models.TransactionHeader, error) {
	header := models.TransactionHeader{
		TransactionID: uuid.NewString(),
		UserID:        userID,
		StoreID:       storeID,
		Status:        models.TransactionPending,
	}
	if err := tx.Create(&header).Error; err != nil {
		return header, fmt.Errorf("insert header for store %s: %w", storeID, err)
	}

	var lines []models.Cart
	if err := tx.Table("cart").
		Select("cart.user_id, cart.product_id, cart.quantity").
		Joins("JOIN ms_product ON ms_product.product_id = cart.product_id").
		Where("cart.user_id = ? AND ms_product.store_id = ?", userID, storeID).
		Order("cart.product_id").
		Scan(&lines).Error; err != nil {
		return header, err
	}
	// Another request emptied this store's lines after they were grouped.
	if len(lines) == 0 {
		return header, errCartChanged
	}

	details := make([]models.TransactionDetail, 0, len(lines))
	for _, line := range lines {
		details = append(details, models.TransactionDetail{
			TransactionID: header.TransactionID,
			ProductID:     line.ProductID,
			Quantity:      line.Quantity,
		})
	}
	if err := tx.Create(&details).Error; err != nil {
		return header, fmt.Errorf("insert details for %s: %w", header.TransactionID, err)
	}

	for _, line := range lines {
		result := tx.Where("user_id = ? AND product_id = ?", userID, line.ProductID).Delete(&models.Cart{})
		if result.Error != nil {
			return header, result.Error
		}
		// Another request already converted this line.
		if result.RowsAffected != 1 {
			return header, errCartChanged
		}
	}

	header.Details = details
	return header, nil
}

// ConfirmTransaction marks a pending transaction confirmed and takes its
// quantities out of stock. Any failure leaves the header pending and every stock
// untouched.
func ConfirmTransaction(ctx context.Context, db *gorm.DB, userID, transactionID string) (*Confirmation, error) {
	if userID == "" || transactionID == "" {
		return nil, models.NotFoundError("No Transaction in Request")
	}

	var out Confirmation
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var header models.TransactionHeader
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&header, "transaction_id = ?", transactionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NotFoundError("No Transaction Found")
			}
			return err
		}
		if header.UserID != userID {
			return models.NotFoundError("No Transaction Found")
		}
		if header.Status == models.TransactionConfirmed {
			return models.BadRequestError("Transaction already confirmed")
		}

		result := tx.Model(&models.TransactionHeader{}).
			Where("transaction_id = ? AND status = ?", transactionID, models.TransactionPending).
			Update("status", models.TransactionConfirmed)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return models.BadRequestError("Transaction already confirmed")
		}

		// Product order keeps row locks acquired in the same sequence across confirms.
		var details []models.TransactionDetail
		if err := tx.Where("transaction_id = ?", transactionID).
			Order("product_id").
			Find(&details).Error; err != nil {
			return err
		}

		for _, d := range details {
			if err := decrementStock(tx, d); err != nil {
				return err
			}
		}

		header.Status = models.TransactionConfirmed
		out = Confirmation{Header: header, Details: details}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// decrementStock never lets stocks drop below zero.
func decrementStock(tx *gorm.DB, d models.TransactionDetail) error {
	result := tx.Model(&models.Product{}).
		Where("product_id = ? AND stocks >= ?", d.ProductID, d.Quantity).
		Update("stocks", gorm.Expr("stocks - ?", d.Quantity))
	if result.Error != nil {
		return fmt.Errorf("decrement stock of %s: %w", d.ProductID, result.Error)
	}
	if result.RowsAffected == 1 {
		return nil
	}

	var product models.Product
	if err := tx.Select("product_id", "stocks").First(&product, "product_id = ?", d.ProductID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NotFoundError(fmt.Sprintf("Product %s no longer exists", d.ProductID))
		}
		return err
	}
	return models.BadRequestError(fmt.Sprintf(
		"Insufficient stock for product %s: %d requested, %d available",
		d.ProductID, d.Quantity, product.Stocks,
	))
}

func ListTransactions(ctx context.Context, db *gorm.DB, userID string) ([]models.TransactionHeader, error) {
	headers := []models.TransactionHeader{}
	err := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("transaction_id").
		Find(&headers).Error
	return headers, err
}

// GetTransaction returns the header and its lines. A transaction owned by
// someone else is reported as not found.
func GetTransaction(ctx context.Context, db *gorm.DB, userID, transactionID string) (*models.TransactionHeader, []models.TransactionLine, error) {
	if transactionID == "" {
		return nil, nil, models.BadRequestError("TransactionID not inserted")
	}

	db = db.WithContext(ctx)
	var header models.TransactionHeader
	if err := db.First(&header, "transaction_id = ?", transactionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, models.NotFoundError("No Transaction Found")
		}
		return nil, nil, err
	}
	if header.UserID != userID {
		return nil, nil, models.NotFoundError("No Transaction Found")
	}

	lines := []models.TransactionLine{}
	if err := db.Table("transaction_detail").
		Select("transaction_detail.product_id, COALESCE(ms_product.product_name, '') AS product_name, ms_product.price, transaction_detail.quantity").
		Joins("LEFT JOIN ms_product ON ms_product.product_id = transaction_detail.product_id").
		Where("transaction_detail.transaction_id = ?", transactionID).
		Order("transaction_detail.product_id").
		Scan(&lines).Error; err != nil {
		return nil, nil, err
	}
	return &header, lines, nil
}
