package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ProductID   string          `gorm:"primaryKey;type:varchar(36)" json:"productID"`
	ProductName string          `gorm:"not null" json:"productName"`
	StoreID     string          `gorm:"type:varchar(36);not null;index" json:"storeID"`
	Price       decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
	Category    string          `gorm:"not null" json:"category"`
	Stocks      int             `gorm:"not null;default:0" json:"stocks"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

func (Product) TableName() string { return "ms_product" }
