package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Cart is one line of a user's cart, identified by (UserID, ProductID).
type Cart struct {
	UserID    string    `gorm:"primaryKey;type:varchar(36)" json:"userID"`
	ProductID string    `gorm:"primaryKey;type:varchar(36)" json:"productID"`
	Quantity  int       `gorm:"not null" json:"quantity"`
	AddedAt   time.Time `json:"addedAt"`
}

func (Cart) TableName() string { return "cart" }

// CartLine is a cart row joined with its product.
type CartLine struct {
	ProductID   string          `json:"productID"`
	ProductName string          `json:"productName"`
	StoreID     string          `json:"storeID"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
}
