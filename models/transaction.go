package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	TransactionPending   = false
	TransactionConfirmed = true
)

// TransactionHeader is one order scoped to a single store.
type TransactionHeader struct {
	TransactionID string              `gorm:"primaryKey;type:varchar(36)" json:"transactionID"`
	UserID        string              `gorm:"type:varchar(36);not null;index" json:"userID"`
	StoreID       string              `gorm:"type:varchar(36);not null;index" json:"storeID"`
	Status        bool                `gorm:"not null;default:false" json:"status"`
	Details       []TransactionDetail `gorm:"foreignKey:TransactionID;references:TransactionID;constraint:OnDelete:CASCADE" json:"details,omitempty"`
	CreatedAt     time.Time           `json:"createdAt"`
	UpdatedAt     time.Time           `json:"updatedAt"`
}

func (TransactionHeader) TableName() string { return "transaction_header" }

type TransactionDetail struct {
	TransactionID string `gorm:"primaryKey;type:varchar(36)" json:"transactionID"`
	ProductID     string `gorm:"primaryKey;type:varchar(36)" json:"productID"`
	Quantity      int    `gorm:"not null" json:"quantity"`
}

func (TransactionDetail) TableName() string { return "transaction_detail" }

// TransactionLine is a detail row joined with the product it references.
// ProductName and Price are empty when the product has since been deleted.
type TransactionLine struct {
	ProductID   string              `json:"productID"`
	ProductName string              `json:"productName"`
	Price       decimal.NullDecimal `json:"price"`
	Quantity    int                 `json:"quantity"`
}
