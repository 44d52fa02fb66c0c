package models

import "time"

type User struct {
	UserID       string    `gorm:"primaryKey;type:varchar(36)" json:"userID"`
	Username     string    `gorm:"uniqueIndex;not null" json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

func (User) TableName() string { return "ms_user" }

// Store is owned by exactly one user.
type Store struct {
	StoreID   string    `gorm:"primaryKey;type:varchar(36)" json:"storeID"`
	UserID    string    `gorm:"type:varchar(36);uniqueIndex;not null" json:"userID"`
	StoreName string    `gorm:"not null" json:"storeName"`
	CreatedAt time.Time `json:"createdAt"`
}

func (Store) TableName() string { return "ms_store" }
