// Package model holds the GORM persistence models of the relational store.
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// UserModel mirrors the 'users' table. The id is generated by the application (UUIDv7).
type UserModel struct {
	ID                uuid.UUID                         `gorm:"type:uuid;primaryKey"`
	Name              string                            `gorm:"type:varchar(50);not null"`
	Email             string                            `gorm:"type:varchar(255);uniqueIndex:users_email_key;not null"`
	PasswordHash      string                            `gorm:"type:varchar(72);not null"`
	Role              string                            `gorm:"type:varchar(16);not null;default:user"`
	UserType          string                            `gorm:"type:varchar(16);not null"`
	BusinessName      string                            `gorm:"type:varchar(255)"`
	BusinessAddress   string                            `gorm:"type:text"`
	Cart              datatypes.JSONSlice[CartItemModel] `gorm:"type:jsonb;not null"`
	Wishlist          datatypes.JSONSlice[uuid.UUID]     `gorm:"type:jsonb;not null"`
	PasswordChangedAt *time.Time
	CreatedAt         time.Time `gorm:"autoCreateTime:false"`
	UpdatedAt         time.Time `gorm:"autoUpdateTime:false"`
}

// TableName explicitly sets the table name for GORM.
func (UserModel) TableName() string {
	return "users"
}

// CartItemModel is one element of users.cart.
type CartItemModel struct {
	ProductID uuid.UUID `json:"product"`
	Quantity  int       `json:"quantity"`
}
