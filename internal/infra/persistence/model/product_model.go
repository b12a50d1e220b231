package model

import (
	"time"

	"marketplace/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ProductModel mirrors the 'products' table.
type ProductModel struct {
	ID          uuid.UUID                               `gorm:"type:uuid;primaryKey"`
	Name        string                                  `gorm:"type:varchar(100);not null"`
	Description string                                  `gorm:"type:text;not null"`
	Price       float64                                 `gorm:"type:numeric(12,2);not null"`
	Category    string                                  `gorm:"type:varchar(32);not null"`
	Images      datatypes.JSONSlice[entity.ProductImage] `gorm:"type:jsonb;not null"`
	Stock       int                                     `gorm:"not null"`
	Discount    datatypes.JSONType[entity.Discount]     `gorm:"type:jsonb;not null"`
	Status      string                                  `gorm:"type:varchar(16);not null"`
	CreatedBy   uuid.UUID                               `gorm:"type:uuid;not null;index"`
	CreatedAt   time.Time                               `gorm:"autoCreateTime:false"`
	UpdatedAt   time.Time                               `gorm:"autoUpdateTime:false"`
}

// TableName explicitly sets the table name for GORM.
func (ProductModel) TableName() string {
	return "products"
}
