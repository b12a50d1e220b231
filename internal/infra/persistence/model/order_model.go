package model

import (
	"time"

	"marketplace/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// OrderModel mirrors the 'orders' table. Items, addresses and history are embedded as jsonb,
// matching the document layout used by the MongoDB store.
type OrderModel struct {
	ID              uuid.UUID                                    `gorm:"type:uuid;primaryKey"`
	UserID          uuid.UUID                                    `gorm:"type:uuid;not null;index"`
	Items           datatypes.JSONSlice[entity.OrderItem]         `gorm:"type:jsonb;not null"`
	TotalAmount     float64                                      `gorm:"type:numeric(12,2);not null"`
	ShippingAddress datatypes.JSONType[entity.ShippingAddress]    `gorm:"type:jsonb;not null"`
	PaymentInfo     datatypes.JSONType[entity.PaymentInfo]        `gorm:"type:jsonb;not null"`
	Status          string                                       `gorm:"type:varchar(16);not null"`
	TrackingNumber  string                                       `gorm:"type:varchar(64)"`
	Notes           string                                       `gorm:"type:text"`
	StatusHistory   datatypes.JSONSlice[entity.OrderStatusChange] `gorm:"type:jsonb;not null"`
	CreatedAt       time.Time                                    `gorm:"autoCreateTime:false"`
	UpdatedAt       time.Time                                    `gorm:"autoUpdateTime:false"`
}

// TableName explicitly sets the table name for GORM.
func (OrderModel) TableName() string {
	return "orders"
}
