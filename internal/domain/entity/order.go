package entity

import (
	"time"

	"github.com/google/uuid"
)

// OrderStatus is the fulfilment state of an order.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// IsValid checks if the status is known.
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	default:
		return false
	}
}

// PaymentMethod is how the buyer pays.
type PaymentMethod string

const (
	PaymentCreditCard PaymentMethod = "credit_card"
	PaymentDebitCard  PaymentMethod = "debit_card"
	PaymentPayPal     PaymentMethod = "paypal"
	PaymentOther      PaymentMethod = "other"
)

// IsValid checks if the method is known.
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentCreditCard, PaymentDebitCard, PaymentPayPal, PaymentOther:
		return true
	default:
		return false
	}
}

// PaymentStatus is the state of the payment attached to an order.
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusRefunded  PaymentStatus = "refunded"
)

// Order is a buyer's purchase of one or more products.
type Order struct {
	ID              uuid.UUID
	UserID          uuid.UUID
	Items           []OrderItem
	TotalAmount     float64
	ShippingAddress ShippingAddress
	PaymentInfo     PaymentInfo
	Status          OrderStatus
	TrackingNumber  string
	Notes           string
	StatusHistory   []OrderStatusChange
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// OrderItem captures the unit price at the time the order was placed.
type OrderItem struct {
	ProductID uuid.UUID `json:"product"`
	Quantity  int       `json:"quantity"`
	Price     float64   `json:"price"`
}

// ShippingAddress is where the order is delivered.
type ShippingAddress struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	Country string `json:"country"`
	ZipCode string `json:"zipCode"`
}

// PaymentInfo describes the order payment.
type PaymentInfo struct {
	Method        PaymentMethod `json:"method"`
	Status        PaymentStatus `json:"status"`
	TransactionID string        `json:"transactionId,omitempty"`
}

// OrderStatusChange is one entry of the status audit trail.
type OrderStatusChange struct {
	Status    OrderStatus `json:"status"`
	Timestamp time.Time   `json:"timestamp"`
	Note      string      `json:"note,omitempty"`
}

// RecalculateTotal sets TotalAmount to the sum of price times quantity over all items.
func (o *Order) RecalculateTotal() {
	var total float64
	for _, item := range o.Items {
		total += item.Price * float64(item.Quantity)
	}
	o.TotalAmount = roundCents(total)
}

// UpdateStatus moves the order to status and appends the change to the history.
func (o *Order) UpdateStatus(status OrderStatus, note string, now time.Time) {
	o.Status = status
	o.StatusHistory = append(o.StatusHistory, OrderStatusChange{
		Status:    status,
		Timestamp: now.UTC(),
		Note:      note,
	})
}

// VisibleTo reports whether the identity may read the order: its buyer or an admin.
func (o *Order) VisibleTo(identity *Identity) bool {
	if identity == nil {
		return false
	}

	return o.UserID == identity.ID || Authorize(identity, RoleAdmin)
}
