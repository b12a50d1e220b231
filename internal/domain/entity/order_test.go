package entity

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrder_RecalculateTotal(t *testing.T) {
	order := &Order{Items: []OrderItem{
		{ProductID: uuid.New(), Quantity: 2, Price: 10.25},
		{ProductID: uuid.New(), Quantity: 1, Price: 0.1},
	}}

	order.RecalculateTotal()

	assert.InDelta(t, 20.6, order.TotalAmount, 1e-9)
}

func TestOrder_UpdateStatusAppendsHistory(t *testing.T) {
	now := time.Now()
	order := &Order{Status: OrderStatusPending}

	order.UpdateStatus(OrderStatusShipped, "tracking 123", now)

	assert.Equal(t, OrderStatusShipped, order.Status)
	require.Len(t, order.StatusHistory, 1)
	assert.Equal(t, "tracking 123", order.StatusHistory[0].Note)
}

func TestOrder_VisibleTo(t *testing.T) {
	owner := &Identity{ID: uuid.New(), Role: RoleUser}
	other := &Identity{ID: uuid.New(), Role: RoleUser}
	admin := &Identity{ID: uuid.New(), Role: RoleAdmin}
	order := &Order{UserID: owner.ID}

	assert.True(t, order.VisibleTo(owner))
	assert.True(t, order.VisibleTo(admin))
	assert.False(t, order.VisibleTo(other))
	assert.False(t, order.VisibleTo(nil))
}

func TestProduct_DiscountedPrice(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	tests := []struct {
		name     string
		discount Discount
		want     float64
	}{
		{name: "no discount", discount: Discount{}, want: 100},
		{name: "open ended", discount: Discount{Percentage: 15}, want: 85},
		{name: "still valid", discount: Discount{Percentage: 10, ValidUntil: &future}, want: 90},
		{name: "expired", discount: Discount{Percentage: 10, ValidUntil: &past}, want: 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &Product{Price: 100, Discount: tt.discount}
			assert.InDelta(t, tt.want, p.DiscountedPrice(now), 1e-9)
		})
	}
}

func TestProduct_Orderable(t *testing.T) {
	p := &Product{Status: ProductStatusActive, Stock: 3}

	assert.True(t, p.Orderable(3))
	assert.False(t, p.Orderable(4))
	assert.False(t, p.Orderable(0))

	p.Status = ProductStatusInactive
	assert.False(t, p.Orderable(1))
}
