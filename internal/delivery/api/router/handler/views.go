package handler

import (
	"time"

	"marketplace/internal/domain/entity"

	"github.com/google/uuid"
)

// ProductView is the response shape of a catalog entry.
type ProductView struct {
	ID              uuid.UUID              `json:"id"`
	Name            string                 `json:"name"`
	Description     string                 `json:"description"`
	Price           float64                `json:"price"`
	DiscountedPrice float64                `json:"discountedPrice"`
	Category        entity.ProductCategory `json:"category"`
	Images          []entity.ProductImage  `json:"images"`
	Stock           int                    `json:"stock"`
	Discount        entity.Discount        `json:"discount"`
	Status          entity.ProductStatus   `json:"status"`
	CreatedBy       uuid.UUID              `json:"createdBy"`
	CreatedAt       time.Time              `json:"createdAt"`
	UpdatedAt       time.Time              `json:"updatedAt"`
}

// OrderView is the response shape of an order.
type OrderView struct {
	ID              uuid.UUID                  `json:"id"`
	UserID          uuid.UUID                  `json:"userId"`
	Items           []entity.OrderItem         `json:"items"`
	TotalAmount     float64                    `json:"totalAmount"`
	ShippingAddress entity.ShippingAddress     `json:"shippingAddress"`
	PaymentInfo     entity.PaymentInfo         `json:"paymentInfo"`
	Status          entity.OrderStatus         `json:"status"`
	TrackingNumber  string                     `json:"trackingNumber,omitempty"`
	Notes           string                     `json:"notes,omitempty"`
	StatusHistory   []entity.OrderStatusChange `json:"statusHistory"`
	CreatedAt       time.Time                  `json:"createdAt"`
	UpdatedAt       time.Time                  `json:"updatedAt"`
}

func newProductView(p *entity.Product, now time.Time) ProductView {
	images := p.Images
	if images == nil {
		images = []entity.ProductImage{}
	}

	return ProductView{
		ID:              p.ID,
		Name:            p.Name,
		Description:     p.Description,
		Price:           p.Price,
		DiscountedPrice: p.DiscountedPrice(now),
		Category:        p.Category,
		Images:          images,
		Stock:           p.Stock,
		Discount:        p.Discount,
		Status:          p.Status,
		CreatedBy:       p.CreatedBy,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}

func newProductViews(products []*entity.Product, now time.Time) []ProductView {
	views := make([]ProductView, 0, len(products))
	for _, p := range products {
		views = append(views, newProductView(p, now))
	}

	return views
}

func newOrderView(o *entity.Order) OrderView {
	items := o.Items
	if items == nil {
		items = []entity.OrderItem{}
	}
	history := o.StatusHistory
	if history == nil {
		history = []entity.OrderStatusChange{}
	}

	return OrderView{
		ID:              o.ID,
		UserID:          o.UserID,
		Items:           items,
		TotalAmount:     o.TotalAmount,
		ShippingAddress: o.ShippingAddress,
		PaymentInfo:     o.PaymentInfo,
		Status:          o.Status,
		TrackingNumber:  o.TrackingNumber,
		Notes:           o.Notes,
		StatusHistory:   history,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
}

func newOrderViews(orders []*entity.Order) []OrderView {
	views := make([]OrderView, 0, len(orders))
	for _, o := range orders {
		views = append(views, newOrderView(o))
	}

	return views
}
