package entity

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// ProductCategory is the fixed catalog taxonomy.
type ProductCategory string

const (
	CategoryElectronics ProductCategory = "Electronics"
	CategoryFashion     ProductCategory = "Fashion"
	CategoryHome        ProductCategory = "Home"
	CategoryBooks       ProductCategory = "Books"
	CategorySports      ProductCategory = "Sports"
	CategoryOther       ProductCategory = "Other"
)

// IsValid checks if the category is part of the taxonomy.
func (c ProductCategory) IsValid() bool {
	switch c {
	case CategoryElectronics, CategoryFashion, CategoryHome, CategoryBooks, CategorySports, CategoryOther:
		return true
	default:
		return false
	}
}

// ProductStatus controls whether a product can be ordered.
type ProductStatus string

const (
	ProductStatusActive     ProductStatus = "active"
	ProductStatusInactive   ProductStatus = "inactive"
	ProductStatusOutOfStock ProductStatus = "outOfStock"
)

// IsValid checks if the status is known.
func (s ProductStatus) IsValid() bool {
	switch s {
	case ProductStatusActive, ProductStatusInactive, ProductStatusOutOfStock:
		return true
	default:
		return false
	}
}

// Product is a catalog entry owned by the seller that created it.
type Product struct {
	ID          uuid.UUID
	Name        string
	Description string
	Price       float64
	Category    ProductCategory
	Images      []ProductImage
	Stock       int
	Discount    Discount
	Status      ProductStatus
	CreatedBy   uuid.UUID
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ProductImage is an image reference shown on the product page.
type ProductImage struct {
	URL string `json:"url"`
	Alt string `json:"alt,omitempty"`
}

// Discount is a percentage off the list price, optionally bounded in time.
type Discount struct {
	Percentage float64    `json:"percentage"`
	ValidUntil *time.Time `json:"validUntil,omitempty"`
}

// DiscountedPrice returns the price after any discount still valid at now, rounded to cents.
func (p *Product) DiscountedPrice(now time.Time) float64 {
	if p.Discount.Percentage <= 0 || (p.Discount.ValidUntil != nil && p.Discount.ValidUntil.Before(now)) {
		return p.Price
	}

	return roundCents(p.Price * (1 - p.Discount.Percentage/100))
}

// OwnedBy reports whether the product was created by the given account.
func (p *Product) OwnedBy(userID uuid.UUID) bool {
	return p.CreatedBy == userID
}

// Orderable reports whether quantity units can be ordered right now.
func (p *Product) Orderable(quantity int) bool {
	return p.Status == ProductStatusActive && quantity > 0 && quantity <= p.Stock
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
