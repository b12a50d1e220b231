package mongodb

import (
	"time"

	"marketplace/internal/domain/entity"

	"github.com/google/uuid"
)

// Ids are stored as canonical UUID strings so documents stay readable in the shell.

type userDocument struct {
	ID                string         `bson:"_id"`
	Name              string         `bson:"name"`
	Email             string         `bson:"email"`
	PasswordHash      string         `bson:"passwordHash"`
	Role              string         `bson:"role"`
	UserType          string         `bson:"userType"`
	BusinessName      string         `bson:"businessName,omitempty"`
	BusinessAddress   string         `bson:"businessAddress,omitempty"`
	Cart              []cartDocument `bson:"cart"`
	Wishlist          []string       `bson:"wishlist"`
	PasswordChangedAt *time.Time     `bson:"passwordChangedAt,omitempty"`
	CreatedAt         time.Time      `bson:"createdAt"`
	UpdatedAt         time.Time      `bson:"updatedAt"`
}

type cartDocument struct {
	Product  string `bson:"product"`
	Quantity int    `bson:"quantity"`
}

type productDocument struct {
	ID          string          `bson:"_id"`
	Name        string          `bson:"name"`
	Description string          `bson:"description"`
	Price       float64         `bson:"price"`
	Category    string          `bson:"category"`
	Images      []imageDocument `bson:"images"`
	Stock       int             `bson:"stock"`
	Discount    discountDoc     `bson:"discount"`
	Status      string          `bson:"status"`
	CreatedBy   string          `bson:"createdBy"`
	CreatedAt   time.Time       `bson:"createdAt"`
	UpdatedAt   time.Time       `bson:"updatedAt"`
}

type imageDocument struct {
	URL string `bson:"url"`
	Alt string `bson:"alt,omitempty"`
}

type discountDoc struct {
	Percentage float64    `bson:"percentage"`
	ValidUntil *time.Time `bson:"validUntil,omitempty"`
}

type orderDocument struct {
	ID              string                 `bson:"_id"`
	UserID          string                 `bson:"userId"`
	Items           []orderItemDocument    `bson:"items"`
	TotalAmount     float64                `bson:"totalAmount"`
	ShippingAddress shippingDocument       `bson:"shippingAddress"`
	PaymentInfo     paymentDocument        `bson:"paymentInfo"`
	Status          string                 `bson:"status"`
	TrackingNumber  string                 `bson:"trackingNumber,omitempty"`
	Notes           string                 `bson:"notes,omitempty"`
	StatusHistory   []statusChangeDocument `bson:"statusHistory"`
	CreatedAt       time.Time              `bson:"createdAt"`
	UpdatedAt       time.Time              `bson:"updatedAt"`
}

type orderItemDocument struct {
	Product  string  `bson:"product"`
	Quantity int     `bson:"quantity"`
	Price    float64 `bson:"price"`
}

type shippingDocument struct {
	Street  string `bson:"street"`
	City    string `bson:"city"`
	State   string `bson:"state"`
	Country string `bson:"country"`
	ZipCode string `bson:"zipCode"`
}

type paymentDocument struct {
	Method        string `bson:"method"`
	Status        string `bson:"status"`
	TransactionID string `bson:"transactionId,omitempty"`
}

type statusChangeDocument struct {
	Status    string    `bson:"status"`
	Timestamp time.Time `bson:"timestamp"`
	Note      string    `bson:"note,omitempty"`
}

// parseID turns a stored id back into a UUID. Documents written by this service
// always hold valid ids, so a corrupt value maps to uuid.Nil.
func parseID(raw string) uuid.UUID {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil
	}

	return id
}

func toUserDocument(u *entity.User) *userDocument {
	cart := make([]cartDocument, 0, len(u.Cart))
	for _, item := range u.Cart {
		cart = append(cart, cartDocument{Product: item.ProductID.String(), Quantity: item.Quantity})
	}
	wishlist := make([]string, 0, len(u.Wishlist))
	for _, id := range u.Wishlist {
		wishlist = append(wishlist, id.String())
	}

	return &userDocument{
		ID:                u.ID.String(),
		Name:              u.Name,
		Email:             u.Email,
		PasswordHash:      u.PasswordHash,
		Role:              u.Role.String(),
		UserType:          u.UserType.String(),
		BusinessName:      u.BusinessName,
		BusinessAddress:   u.BusinessAddress,
		Cart:              cart,
		Wishlist:          wishlist,
		PasswordChangedAt: u.PasswordChangedAt,
		CreatedAt:         u.CreatedAt,
		UpdatedAt:         u.UpdatedAt,
	}
}

func (d *userDocument) toEntity() *entity.User {
	cart := make([]entity.CartItem, 0, len(d.Cart))
	for _, item := range d.Cart {
		cart = append(cart, entity.CartItem{ProductID: parseID(item.Product), Quantity: item.Quantity})
	}
	wishlist := make([]uuid.UUID, 0, len(d.Wishlist))
	for _, raw := range d.Wishlist {
		wishlist = append(wishlist, parseID(raw))
	}

	var changedAt *time.Time
	if d.PasswordChangedAt != nil {
		t := d.PasswordChangedAt.UTC()
		changedAt = &t
	}

	return &entity.User{
		ID:                parseID(d.ID),
		Name:              d.Name,
		Email:             d.Email,
		PasswordHash:      d.PasswordHash,
		Role:              entity.Role(d.Role),
		UserType:          entity.UserType(d.UserType),
		BusinessName:      d.BusinessName,
		BusinessAddress:   d.BusinessAddress,
		Cart:              cart,
		Wishlist:          wishlist,
		PasswordChangedAt: changedAt,
		CreatedAt:         d.CreatedAt.UTC(),
		UpdatedAt:         d.UpdatedAt.UTC(),
	}
}

func toProductDocument(p *entity.Product) *productDocument {
	images := make([]imageDocument, 0, len(p.Images))
	for _, img := range p.Images {
		images = append(images, imageDocument{URL: img.URL, Alt: img.Alt})
	}

	return &productDocument{
		ID:          p.ID.String(),
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Category:    string(p.Category),
		Images:      images,
		Stock:       p.Stock,
		Discount:    discountDoc{Percentage: p.Discount.Percentage, ValidUntil: p.Discount.ValidUntil},
		Status:      string(p.Status),
		CreatedBy:   p.CreatedBy.String(),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func (d *productDocument) toEntity() *entity.Product {
	images := make([]entity.ProductImage, 0, len(d.Images))
	for _, img := range d.Images {
		images = append(images, entity.ProductImage{URL: img.URL, Alt: img.Alt})
	}

	return &entity.Product{
		ID:          parseID(d.ID),
		Name:        d.Name,
		Description: d.Description,
		Price:       d.Price,
		Category:    entity.ProductCategory(d.Category),
		Images:      images,
		Stock:       d.Stock,
		Discount:    entity.Discount{Percentage: d.Discount.Percentage, ValidUntil: d.Discount.ValidUntil},
		Status:      entity.ProductStatus(d.Status),
		CreatedBy:   parseID(d.CreatedBy),
		CreatedAt:   d.CreatedAt.UTC(),
		UpdatedAt:   d.UpdatedAt.UTC(),
	}
}

func toOrderDocument(o *entity.Order) *orderDocument {
	items := make([]orderItemDocument, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, orderItemDocument{Product: item.ProductID.String(), Quantity: item.Quantity, Price: item.Price})
	}
	history := make([]statusChangeDocument, 0, len(o.StatusHistory))
	for _, change := range o.StatusHistory {
		history = append(history, statusChangeDocument{Status: string(change.Status), Timestamp: change.Timestamp, Note: change.Note})
	}

	return &orderDocument{
		ID:          o.ID.String(),
		UserID:      o.UserID.String(),
		Items:       items,
		TotalAmount: o.TotalAmount,
		ShippingAddress: shippingDocument{
			Street:  o.ShippingAddress.Street,
			City:    o.ShippingAddress.City,
			State:   o.ShippingAddress.State,
			Country: o.ShippingAddress.Country,
			ZipCode: o.ShippingAddress.ZipCode,
		},
		PaymentInfo: paymentDocument{
			Method:        string(o.PaymentInfo.Method),
			Status:        string(o.PaymentInfo.Status),
			TransactionID: o.PaymentInfo.TransactionID,
		},
		Status:         string(o.Status),
		TrackingNumber: o.TrackingNumber,
		Notes:          o.Notes,
		StatusHistory:  history,
		CreatedAt:      o.CreatedAt,
		UpdatedAt:      o.UpdatedAt,
	}
}

func (d *orderDocument) toEntity() *entity.Order {
	items := make([]entity.OrderItem, 0, len(d.Items))
	for _, item := range d.Items {
		items = append(items, entity.OrderItem{ProductID: parseID(item.Product), Quantity: item.Quantity, Price: item.Price})
	}
	history := make([]entity.OrderStatusChange, 0, len(d.StatusHistory))
	for _, change := range d.StatusHistory {
		history = append(history, entity.OrderStatusChange{
			Status:    entity.OrderStatus(change.Status),
			Timestamp: change.Timestamp.UTC(),
			Note:      change.Note,
		})
	}

	return &entity.Order{
		ID:          parseID(d.ID),
		UserID:      parseID(d.UserID),
		Items:       items,
		TotalAmount: d.TotalAmount,
		ShippingAddress: entity.ShippingAddress{
			Street:  d.ShippingAddress.Street,
			City:    d.ShippingAddress.City,
			State:   d.ShippingAddress.State,
			Country: d.ShippingAddress.Country,
			ZipCode: d.ShippingAddress.ZipCode,
		},
		PaymentInfo: entity.PaymentInfo{
			Method:        entity.PaymentMethod(d.PaymentInfo.Method),
			Status:        entity.PaymentStatus(d.PaymentInfo.Status),
			TransactionID: d.PaymentInfo.TransactionID,
		},
		Status:         entity.OrderStatus(d.Status),
		TrackingNumber: d.TrackingNumber,
		Notes:          d.Notes,
		StatusHistory:  history,
		CreatedAt:      d.CreatedAt.UTC(),
		UpdatedAt:      d.UpdatedAt.UTC(),
	}
}
