package handler

import (
	"strings"

	"marketplace/internal/delivery/api/response"
	"marketplace/internal/domain/entity"
	"marketplace/internal/errors"
	"marketplace/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// OrderHandlerParams holds dependencies for OrderHandler, injected by Fx.
type OrderHandlerParams struct {
	fx.In

	OrderUC usecase.OrderUsecase
}

// OrderHandler serves order placement and tracking.
type OrderHandler struct {
	orderUC usecase.OrderUsecase
}

// NewOrderHandler is the constructor for OrderHandler
func NewOrderHandler(params OrderHandlerParams) *OrderHandler {
	return &OrderHandler{orderUC: params.OrderUC}
}

// OrderItemRequest is one requested line of an order.
type OrderItemRequest struct {
	Product  string `json:"product" validate:"required,uuid"`
	Quantity int    `json:"quantity" validate:"required,gte=1"`
}

// ShippingAddressRequest is the delivery address of an order.
type ShippingAddressRequest struct {
	Street  string `json:"street" validate:"required,max=200"`
	City    string `json:"city" validate:"required,max=100"`
	State   string `json:"state" validate:"required,max=100"`
	Country string `json:"country" validate:"required,max=100"`
	ZipCode string `json:"zipCode" validate:"required,max=20"`
}

// CreateOrderRequest represents the request body for placing an order. Prices come from the catalog.
type CreateOrderRequest struct {
	Items           []OrderItemRequest     `json:"items" validate:"required,min=1,dive"`
	ShippingAddress ShippingAddressRequest `json:"shippingAddress"`
	PaymentMethod   string                 `json:"paymentMethod" validate:"required"`
	Notes           string                 `json:"notes" validate:"max=500"`
}

// UpdateOrderStatusRequest represents the request body for moving an order through fulfilment.
type UpdateOrderStatusRequest struct {
	Status         string `json:"status" validate:"required"`
	Note           string `json:"note" validate:"max=500"`
	TrackingNumber string `json:"trackingNumber" validate:"max=100"`
}

// Create places an order for the caller.
func (h *OrderHandler) Create(c echo.Context) error {
	identity, err := requireIdentity(c)
	if err != nil {
		return err
	}

	var req CreateOrderRequest
	if err := bindAndValidate(c, &req, func(r *CreateOrderRequest) {
		addr := &r.ShippingAddress
		addr.Street = strings.TrimSpace(addr.Street)
		addr.City = strings.TrimSpace(addr.City)
		addr.State = strings.TrimSpace(addr.State)
		addr.Country = strings.TrimSpace(addr.Country)
		addr.ZipCode = strings.TrimSpace(addr.ZipCode)
		r.Notes = strings.TrimSpace(r.Notes)
	}); err != nil {
		return err
	}

	items := make([]usecase.OrderItemInput, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, usecase.OrderItemInput{
			// Already checked by the uuid tag.
			ProductID: uuid.MustParse(item.Product),
			Quantity:  item.Quantity,
		})
	}

	order, err := h.orderUC.Create(c.Request().Context(), identity, &usecase.CreateOrderInput{
		Items: items,
		ShippingAddress: entity.ShippingAddress{
			Street:  req.ShippingAddress.Street,
			City:    req.ShippingAddress.City,
			State:   req.ShippingAddress.State,
			Country: req.ShippingAddress.Country,
			ZipCode: req.ShippingAddress.ZipCode,
		},
		PaymentMethod: entity.PaymentMethod(req.PaymentMethod),
		Notes:         req.Notes,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Created(c, echo.Map{"order": newOrderView(order)})
}

// ListMine returns the caller's orders, newest first.
func (h *OrderHandler) ListMine(c echo.Context) error {
	identity, err := requireIdentity(c)
	if err != nil {
		return err
	}

	orders, err := h.orderUC.ListMine(c.Request().Context(), identity)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.OK(c, echo.Map{"orders": newOrderViews(orders)})
}

// Get returns one order if the caller placed it or is an admin.
func (h *OrderHandler) Get(c echo.Context) error {
	identity, err := requireIdentity(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	order, err := h.orderUC.Get(c.Request().Context(), identity, id)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.OK(c, echo.Map{"order": newOrderView(order)})
}

// UpdateStatus records a fulfilment step. Admins only.
func (h *OrderHandler) UpdateStatus(c echo.Context) error {
	identity, err := requireIdentity(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req UpdateOrderStatusRequest
	if err := bindAndValidate(c, &req, func(r *UpdateOrderStatusRequest) {
		r.Note = strings.TrimSpace(r.Note)
		r.TrackingNumber = strings.TrimSpace(r.TrackingNumber)
	}); err != nil {
		return err
	}

	order, err := h.orderUC.UpdateStatus(c.Request().Context(), identity, id, &usecase.UpdateOrderStatusInput{
		Status:         entity.OrderStatus(req.Status),
		Note:           req.Note,
		TrackingNumber: req.TrackingNumber,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.OK(c, echo.Map{"order": newOrderView(order)})
}
