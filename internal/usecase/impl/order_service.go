package impl

import (
	"context"
	"log/slog"
	"strings"
	"time"

	deliverycontext "marketplace/internal/delivery/context"
	"marketplace/internal/domain/entity"
	domainerrors "marketplace/internal/domain/errors"
	"marketplace/internal/domain/repository"
	"marketplace/internal/errors"
	"marketplace/internal/usecase"

	"github.com/google/uuid"
	"go.uber.org/fx"
)

type orderService struct {
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	logger      *slog.Logger
	now         func() time.Time
}

// OrderServiceParams holds dependencies for OrderService, injected by Fx.
type OrderServiceParams struct {
	fx.In

	OrderRepo   repository.OrderRepository
	ProductRepo repository.ProductRepository
	Logger      *slog.Logger
}

// NewOrderService is the constructor for orderService.
func NewOrderService(params OrderServiceParams) usecase.OrderUsecase {
	return &orderService{
		orderRepo:   params.OrderRepo,
		productRepo: params.ProductRepo,
		logger:      params.Logger,
		now:         time.Now,
	}
}

func (srv *orderService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Create places an order for a buyer at current catalog prices. Stock is checked, not reserved.
func (srv *orderService) Create(ctx context.Context, identity *entity.Identity, input *usecase.CreateOrderInput) (*entity.Order, error) {
	if identity == nil || identity.UserType != entity.UserTypeUser {
		return nil, domainerrors.ErrForbidden.WrapMessage("only buyers can place orders")
	}
	if err := validateOrderInput(input); err != nil {
		return nil, err
	}

	quantities, ids := mergeOrderItems(input.Items)
	products, err := srv.productRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load ordered products")
	}
	byID := make(map[uuid.UUID]*entity.Product, len(products))
	for _, product := range products {
		byID[product.ID] = product
	}

	now := srv.now()
	items := make([]entity.OrderItem, 0, len(ids))
	for _, id := range ids {
		product, ok := byID[id]
		if !ok {
			return nil, errors.WithStack(domainerrors.ErrProductNotFound.WithDetails(id.String()))
		}
		if !product.Orderable(quantities[id]) {
			return nil, errors.WithStack(domainerrors.ErrProductUnavailable.WithDetails(product.Name))
		}
		items = append(items, entity.OrderItem{
			ProductID: id,
			Quantity:  quantities[id],
			Price:     product.DiscountedPrice(now),
		})
	}

	orderID, err := uuid.NewV7()
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate order id")
	}
	order := &entity.Order{
		ID:              orderID,
		UserID:          identity.ID,
		Items:           items,
		ShippingAddress: input.ShippingAddress,
		PaymentInfo: entity.PaymentInfo{
			Method: input.PaymentMethod,
			Status: entity.PaymentStatusPending,
		},
		Notes: strings.TrimSpace(input.Notes),
	}
	order.RecalculateTotal()
	order.UpdateStatus(entity.OrderStatusPending, "Order placed", now)

	if err := srv.orderRepo.Create(ctx, order); err != nil {
		return nil, errors.Wrap(err, "failed to create order")
	}
	srv.log(ctx).Info("Order placed", slog.Any("orderID", order.ID), slog.Any("userID", identity.ID), slog.Float64("total", order.TotalAmount))

	return order, nil
}

func (srv *orderService) ListMine(ctx context.Context, identity *entity.Identity) ([]*entity.Order, error) {
	if identity == nil {
		return nil, errors.WithStack(domainerrors.ErrNoToken)
	}

	orders, err := srv.orderRepo.ListByUser(ctx, identity.ID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list orders")
	}

	return orders, nil
}

// Get returns an order to its buyer or an admin.
func (srv *orderService) Get(ctx context.Context, identity *entity.Identity, id uuid.UUID) (*entity.Order, error) {
	order, err := srv.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !order.VisibleTo(identity) {
		return nil, domainerrors.ErrForbidden.WrapMessage("order belongs to another user")
	}

	return order, nil
}

// UpdateStatus moves an order to a new status and records it in the history. Admin only.
func (srv *orderService) UpdateStatus(ctx context.Context, identity *entity.Identity, id uuid.UUID, input *usecase.UpdateOrderStatusInput) (*entity.Order, error) {
	if !entity.Authorize(identity, entity.RoleAdmin) {
		return nil, domainerrors.ErrForbidden.WrapMessage("only admins can update order status")
	}
	if !input.Status.IsValid() {
		return nil, errors.WithStack(domainerrors.NewValidationError("Unknown order status"))
	}

	order, err := srv.find(ctx, id)
	if err != nil {
		return nil, err
	}

	if tracking := strings.TrimSpace(input.TrackingNumber); tracking != "" {
		order.TrackingNumber = tracking
	}
	order.UpdateStatus(input.Status, strings.TrimSpace(input.Note), srv.now())

	if err := srv.orderRepo.Update(ctx, order); err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return nil, errors.WithStack(domainerrors.ErrOrderNotFound)
		}

		return nil, errors.Wrap(err, "failed to update order")
	}
	srv.log(ctx).Info("Order status updated", slog.Any("orderID", id), slog.String("status", string(input.Status)))

	return order, nil
}

func (srv *orderService) find(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	order, err := srv.orderRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return nil, errors.WithStack(domainerrors.ErrOrderNotFound)
		}

		return nil, errors.Wrap(err, "failed to find order")
	}

	return order, nil
}

func validateOrderInput(input *usecase.CreateOrderInput) error {
	if len(input.Items) == 0 {
		return errors.WithStack(domainerrors.NewValidationError("Order must contain at least one item"))
	}
	for _, item := range input.Items {
		if item.ProductID == uuid.Nil {
			return errors.WithStack(domainerrors.ErrInvalidID)
		}
		if item.Quantity < 1 {
			return errors.WithStack(domainerrors.NewValidationError("Quantity must be at least 1"))
		}
	}
	if !input.PaymentMethod.IsValid() {
		return errors.WithStack(domainerrors.NewValidationError("Unknown payment method"))
	}

	return nil
}

// mergeOrderItems sums quantities of repeated products, keeping first-seen order.
func mergeOrderItems(items []usecase.OrderItemInput) (map[uuid.UUID]int, []uuid.UUID) {
	quantities := make(map[uuid.UUID]int, len(items))
	ids := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		if _, seen := quantities[item.ProductID]; !seen {
			ids = append(ids, item.ProductID)
		}
		quantities[item.ProductID] += item.Quantity
	}

	return quantities, ids
}
