package postgres

import (
	"context"

	"marketplace/internal/domain/entity"
	domainerrors "marketplace/internal/domain/errors"
	"marketplace/internal/domain/repository"
	"marketplace/internal/errors"
	"marketplace/internal/infra/persistence/model"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository is the constructor for orderRepository.
func NewOrderRepository(db *gorm.DB) repository.OrderRepository {
	return &orderRepository{db: db}
}

func (repo *orderRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	var orderM model.OrderModel
	if err := repo.db.WithContext(ctx).Where("id = ?", id).Take(&orderM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrOrderNotFound
		}

		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to find order")
	}

	return toOrderDomain(&orderM), nil
}

func (repo *orderRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*entity.Order, error) {
	var orderMs []model.OrderModel
	if err := repo.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC").Find(&orderMs).Error; err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to list orders")
	}

	orders := make([]*entity.Order, 0, len(orderMs))
	for i := range orderMs {
		orders = append(orders, toOrderDomain(&orderMs[i]))
	}

	return orders, nil
}

func (repo *orderRepository) Create(ctx context.Context, order *entity.Order) error {
	now := nowUTC()
	order.CreatedAt = now
	order.UpdatedAt = now

	if err := repo.db.WithContext(ctx).Create(fromOrderDomain(order)).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrValidationFailed.WrapMessage("order references an unknown user")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create order")
	}

	return nil
}

func (repo *orderRepository) Update(ctx context.Context, order *entity.Order) error {
	previous := order.UpdatedAt
	order.UpdatedAt = nowUTC()

	orderM := fromOrderDomain(order)
	result := repo.db.WithContext(ctx).Model(orderM).Select("*").Omit("id", "user_id", "created_at").Updates(orderM)
	if err := result.Error; err != nil {
		order.UpdatedAt = previous

		return domainerrors.NewDatabaseExecuteError(err, "failed to update order")
	}
	if result.RowsAffected == 0 {
		order.UpdatedAt = previous

		return repository.ErrOrderNotFound
	}

	return nil
}

func toOrderDomain(data *model.OrderModel) *entity.Order {
	return &entity.Order{
		ID:              data.ID,
		UserID:          data.UserID,
		Items:           append([]entity.OrderItem(nil), data.Items...),
		TotalAmount:     data.TotalAmount,
		ShippingAddress: data.ShippingAddress.Data(),
		PaymentInfo:     data.PaymentInfo.Data(),
		Status:          entity.OrderStatus(data.Status),
		TrackingNumber:  data.TrackingNumber,
		Notes:           data.Notes,
		StatusHistory:   append([]entity.OrderStatusChange(nil), data.StatusHistory...),
		CreatedAt:       data.CreatedAt,
		UpdatedAt:       data.UpdatedAt,
	}
}

func fromOrderDomain(data *entity.Order) *model.OrderModel {
	items := make(datatypes.JSONSlice[entity.OrderItem], 0, len(data.Items))
	items = append(items, data.Items...)
	history := make(datatypes.JSONSlice[entity.OrderStatusChange], 0, len(data.StatusHistory))
	history = append(history, data.StatusHistory...)

	return &model.OrderModel{
		ID:              data.ID,
		UserID:          data.UserID,
		Items:           items,
		TotalAmount:     data.TotalAmount,
		ShippingAddress: datatypes.NewJSONType(data.ShippingAddress),
		PaymentInfo:     datatypes.NewJSONType(data.PaymentInfo),
		Status:          string(data.Status),
		TrackingNumber:  data.TrackingNumber,
		Notes:           data.Notes,
		StatusHistory:   history,
		CreatedAt:       data.CreatedAt,
		UpdatedAt:       data.UpdatedAt,
	}
}
