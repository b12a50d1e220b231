package mongodb

import (
	"context"

	"marketplace/internal/domain/entity"
	domainerrors "marketplace/internal/domain/errors"
	"marketplace/internal/domain/repository"
	"marketplace/internal/errors"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type orderRepository struct {
	coll *mongo.Collection
}

// NewOrderRepository is the constructor for orderRepository.
func NewOrderRepository(db *mongo.Database) repository.OrderRepository {
	return &orderRepository{coll: db.Collection(ordersCollection)}
}

func (repo *orderRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	var doc orderDocument
	if err := repo.coll.FindOne(ctx, bson.D{{Key: "_id", Value: id.String()}}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrOrderNotFound
		}

		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to find order")
	}

	return doc.toEntity(), nil
}

func (repo *orderRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*entity.Order, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := repo.coll.Find(ctx, bson.D{{Key: "userId", Value: userID.String()}}, opts)
	if err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to list orders")
	}

	var docs []orderDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to list orders")
	}

	orders := make([]*entity.Order, 0, len(docs))
	for i := range docs {
		orders = append(orders, docs[i].toEntity())
	}

	return orders, nil
}

func (repo *orderRepository) Create(ctx context.Context, order *entity.Order) error {
	now := nowUTC()
	order.CreatedAt = now
	order.UpdatedAt = now

	if _, err := repo.coll.InsertOne(ctx, toOrderDocument(order)); err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to create order")
	}

	return nil
}

func (repo *orderRepository) Update(ctx context.Context, order *entity.Order) error {
	previous := order.UpdatedAt
	order.UpdatedAt = nowUTC()

	result, err := repo.coll.ReplaceOne(ctx, bson.D{{Key: "_id", Value: order.ID.String()}}, toOrderDocument(order))
	if err != nil {
		order.UpdatedAt = previous

		return domainerrors.NewDatabaseExecuteError(err, "failed to update order")
	}
	if result.MatchedCount == 0 {
		order.UpdatedAt = previous

		return repository.ErrOrderNotFound
	}

	return nil
}
