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

type productRepository struct {
	coll *mongo.Collection
}

// NewProductRepository is the constructor for productRepository.
func NewProductRepository(db *mongo.Database) repository.ProductRepository {
	return &productRepository{coll: db.Collection(productsCollection)}
}

func (repo *productRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	var doc productDocument
	if err := repo.coll.FindOne(ctx, bson.D{{Key: "_id", Value: id.String()}}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrProductNotFound
		}

		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to find product")
	}

	return doc.toEntity(), nil
}

func (repo *productRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*entity.Product, error) {
	if len(ids) == 0 {
		return []*entity.Product{}, nil
	}

	raw := make(bson.A, 0, len(ids))
	for _, id := range ids {
		raw = append(raw, id.String())
	}

	return repo.find(ctx, bson.D{{Key: "_id", Value: bson.D{{Key: "$in", Value: raw}}}}, nil, "failed to find products")
}

func (repo *productRepository) List(ctx context.Context, filter repository.ProductFilter) ([]*entity.Product, error) {
	query := bson.D{}
	if filter.Category != "" {
		query = append(query, bson.E{Key: "category", Value: string(filter.Category)})
	}
	if filter.Status != "" {
		query = append(query, bson.E{Key: "status", Value: string(filter.Status)})
	}
	if filter.CreatedBy != uuid.Nil {
		query = append(query, bson.E{Key: "createdBy", Value: filter.CreatedBy.String()})
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	return repo.find(ctx, query, opts, "failed to list products")
}

func (repo *productRepository) find(ctx context.Context, filter bson.D, opts *options.FindOptions, details string) ([]*entity.Product, error) {
	var findOpts []*options.FindOptions
	if opts != nil {
		findOpts = append(findOpts, opts)
	}

	cursor, err := repo.coll.Find(ctx, filter, findOpts...)
	if err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, details)
	}

	var docs []productDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, details)
	}

	products := make([]*entity.Product, 0, len(docs))
	for i := range docs {
		products = append(products, docs[i].toEntity())
	}

	return products, nil
}

func (repo *productRepository) Create(ctx context.Context, product *entity.Product) error {
	now := nowUTC()
	product.CreatedAt = now
	product.UpdatedAt = now

	if _, err := repo.coll.InsertOne(ctx, toProductDocument(product)); err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to create product")
	}

	return nil
}

func (repo *productRepository) Update(ctx context.Context, product *entity.Product) error {
	previous := product.UpdatedAt
	product.UpdatedAt = nowUTC()

	result, err := repo.coll.ReplaceOne(ctx, bson.D{{Key: "_id", Value: product.ID.String()}}, toProductDocument(product))
	if err != nil {
		product.UpdatedAt = previous

		return domainerrors.NewDatabaseExecuteError(err, "failed to update product")
	}
	if result.MatchedCount == 0 {
		product.UpdatedAt = previous

		return repository.ErrProductNotFound
	}

	return nil
}

func (repo *productRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := repo.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: id.String()}})
	if err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to delete product")
	}
	if result.DeletedCount == 0 {
		return repository.ErrProductNotFound
	}

	return nil
}
