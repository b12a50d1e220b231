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

// userRepository implements repository.UserRepository on the users collection.
type userRepository struct {
	coll *mongo.Collection
}

// NewUserRepository is the constructor for userRepository.
func NewUserRepository(db *mongo.Database) repository.UserRepository {
	return &userRepository{coll: db.Collection(usersCollection)}
}

func (repo *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	return repo.findOne(ctx, bson.D{{Key: "_id", Value: id.String()}}, "failed to find user by id")
}

func (repo *userRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return repo.findOne(ctx, bson.D{{Key: "email", Value: email}}, "failed to find user by email")
}

func (repo *userRepository) findOne(ctx context.Context, filter bson.D, details string) (*entity.User, error) {
	var doc userDocument
	if err := repo.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrUserNotFound
		}

		return nil, domainerrors.NewDatabaseExecuteError(err, details)
	}

	return doc.toEntity(), nil
}

func (repo *userRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	count, err := repo.coll.CountDocuments(ctx, bson.D{{Key: "email", Value: email}}, options.Count().SetLimit(1))
	if err != nil {
		return false, domainerrors.NewDatabaseExecuteError(err, "failed to check email")
	}

	return count > 0, nil
}

// Create inserts the user. The unique email index is the final arbiter of duplicates.
func (repo *userRepository) Create(ctx context.Context, user *entity.User) error {
	now := nowUTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	if _, err := repo.coll.InsertOne(ctx, toUserDocument(user)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return errors.Wrap(repository.ErrDuplicateEmail, "create user")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create user")
	}

	return nil
}

// Update replaces the stored document, keeping the original creation time.
func (repo *userRepository) Update(ctx context.Context, user *entity.User) error {
	previous := user.UpdatedAt
	user.UpdatedAt = nowUTC()

	result, err := repo.coll.ReplaceOne(ctx, bson.D{{Key: "_id", Value: user.ID.String()}}, toUserDocument(user))
	if err != nil {
		user.UpdatedAt = previous
		if mongo.IsDuplicateKeyError(err) {
			return errors.Wrap(repository.ErrDuplicateEmail, "update user")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to update user")
	}
	if result.MatchedCount == 0 {
		user.UpdatedAt = previous

		return repository.ErrUserNotFound
	}

	return nil
}
