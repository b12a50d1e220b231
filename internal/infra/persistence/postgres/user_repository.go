// Package postgres contains the concrete implementation of the persistence layer using GORM and PostgreSQL.
package postgres

import (
	"context"
	"time"

	"marketplace/internal/domain/entity"
	domainerrors "marketplace/internal/domain/errors"
	"marketplace/internal/domain/repository"
	"marketplace/internal/errors"
	"marketplace/internal/infra/persistence/model"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// userRepository implements the domain.UserRepository interface using GORM.
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository is the constructor for userRepository.
func NewUserRepository(db *gorm.DB) repository.UserRepository {
	return &userRepository{db: db}
}

// FindByID retrieves a single user by their unique ID.
func (repo *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	var userM model.UserModel
	if err := repo.db.WithContext(ctx).Where("id = ?", id).Take(&userM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrUserNotFound
		}

		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to find user by id")
	}

	return toUserDomain(&userM), nil
}

// FindByEmail retrieves a single user by their email address.
func (repo *userRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	var userM model.UserModel
	if err := repo.db.WithContext(ctx).Where("email = ?", email).Take(&userM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrUserNotFound
		}

		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to find user by email")
	}

	return toUserDomain(&userM), nil
}

// ExistsByEmail reports whether an account uses the email address.
func (repo *userRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	if err := repo.db.WithContext(ctx).Model(&model.UserModel{}).Where("email = ?", email).Limit(1).Count(&count).Error; err != nil {
		return false, domainerrors.NewDatabaseExecuteError(err, "failed to check email")
	}

	return count > 0, nil
}

// Create inserts the user. The unique index on email is the final arbiter of duplicates.
func (repo *userRepository) Create(ctx context.Context, user *entity.User) error {
	now := nowUTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	if err := repo.db.WithContext(ctx).Create(fromUserDomain(user)).Error; err != nil {
		if isDuplicateEmail(err) {
			return errors.Wrap(repository.ErrDuplicateEmail, "create user")
		}
		if isNotNullConstraintViolation(err) || isCheckConstraintViolation(err) {
			return domainerrors.ErrValidationFailed.WrapMessage("missing or invalid user information")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create user")
	}

	return nil
}

// Update saves every column of the user.
func (repo *userRepository) Update(ctx context.Context, user *entity.User) error {
	previous := user.UpdatedAt
	user.UpdatedAt = nowUTC()

	userM := fromUserDomain(user)
	result := repo.db.WithContext(ctx).Model(userM).Select("*").Omit("id", "created_at").Updates(userM)
	if err := result.Error; err != nil {
		user.UpdatedAt = previous
		if isDuplicateEmail(err) {
			return errors.Wrap(repository.ErrDuplicateEmail, "update user")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to update user")
	}
	if result.RowsAffected == 0 {
		user.UpdatedAt = previous

		return repository.ErrUserNotFound
	}

	return nil
}

// nowUTC matches PostgreSQL timestamp precision so values read back compare equal.
func nowUTC() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

// --- Mapper Functions ---

func toUserDomain(data *model.UserModel) *entity.User {
	if data == nil {
		return nil
	}

	cart := make([]entity.CartItem, 0, len(data.Cart))
	for _, item := range data.Cart {
		cart = append(cart, entity.CartItem{ProductID: item.ProductID, Quantity: item.Quantity})
	}

	return &entity.User{
		ID:                data.ID,
		Name:              data.Name,
		Email:             data.Email,
		PasswordHash:      data.PasswordHash,
		Role:              entity.Role(data.Role),
		UserType:          entity.UserType(data.UserType),
		BusinessName:      data.BusinessName,
		BusinessAddress:   data.BusinessAddress,
		Cart:              cart,
		Wishlist:          append([]uuid.UUID(nil), data.Wishlist...),
		PasswordChangedAt: data.PasswordChangedAt,
		CreatedAt:         data.CreatedAt,
		UpdatedAt:         data.UpdatedAt,
	}
}

func fromUserDomain(data *entity.User) *model.UserModel {
	if data == nil {
		return nil
	}

	cart := make(datatypes.JSONSlice[model.CartItemModel], 0, len(data.Cart))
	for _, item := range data.Cart {
		cart = append(cart, model.CartItemModel{ProductID: item.ProductID, Quantity: item.Quantity})
	}
	wishlist := make(datatypes.JSONSlice[uuid.UUID], 0, len(data.Wishlist))
	wishlist = append(wishlist, data.Wishlist...)

	return &model.UserModel{
		ID:                data.ID,
		Name:              data.Name,
		Email:             data.Email,
		PasswordHash:      data.PasswordHash,
		Role:              data.Role.String(),
		UserType:          data.UserType.String(),
		BusinessName:      data.BusinessName,
		BusinessAddress:   data.BusinessAddress,
		Cart:              cart,
		Wishlist:          wishlist,
		PasswordChangedAt: data.PasswordChangedAt,
		CreatedAt:         data.CreatedAt,
		UpdatedAt:         data.UpdatedAt,
	}
}
