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
	"marketplace/internal/domain/service"
	"marketplace/internal/errors"
	"marketplace/internal/usecase"

	"github.com/google/uuid"
	"go.uber.org/fx"
)

// profileService implements the ProfileUsecase interface.
type profileService struct {
	userRepo     repository.UserRepository
	hasher       service.PasswordHasher
	tokenService service.TokenService
	logger       *slog.Logger
	now          func() time.Time
}

// ProfileServiceParams holds dependencies for ProfileService, injected by Fx.
type ProfileServiceParams struct {
	fx.In

	UserRepo     repository.UserRepository
	Hasher       service.PasswordHasher
	TokenService service.TokenService
	Logger       *slog.Logger
}

// NewProfileService is the constructor for profileService.
func NewProfileService(params ProfileServiceParams) usecase.ProfileUsecase {
	return &profileService{
		userRepo:     params.UserRepo,
		hasher:       params.Hasher,
		tokenService: params.TokenService,
		logger:       params.Logger,
		now:          time.Now,
	}
}

func (srv *profileService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// GetProfile retrieves the caller's account.
func (srv *profileService) GetProfile(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	srv.log(ctx).Debug("Getting user profile", slog.Any("userID", userID))

	user, err := srv.findUser(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get user profile")
	}

	return user, nil
}

// UpdateProfile changes name, email and, for sellers, the business details.
func (srv *profileService) UpdateProfile(ctx context.Context, userID uuid.UUID, input *usecase.UpdateProfileInput) (*entity.User, error) {
	srv.log(ctx).Info("Updating user profile", slog.Any("userID", userID))

	user, err := srv.findUser(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to update user profile")
	}

	if input.Name != nil {
		user.Name = strings.TrimSpace(*input.Name)
	}

	if input.Email != nil {
		email := entity.NormalizeEmail(*input.Email)
		if email == "" {
			return nil, errors.WithStack(domainerrors.NewValidationError("Email cannot be empty"))
		}
		if email != user.Email {
			exists, err := srv.userRepo.ExistsByEmail(ctx, email)
			if err != nil {
				return nil, errors.Wrap(err, "failed to check email")
			}
			if exists {
				return nil, domainerrors.ErrEmailInUse.WrapMessage("profile update failed")
			}
			user.Email = email
		}
	}

	if user.IsSeller() {
		if input.BusinessName != nil {
			user.BusinessName = strings.TrimSpace(*input.BusinessName)
			if user.BusinessName == "" {
				return nil, errors.WithStack(domainerrors.NewValidationError("Business name is required for sellers"))
			}
		}
		if input.BusinessAddress != nil {
			user.BusinessAddress = strings.TrimSpace(*input.BusinessAddress)
			if user.BusinessAddress == "" {
				return nil, errors.WithStack(domainerrors.NewValidationError("Business address is required for sellers"))
			}
		}
	}

	if err := srv.userRepo.Update(ctx, user); err != nil {
		return nil, errors.Wrap(translateUserWriteError(err, domainerrors.ErrEmailInUse), "failed to update user profile")
	}

	return user, nil
}

// ChangePassword verifies the current password, stores the new hash and signs the caller in again.
func (srv *profileService) ChangePassword(ctx context.Context, userID uuid.UUID, input *usecase.ChangePasswordInput) (*usecase.AuthOutput, error) {
	srv.log(ctx).Info("Changing password", slog.Any("userID", userID))

	user, err := srv.findUser(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to change password")
	}

	if !srv.hasher.Check(ctx, input.CurrentPassword, user.PasswordHash) {
		srv.log(ctx).Warn("Current password mismatch", slog.Any("userID", userID))

		return nil, domainerrors.ErrCurrentPasswordIncorrect.WrapMessage("password change failed")
	}

	if err := srv.hasher.ValidatePasswordStrength(input.NewPassword); err != nil {
		return nil, errors.Wrap(err, "password does not meet security requirements")
	}

	hash, err := srv.hasher.Hash(ctx, input.NewPassword)
	if err != nil {
		srv.log(ctx).Error("Failed to hash new password", slog.Any("error", err))

		return nil, errors.Wrap(hashFailure(err), "failed to hash new password")
	}
	user.SetPasswordHash(hash, srv.now())

	if err := srv.userRepo.Update(ctx, user); err != nil {
		return nil, errors.Wrap(translateUserWriteError(err, domainerrors.ErrEmailInUse), "failed to store new password")
	}

	token, err := srv.tokenService.Issue(user.ID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to issue token")
	}

	return &usecase.AuthOutput{Token: token, User: user}, nil
}

func (srv *profileService) findUser(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	user, err := srv.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, errors.WithStack(domainerrors.ErrUserNotFound)
		}

		return nil, errors.Wrap(err, "failed to find user")
	}

	return user, nil
}

// translateUserWriteError maps repository sentinels raised by a user write to domain errors.
func translateUserWriteError(err error, duplicate *domainerrors.BaseError) error {
	switch {
	case errors.Is(err, repository.ErrDuplicateEmail):
		return errors.WithStack(duplicate)
	case errors.Is(err, repository.ErrUserNotFound):
		return errors.WithStack(domainerrors.ErrUserNotFound)
	default:
		return err
	}
}
