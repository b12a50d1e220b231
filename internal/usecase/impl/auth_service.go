// Package impl contains the implementation of the application's business logic.
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

	"go.uber.org/fx"
)

// authService implements the AuthUsecase interface.
type authService struct {
	userRepo     repository.UserRepository
	hasher       service.PasswordHasher
	tokenService service.TokenService
	logger       *slog.Logger
	now          func() time.Time
}

// AuthServiceParams holds dependencies for AuthService, injected by Fx.
type AuthServiceParams struct {
	fx.In

	UserRepo     repository.UserRepository
	Hasher       service.PasswordHasher
	TokenService service.TokenService
	Logger       *slog.Logger
}

// NewAuthService is the constructor for authService.
func NewAuthService(params AuthServiceParams) usecase.AuthUsecase {
	return &authService{
		userRepo:     params.UserRepo,
		hasher:       params.Hasher,
		tokenService: params.TokenService,
		logger:       params.Logger,
		now:          time.Now,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *authService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

func (srv *authService) CheckEmail(ctx context.Context, email string) (bool, error) {
	normalized := entity.NormalizeEmail(email)
	if normalized == "" {
		return false, errors.WithStack(domainerrors.NewValidationError("Email is required"))
	}

	exists, err := srv.userRepo.ExistsByEmail(ctx, normalized)
	if err != nil {
		return false, errors.Wrap(err, "failed to check email")
	}

	return exists, nil
}

// Register opens an account and signs the caller in.
func (srv *authService) Register(ctx context.Context, input *usecase.RegisterInput) (*usecase.AuthOutput, error) {
	email := entity.NormalizeEmail(input.Email)
	srv.log(ctx).Info("Starting registration", slog.String("email", email), slog.String("userType", input.UserType.String()))

	if err := validateRegistration(input); err != nil {
		return nil, err
	}

	if err := srv.hasher.ValidatePasswordStrength(input.Password); err != nil {
		srv.log(ctx).Warn("Password validation failed during registration", slog.String("email", email), slog.Any("error", err))

		return nil, errors.Wrap(err, "password does not meet security requirements")
	}

	exists, err := srv.userRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, errors.Wrap(err, "failed to check email during registration")
	}
	if exists {
		return nil, domainerrors.ErrDuplicateEmail.WrapMessage("user registration failed")
	}

	user, err := entity.NewUser(input.Name, email, input.UserType, input.BusinessName, input.BusinessAddress)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build user")
	}

	hash, err := srv.hasher.Hash(ctx, input.Password)
	if err != nil {
		srv.log(ctx).Error("Failed to hash password during registration", slog.Any("error", err))

		return nil, errors.Wrap(hashFailure(err), "failed to hash password during registration")
	}
	user.SetPasswordHash(hash, srv.now())

	if err := srv.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, domainerrors.ErrDuplicateEmail.WrapMessage("user registration failed")
		}

		return nil, errors.Wrap(err, "failed to create user during registration")
	}

	token, err := srv.tokenService.Issue(user.ID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to issue token")
	}
	srv.log(ctx).Debug("Registration completed", slog.Any("userID", user.ID))

	return &usecase.AuthOutput{Token: token, User: user}, nil
}

// Login checks the credentials and issues a session token.
func (srv *authService) Login(ctx context.Context, input *usecase.LoginInput) (*usecase.AuthOutput, error) {
	email := entity.NormalizeEmail(input.Email)
	srv.log(ctx).Debug("Starting user login", slog.String("email", email))

	user, err := srv.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			// Same bcrypt cost as a wrong password.
			srv.hasher.Check(ctx, input.Password, "")
			srv.log(ctx).Warn("Login failed", slog.String("email", email), slog.String("reason", "unknown email"))

			return nil, domainerrors.ErrInvalidCredentials.WrapMessage("login failed")
		}

		return nil, errors.Wrap(err, "failed to load user for login")
	}

	if !srv.hasher.Check(ctx, input.Password, user.PasswordHash) {
		srv.log(ctx).Warn("Login failed", slog.String("email", email), slog.String("reason", "password mismatch"))

		return nil, domainerrors.ErrInvalidCredentials.WrapMessage("login failed")
	}

	token, err := srv.tokenService.Issue(user.ID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to issue token")
	}
	srv.log(ctx).Debug("User logged in successfully", slog.Any("userID", user.ID))

	return &usecase.AuthOutput{Token: token, User: user}, nil
}

// Authenticate resolves the caller behind a bearer token. Tokens issued before
// the account's last password change are rejected.
func (srv *authService) Authenticate(ctx context.Context, token string) (*entity.Identity, error) {
	if token == "" {
		return nil, errors.WithStack(domainerrors.ErrNoToken)
	}

	claims, err := srv.tokenService.Verify(token)
	if err != nil {
		if errors.Is(err, service.ErrTokenExpired) {
			return nil, domainerrors.ErrTokenExpired.WrapMessage(err.Error())
		}

		return nil, domainerrors.ErrTokenInvalid.WrapMessage(err.Error())
	}

	user, err := srv.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, domainerrors.ErrTokenUserNotFound.WrapMessage("token subject is gone")
		}

		return nil, errors.Wrap(err, "failed to load token subject")
	}

	if user.TokenIssuedBeforePasswordChange(claims.IssuedAt) {
		return nil, domainerrors.ErrPasswordChanged.WrapMessage("token predates password change")
	}

	return user.Identity(), nil
}

func validateRegistration(input *usecase.RegisterInput) error {
	if !input.UserType.IsValid() {
		return errors.WithStack(domainerrors.NewValidationError("User type must be either user or seller"))
	}
	if input.UserType != entity.UserTypeSeller {
		return nil
	}
	if strings.TrimSpace(input.BusinessName) == "" {
		return errors.WithStack(domainerrors.NewValidationError("Business name is required for sellers"))
	}
	if strings.TrimSpace(input.BusinessAddress) == "" {
		return errors.WithStack(domainerrors.NewValidationError("Business address is required for sellers"))
	}

	return nil
}

// hashFailure keeps cancellation visible to callers and reports anything else as a hashing failure.
func hashFailure(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	return domainerrors.ErrPasswordHashFailed.WithDetails(err.Error())
}
