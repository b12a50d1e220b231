package impl

import (
	"context"
	"net/http"
	"testing"
	"time"

	"marketplace/internal/domain/entity"
	domainerrors "marketplace/internal/domain/errors"
	"marketplace/internal/domain/repository"
	"marketplace/internal/domain/service"
	"marketplace/internal/errors"
	mockRepo "marketplace/internal/mocks/repository"
	mockSvc "marketplace/internal/mocks/service"
	"marketplace/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// authServiceFixtures holds all test dependencies for auth service tests.
type authServiceFixtures struct {
	service      usecase.AuthUsecase
	userRepo     *mockRepo.MockUserRepository
	hasher       *mockSvc.MockPasswordHasher
	tokenService *mockSvc.MockTokenService
}

func createTestAuthService(t *testing.T) authServiceFixtures {
	userRepo := mockRepo.NewMockUserRepository(t)
	hasher := mockSvc.NewMockPasswordHasher(t)
	tokenService := mockSvc.NewMockTokenService(t)

	svc := NewAuthService(AuthServiceParams{
		UserRepo:     userRepo,
		Hasher:       hasher,
		TokenService: tokenService,
		Logger:       newDiscardLogger(),
	})
	svc.(*authService).now = fixedClock

	return authServiceFixtures{
		service:      svc,
		userRepo:     userRepo,
		hasher:       hasher,
		tokenService: tokenService,
	}
}

func existingUser(t *testing.T, userType entity.UserType) *entity.User {
	t.Helper()

	user, err := entity.NewUser("Ada Lovelace", "ada@example.com", userType, "Analytical Engines", "12 Baker Street")
	require.NoError(t, err)
	user.PasswordHash = "stored-hash"
	user.CreatedAt = fixedNow.Add(-48 * time.Hour)
	user.UpdatedAt = user.CreatedAt

	return user
}

func TestAuthService_Register_Success(t *testing.T) {
	fx := createTestAuthService(t)
	ctx := context.Background()

	input := &usecase.RegisterInput{
		Name:     "Ada Lovelace",
		Email:    "  Ada@Example.COM ",
		Password: "Secret123!",
		UserType: entity.UserTypeUser,
		// Business details are dropped for buyers.
		BusinessName: "ignored",
	}

	fx.hasher.EXPECT().ValidatePasswordStrength("Secret123!").Return(nil)
	fx.userRepo.EXPECT().ExistsByEmail(ctx, "ada@example.com").Return(false, nil)
	fx.hasher.EXPECT().Hash(ctx, "Secret123!").Return("hashed", nil)
	fx.userRepo.EXPECT().
		Create(ctx, mock.AnythingOfType("*entity.User")).
		Run(func(_ context.Context, user *entity.User) {
			assert.Equal(t, "hashed", user.PasswordHash)
			assert.Nil(t, user.PasswordChangedAt)
			assert.Empty(t, user.BusinessName)
			assert.Equal(t, entity.RoleUser, user.Role)
		}).
		Return(nil)
	fx.tokenService.EXPECT().Issue(mock.AnythingOfType("uuid.UUID")).Return("signed-token", nil)

	output, err := fx.service.Register(ctx, input)

	require.NoError(t, err)
	assert.Equal(t, "signed-token", output.Token)
	assert.Equal(t, "ada@example.com", output.User.Email)
	assert.NotEqual(t, uuid.Nil, output.User.ID)
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	t.Run("pre-check", func(t *testing.T) {
		fx := createTestAuthService(t)
		ctx := context.Background()

		fx.hasher.EXPECT().ValidatePasswordStrength(mock.Anything).Return(nil)
		fx.userRepo.EXPECT().ExistsByEmail(ctx, "ada@example.com").Return(true, nil)

		_, err := fx.service.Register(ctx, &usecase.RegisterInput{
			Name: "Ada", Email: "ada@example.com", Password: "Secret123!", UserType: entity.UserTypeUser,
		})

		assert.ErrorIs(t, err, domainerrors.ErrDuplicateEmail)
		requireAppError(t, err, http.StatusBadRequest, domainerrors.CodeDuplicateEmail)
	})

	t.Run("unique index race", func(t *testing.T) {
		fx := createTestAuthService(t)
		ctx := context.Background()

		fx.hasher.EXPECT().ValidatePasswordStrength(mock.Anything).Return(nil)
		fx.userRepo.EXPECT().ExistsByEmail(ctx, "ada@example.com").Return(false, nil)
		fx.hasher.EXPECT().Hash(ctx, mock.Anything).Return("hashed", nil)
		fx.userRepo.EXPECT().Create(ctx, mock.Anything).Return(errors.Wrap(repository.ErrDuplicateEmail, "create user"))

		_, err := fx.service.Register(ctx, &usecase.RegisterInput{
			Name: "Ada", Email: "ada@example.com", Password: "Secret123!", UserType: entity.UserTypeUser,
		})

		assert.ErrorIs(t, err, domainerrors.ErrDuplicateEmail)
	})
}

func TestAuthService_Register_Validation(t *testing.T) {
	tests := []struct {
		name  string
		input usecase.RegisterInput
	}{
		{
			name:  "unknown user type",
			input: usecase.RegisterInput{Name: "Ada", Email: "ada@example.com", Password: "Secret123!", UserType: "admin"},
		},
		{
			name:  "seller without business name",
			input: usecase.RegisterInput{Name: "Ada", Email: "ada@example.com", Password: "Secret123!", UserType: entity.UserTypeSeller, BusinessAddress: "1 Road"},
		},
		{
			name:  "seller without business address",
			input: usecase.RegisterInput{Name: "Ada", Email: "ada@example.com", Password: "Secret123!", UserType: entity.UserTypeSeller, BusinessName: "Shop"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := createTestAuthService(t)

			_, err := fx.service.Register(context.Background(), &tt.input)

			requireAppError(t, err, http.StatusBadRequest, domainerrors.CodeValidationFailed)
		})
	}
}

func TestAuthService_Register_WeakPassword(t *testing.T) {
	fx := createTestAuthService(t)

	fx.hasher.EXPECT().ValidatePasswordStrength("abc").
		Return(domainerrors.NewValidationError("Password must be at least 6 characters long"))

	_, err := fx.service.Register(context.Background(), &usecase.RegisterInput{
		Name: "Ada", Email: "ada@example.com", Password: "abc", UserType: entity.UserTypeUser,
	})

	appErr := requireAppError(t, err, http.StatusBadRequest, domainerrors.CodeValidationFailed)
	assert.Equal(t, "Password must be at least 6 characters long", appErr.Message())
}

func TestAuthService_Register_HashCancelled(t *testing.T) {
	fx := createTestAuthService(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fx.hasher.EXPECT().ValidatePasswordStrength(mock.Anything).Return(nil)
	fx.userRepo.EXPECT().ExistsByEmail(ctx, "ada@example.com").Return(false, nil)
	fx.hasher.EXPECT().Hash(ctx, mock.Anything).Return("", context.Canceled)

	_, err := fx.service.Register(ctx, &usecase.RegisterInput{
		Name: "Ada", Email: "ada@example.com", Password: "Secret123!", UserType: entity.UserTypeUser,
	})

	assert.ErrorIs(t, err, context.Canceled)
}

func TestAuthService_Login(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		fx := createTestAuthService(t)
		ctx := context.Background()
		user := existingUser(t, entity.UserTypeUser)

		fx.userRepo.EXPECT().FindByEmail(ctx, "ada@example.com").Return(user, nil)
		fx.hasher.EXPECT().Check(ctx, "Secret123!", "stored-hash").Return(true)
		fx.tokenService.EXPECT().Issue(user.ID).Return("signed-token", nil)

		output, err := fx.service.Login(ctx, &usecase.LoginInput{Email: "ADA@example.com ", Password: "Secret123!"})

		require.NoError(t, err)
		assert.Equal(t, "signed-token", output.Token)
		assert.Equal(t, user, output.User)
	})

	t.Run("unknown email and wrong password fail identically", func(t *testing.T) {
		fx := createTestAuthService(t)
		ctx := context.Background()
		user := existingUser(t, entity.UserTypeUser)

		fx.userRepo.EXPECT().FindByEmail(ctx, "ghost@example.com").Return(nil, repository.ErrUserNotFound)
		fx.userRepo.EXPECT().FindByEmail(ctx, "ada@example.com").Return(user, nil)
		fx.hasher.EXPECT().Check(ctx, "wrong", "").Return(false).Once()
		fx.hasher.EXPECT().Check(ctx, "wrong", "stored-hash").Return(false).Once()

		_, unknownErr := fx.service.Login(ctx, &usecase.LoginInput{Email: "ghost@example.com", Password: "wrong"})
		_, mismatchErr := fx.service.Login(ctx, &usecase.LoginInput{Email: "ada@example.com", Password: "wrong"})

		unknown := requireAppError(t, unknownErr, http.StatusUnauthorized, domainerrors.CodeInvalidCredentials)
		mismatch := requireAppError(t, mismatchErr, http.StatusUnauthorized, domainerrors.CodeInvalidCredentials)
		assert.Equal(t, "Invalid email or password", unknown.Message())
		assert.Equal(t, unknown.Message(), mismatch.Message())
	})
}

func TestAuthService_Authenticate(t *testing.T) {
	ctx := context.Background()
	issuedAt := fixedNow.Add(-time.Hour)

	t.Run("no token", func(t *testing.T) {
		fx := createTestAuthService(t)

		_, err := fx.service.Authenticate(ctx, "")

		appErr := requireAppError(t, err, http.StatusUnauthorized, domainerrors.CodeUnauthorized)
		assert.Equal(t, "No token provided", appErr.Message())
	})

	t.Run("expired", func(t *testing.T) {
		fx := createTestAuthService(t)
		fx.tokenService.EXPECT().Verify("tok").Return(nil, service.ErrTokenExpired)

		_, err := fx.service.Authenticate(ctx, "tok")

		requireAppError(t, err, http.StatusUnauthorized, domainerrors.CodeTokenExpired)
	})

	t.Run("invalid", func(t *testing.T) {
		fx := createTestAuthService(t)
		fx.tokenService.EXPECT().Verify("tok").Return(nil, service.ErrTokenInvalid)

		_, err := fx.service.Authenticate(ctx, "tok")

		requireAppError(t, err, http.StatusUnauthorized, domainerrors.CodeTokenInvalid)
	})

	t.Run("subject gone", func(t *testing.T) {
		fx := createTestAuthService(t)
		userID := uuid.Must(uuid.NewV7())
		fx.tokenService.EXPECT().Verify("tok").Return(&service.Claims{UserID: userID, IssuedAt: issuedAt}, nil)
		fx.userRepo.EXPECT().FindByID(ctx, userID).Return(nil, repository.ErrUserNotFound)

		_, err := fx.service.Authenticate(ctx, "tok")

		appErr := requireAppError(t, err, http.StatusUnauthorized, domainerrors.CodeUnauthorized)
		assert.Equal(t, "User not found", appErr.Message())
	})

	t.Run("password changed after issue", func(t *testing.T) {
		fx := createTestAuthService(t)
		user := existingUser(t, entity.UserTypeUser)
		changedAt := issuedAt.Add(time.Second)
		user.PasswordChangedAt = &changedAt

		fx.tokenService.EXPECT().Verify("tok").Return(&service.Claims{UserID: user.ID, IssuedAt: issuedAt}, nil)
		fx.userRepo.EXPECT().FindByID(ctx, user.ID).Return(user, nil)

		_, err := fx.service.Authenticate(ctx, "tok")

		appErr := requireAppError(t, err, http.StatusUnauthorized, domainerrors.CodeUnauthorized)
		assert.Equal(t, "User recently changed password. Please login again", appErr.Message())
	})

	t.Run("password changed later in the same second", func(t *testing.T) {
		fx := createTestAuthService(t)
		user := existingUser(t, entity.UserTypeSeller)
		changedAt := issuedAt.Add(500 * time.Millisecond)
		user.PasswordChangedAt = &changedAt

		fx.tokenService.EXPECT().Verify("tok").Return(&service.Claims{UserID: user.ID, IssuedAt: issuedAt}, nil)
		fx.userRepo.EXPECT().FindByID(ctx, user.ID).Return(user, nil)

		_, err := fx.service.Authenticate(ctx, "tok")

		requireAppError(t, err, http.StatusUnauthorized, domainerrors.CodeUnauthorized)
	})

	t.Run("token issued at the password change", func(t *testing.T) {
		fx := createTestAuthService(t)
		user := existingUser(t, entity.UserTypeSeller)
		changedAt := issuedAt.Add(500 * time.Millisecond)
		user.PasswordChangedAt = &changedAt

		fx.tokenService.EXPECT().Verify("tok").Return(&service.Claims{UserID: user.ID, IssuedAt: changedAt}, nil)
		fx.userRepo.EXPECT().FindByID(ctx, user.ID).Return(user, nil)

		identity, err := fx.service.Authenticate(ctx, "tok")

		require.NoError(t, err)
		assert.Equal(t, user.ID, identity.ID)
		assert.Equal(t, entity.UserTypeSeller, identity.UserType)
	})
}

func TestAuthService_CheckEmail(t *testing.T) {
	fx := createTestAuthService(t)
	ctx := context.Background()

	fx.userRepo.EXPECT().ExistsByEmail(ctx, "ada@example.com").Return(true, nil)

	exists, err := fx.service.CheckEmail(ctx, " ADA@example.com")
	require.NoError(t, err)
	assert.True(t, exists)

	_, err = fx.service.CheckEmail(ctx, "   ")
	requireAppError(t, err, http.StatusBadRequest, domainerrors.CodeValidationFailed)
}
