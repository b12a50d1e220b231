package router

import (
	"context"
	"net/http"
	"testing"
	"time"

	"marketplace/internal/domain/entity"
	domainerrors "marketplace/internal/domain/errors"
	"marketplace/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newBuyer() *entity.User {
	return &entity.User{
		ID:           uuid.Must(uuid.NewV7()),
		Name:         "Jane Doe",
		Email:        "jane@example.com",
		PasswordHash: "$2a$12$stored",
		Role:         entity.RoleUser,
		UserType:     entity.UserTypeUser,
		CreatedAt:    fixedNow,
	}
}

func TestCheckEmail(t *testing.T) {
	t.Run("reports existing address", func(t *testing.T) {
		api := newTestAPI(t)
		api.authUC.EXPECT().CheckEmail(mock.Anything, "jane@example.com").Return(true, nil)

		rec := api.do(http.MethodGet, "/api/auth/check-email?email=jane@example.com", nil, "")

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, map[string]any{"exists": true}, decodeBody(t, rec))
	})

	t.Run("rejects malformed address", func(t *testing.T) {
		api := newTestAPI(t)

		rec := api.do(http.MethodGet, "/api/auth/check-email?email=nope", nil, "")

		body := requireErrorBody(t, rec, http.StatusBadRequest, domainerrors.CodeValidationFailed)
		assert.Equal(t, "Please enter a valid email", body["message"])
	})
}

func TestRegister(t *testing.T) {
	t.Run("creates buyer and sets cookie", func(t *testing.T) {
		api := newTestAPI(t)
		user := newBuyer()

		api.authUC.EXPECT().
			Register(mock.Anything, mock.MatchedBy(func(in *usecase.RegisterInput) bool {
				return in.Name == "Jane Doe" &&
					in.Email == "jane@example.com" &&
					in.Password == " secret1 " &&
					in.UserType == entity.UserTypeUser
			})).
			Return(&usecase.AuthOutput{Token: "jwt-token", User: user}, nil)

		rec := api.do(http.MethodPost, "/api/auth/register", echo.Map{
			"name":     "  Jane Doe ",
			"email":    " jane@example.com",
			"password": " secret1 ",
			"userType": "user",
		}, "")

		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		body := decodeBody(t, rec)
		assert.Equal(t, "success", body["status"])
		assert.Equal(t, "jwt-token", body["token"])

		profile, ok := body["user"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "jane@example.com", profile["email"])
		assert.NotContains(t, rec.Body.String(), "stored")

		cookie := tokenCookie(rec)
		require.NotNil(t, cookie)
		assert.Equal(t, "jwt-token", cookie.Value)
		assert.True(t, cookie.HttpOnly)
		assert.False(t, cookie.Secure)
		assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
		assert.Equal(t, int((7 * 24 * time.Hour).Seconds()), cookie.MaxAge)
	})

	t.Run("validation messages", func(t *testing.T) {
		tests := []struct {
			name    string
			body    echo.Map
			wantMsg string
		}{
			{
				name:    "short name",
				body:    echo.Map{"name": "J", "email": "jane@example.com", "password": "secret1", "userType": "user"},
				wantMsg: "name must be at least 2 characters long",
			},
			{
				name:    "digits in name",
				body:    echo.Map{"name": "Jane 2", "email": "jane@example.com", "password": "secret1", "userType": "user"},
				wantMsg: "name can only contain letters and spaces",
			},
			{
				name:    "missing password",
				body:    echo.Map{"name": "Jane", "email": "jane@example.com", "userType": "user"},
				wantMsg: "password is required",
			},
			{
				name:    "missing user type",
				body:    echo.Map{"name": "Jane", "email": "jane@example.com", "password": "secret1"},
				wantMsg: "userType is required",
			},
			{
				name:    "seller without business",
				body:    echo.Map{"name": "Jane", "email": "jane@example.com", "password": "secret1", "userType": "seller"},
				wantMsg: "businessName is required",
			},
			{
				name:    "unknown user type",
				body:    echo.Map{"name": "Jane", "email": "jane@example.com", "password": "secret1", "userType": "admin"},
				wantMsg: "userType must be one of: user, seller",
			},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				api := newTestAPI(t)

				rec := api.do(http.MethodPost, "/api/auth/register", tt.body, "")

				body := requireErrorBody(t, rec, http.StatusBadRequest, domainerrors.CodeValidationFailed)
				assert.Equal(t, tt.wantMsg, body["message"])
			})
		}
	})

	t.Run("duplicate email", func(t *testing.T) {
		api := newTestAPI(t)
		api.authUC.EXPECT().Register(mock.Anything, mock.Anything).
			Return(nil, domainerrors.ErrDuplicateEmail.WrapMessage("register"))

		rec := api.do(http.MethodPost, "/api/auth/register", echo.Map{
			"name": "Jane", "email": "jane@example.com", "password": "secret1", "userType": "user",
		}, "")

		body := requireErrorBody(t, rec, http.StatusBadRequest, domainerrors.CodeDuplicateEmail)
		assert.Equal(t, "Email already registered", body["message"])
		assert.Nil(t, tokenCookie(rec))
	})

	t.Run("malformed json", func(t *testing.T) {
		api := newTestAPI(t)

		rec := api.do(http.MethodPost, "/api/auth/register", "not an object", "")

		requireErrorBody(t, rec, http.StatusBadRequest, domainerrors.CodeValidationFailed)
	})
}

func TestLogin(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		api := newTestAPI(t)
		user := newBuyer()
		api.authUC.EXPECT().
			Login(mock.Anything, &usecase.LoginInput{Email: "jane@example.com", Password: "secret1"}).
			Return(&usecase.AuthOutput{Token: "jwt-token", User: user}, nil)

		rec := api.do(http.MethodPost, "/api/auth/login", echo.Map{"email": "jane@example.com", "password": "secret1"}, "")

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "jwt-token", decodeBody(t, rec)["token"])
		require.NotNil(t, tokenCookie(rec))
	})

	t.Run("invalid credentials hide details", func(t *testing.T) {
		api := newTestAPI(t)
		api.authUC.EXPECT().Login(mock.Anything, mock.Anything).
			Return(nil, domainerrors.ErrInvalidCredentials.WithDetails("no such user"))

		rec := api.do(http.MethodPost, "/api/auth/login", echo.Map{"email": "jane@example.com", "password": "wrong"}, "")

		body := requireErrorBody(t, rec, http.StatusUnauthorized, domainerrors.CodeInvalidCredentials)
		assert.Equal(t, "Invalid email or password", body["message"])
		assert.NotContains(t, body, "details")
	})
}

func TestLogout(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(http.MethodPost, "/api/auth/logout", nil, "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]any{"status": "success", "message": "Logged out successfully"}, decodeBody(t, rec))

	cookie := tokenCookie(rec)
	require.NotNil(t, cookie)
	assert.Empty(t, cookie.Value)
	assert.Equal(t, -1, cookie.MaxAge)
	assert.True(t, cookie.HttpOnly)
}

func TestMe(t *testing.T) {
	t.Run("without header", func(t *testing.T) {
		api := newTestAPI(t)

		rec := api.do(http.MethodGet, "/api/auth/me", nil, "")

		body := requireErrorBody(t, rec, http.StatusUnauthorized, domainerrors.CodeUnauthorized)
		assert.Equal(t, "No token provided", body["message"])
	})

	t.Run("non bearer scheme", func(t *testing.T) {
		api := newTestAPI(t)

		req := httptestRequest(http.MethodGet, "/api/auth/me")
		req.Header.Set(echo.HeaderAuthorization, "Basic abc")
		rec := serve(api, req)

		requireErrorBody(t, rec, http.StatusUnauthorized, domainerrors.CodeUnauthorized)
	})

	t.Run("cookie alone is not enough", func(t *testing.T) {
		api := newTestAPI(t)

		req := httptestRequest(http.MethodGet, "/api/auth/me")
		req.AddCookie(&http.Cookie{Name: "token", Value: "jwt-token"})
		rec := serve(api, req)

		requireErrorBody(t, rec, http.StatusUnauthorized, domainerrors.CodeUnauthorized)
	})

	t.Run("expired token", func(t *testing.T) {
		api := newTestAPI(t)
		api.authUC.EXPECT().Authenticate(mock.Anything, "stale").Return(nil, domainerrors.ErrTokenExpired)

		rec := api.do(http.MethodGet, "/api/auth/me", nil, "stale")

		requireErrorBody(t, rec, http.StatusUnauthorized, domainerrors.CodeTokenExpired)
	})

	t.Run("returns profile", func(t *testing.T) {
		api := newTestAPI(t)
		user := newBuyer()
		token := api.loginAs(user.Identity())
		api.profileUC.EXPECT().GetProfile(mock.Anything, user.ID).Return(user, nil)

		rec := api.do(http.MethodGet, "/api/auth/me", nil, token)

		require.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody(t, rec)
		profile := body["user"].(map[string]any)
		assert.Equal(t, user.ID.String(), profile["id"])
		assert.Equal(t, []any{}, profile["cart"])
		assert.NotContains(t, profile, "passwordHash")
	})
}

func TestUpdateMe(t *testing.T) {
	api := newTestAPI(t)
	user := newBuyer()
	token := api.loginAs(user.Identity())

	api.profileUC.EXPECT().
		UpdateProfile(mock.Anything, user.ID, mock.MatchedBy(func(in *usecase.UpdateProfileInput) bool {
			return in.Name != nil && *in.Name == "Janet" && in.Email == nil
		})).
		RunAndReturn(func(_ context.Context, _ uuid.UUID, in *usecase.UpdateProfileInput) (*entity.User, error) {
			user.Name = *in.Name

			return user, nil
		})

	rec := api.do(http.MethodPut, "/api/auth/me", echo.Map{"name": " Janet "}, token)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Janet", decodeBody(t, rec)["user"].(map[string]any)["name"])
}

func TestChangePassword(t *testing.T) {
	t.Run("issues fresh session", func(t *testing.T) {
		api := newTestAPI(t)
		user := newBuyer()
		token := api.loginAs(user.Identity())

		api.profileUC.EXPECT().
			ChangePassword(mock.Anything, user.ID, &usecase.ChangePasswordInput{CurrentPassword: "old-pass", NewPassword: "new-pass1"}).
			Return(&usecase.AuthOutput{Token: "fresh-token", User: user}, nil)

		rec := api.do(http.MethodPut, "/api/auth/me/password", echo.Map{
			"currentPassword": "old-pass",
			"newPassword":     "new-pass1",
		}, token)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "fresh-token", decodeBody(t, rec)["token"])
		assert.Equal(t, "fresh-token", tokenCookie(rec).Value)
	})

	t.Run("wrong current password", func(t *testing.T) {
		api := newTestAPI(t)
		user := newBuyer()
		token := api.loginAs(user.Identity())

		api.profileUC.EXPECT().ChangePassword(mock.Anything, user.ID, mock.Anything).
			Return(nil, domainerrors.ErrCurrentPasswordIncorrect)

		rec := api.do(http.MethodPut, "/api/auth/me/password", echo.Map{
			"currentPassword": "nope",
			"newPassword":     "new-pass1",
		}, token)

		body := requireErrorBody(t, rec, http.StatusUnauthorized, domainerrors.CodeInvalidCredentials)
		assert.Equal(t, "Current password is incorrect", body["message"])
	})
}
