package handler

import (
	"net/http"
	"strings"

	"marketplace/config"
	"marketplace/internal/delivery/api/response"
	"marketplace/internal/domain/entity"
	"marketplace/internal/errors"
	"marketplace/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// AuthHandlerParams holds dependencies for AuthHandler, injected by Fx.
type AuthHandlerParams struct {
	fx.In

	AuthUC    usecase.AuthUsecase
	ProfileUC usecase.ProfileUsecase
	Config    *config.Config
}

// AuthHandler serves registration, login and the caller's own profile.
type AuthHandler struct {
	authUC    usecase.AuthUsecase
	profileUC usecase.ProfileUsecase
	cookie    tokenCookie
}

// NewAuthHandler is the constructor for AuthHandler
func NewAuthHandler(params AuthHandlerParams) *AuthHandler {
	return &AuthHandler{
		authUC:    params.AuthUC,
		profileUC: params.ProfileUC,
		cookie:    newTokenCookie(params.Config),
	}
}

// CheckEmailRequest is the query of GET /api/auth/check-email.
type CheckEmailRequest struct {
	Email string `query:"email" validate:"required,email"`
}

// RegisterRequest represents the request body for opening an account
type RegisterRequest struct {
	Name            string `json:"name" validate:"required,min=2,max=50,alphaspace"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required"`
	UserType        string `json:"userType" validate:"required,oneof=user seller"`
	BusinessName    string `json:"businessName" validate:"required_if=UserType seller,max=100"`
	BusinessAddress string `json:"businessAddress" validate:"required_if=UserType seller,max=200"`
}

// LoginRequest represents the request body for login
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UpdateProfileRequest holds the profile fields to change; absent fields are left untouched.
type UpdateProfileRequest struct {
	Name            *string `json:"name" validate:"omitempty,min=2,max=50,alphaspace"`
	Email           *string `json:"email" validate:"omitempty,email"`
	BusinessName    *string `json:"businessName" validate:"omitempty,max=100"`
	BusinessAddress *string `json:"businessAddress" validate:"omitempty,max=200"`
}

// ChangePasswordRequest represents the request body for a password change
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required"`
}

// CheckEmail reports whether an account already uses the address.
func (h *AuthHandler) CheckEmail(c echo.Context) error {
	var req CheckEmailRequest
	if err := bindAndValidate(c, &req, func(r *CheckEmailRequest) {
		r.Email = strings.TrimSpace(r.Email)
	}); err != nil {
		return err
	}

	exists, err := h.authUC.CheckEmail(c.Request().Context(), req.Email)
	if err != nil {
		return errors.WithStack(err)
	}

	return c.JSON(http.StatusOK, echo.Map{"exists": exists})
}

// Register opens an account and starts a session.
func (h *AuthHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := bindAndValidate(c, &req, func(r *RegisterRequest) {
		r.Name = strings.TrimSpace(r.Name)
		r.Email = strings.TrimSpace(r.Email)
		r.BusinessName = strings.TrimSpace(r.BusinessName)
		r.BusinessAddress = strings.TrimSpace(r.BusinessAddress)
	}); err != nil {
		return err
	}

	out, err := h.authUC.Register(c.Request().Context(), &usecase.RegisterInput{
		Name:            req.Name,
		Email:           req.Email,
		Password:        req.Password,
		UserType:        entity.UserType(req.UserType),
		BusinessName:    req.BusinessName,
		BusinessAddress: req.BusinessAddress,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return h.session(c, http.StatusCreated, out)
}

// Login starts a session for an existing account.
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := bindAndValidate(c, &req, func(r *LoginRequest) {
		r.Email = strings.TrimSpace(r.Email)
	}); err != nil {
		return err
	}

	out, err := h.authUC.Login(c.Request().Context(), &usecase.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return h.session(c, http.StatusOK, out)
}

// Logout clears the token cookie. Tokens already handed out stay valid until they expire.
func (h *AuthHandler) Logout(c echo.Context) error {
	h.cookie.clear(c)

	return response.OK(c, echo.Map{"message": "Logged out successfully"})
}

// Me returns the caller's public profile.
func (h *AuthHandler) Me(c echo.Context) error {
	identity, err := requireIdentity(c)
	if err != nil {
		return err
	}

	user, err := h.profileUC.GetProfile(c.Request().Context(), identity.ID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.OK(c, echo.Map{"user": user.PublicProfile()})
}

// UpdateMe changes the caller's profile fields.
func (h *AuthHandler) UpdateMe(c echo.Context) error {
	identity, err := requireIdentity(c)
	if err != nil {
		return err
	}

	var req UpdateProfileRequest
	if err := bindAndValidate(c, &req, func(r *UpdateProfileRequest) {
		r.Name = trimPtr(r.Name)
		r.Email = trimPtr(r.Email)
	}); err != nil {
		return err
	}

	user, err := h.profileUC.UpdateProfile(c.Request().Context(), identity.ID, &usecase.UpdateProfileInput{
		Name:            req.Name,
		Email:           req.Email,
		BusinessName:    req.BusinessName,
		BusinessAddress: req.BusinessAddress,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.OK(c, echo.Map{"user": user.PublicProfile()})
}

// ChangePassword replaces the caller's password and issues a fresh token.
func (h *AuthHandler) ChangePassword(c echo.Context) error {
	identity, err := requireIdentity(c)
	if err != nil {
		return err
	}

	var req ChangePasswordRequest
	if err := bindAndValidate(c, &req, nil); err != nil {
		return err
	}

	out, err := h.profileUC.ChangePassword(c.Request().Context(), identity.ID, &usecase.ChangePasswordInput{
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return h.session(c, http.StatusOK, out)
}

// session sets the token cookie and writes {status, token, user}.
func (h *AuthHandler) session(c echo.Context, status int, out *usecase.AuthOutput) error {
	h.cookie.set(c, out.Token)

	return response.Success(c, status, echo.Map{
		"token": out.Token,
		"user":  out.User.PublicProfile(),
	})
}
