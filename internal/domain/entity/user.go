// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// UserType separates buyers from sellers. It is chosen at registration and never changes.
type UserType string

const (
	// UserTypeUser is a buyer account.
	UserTypeUser UserType = "user"
	// UserTypeSeller is a seller account carrying business details.
	UserTypeSeller UserType = "seller"
)

// String returns the string representation of the UserType.
func (t UserType) String() string {
	return string(t)
}

// IsValid checks if the UserType is a valid value.
func (t UserType) IsValid() bool {
	switch t {
	case UserTypeUser, UserTypeSeller:
		return true
	default:
		return false
	}
}

// User is an account in the marketplace. PasswordHash never leaves the service.
type User struct {
	ID                uuid.UUID  // Generated at creation, immutable.
	Name              string     // 2-50 letters and spaces.
	Email             string     // Trimmed, lower-cased and unique.
	PasswordHash      string     // bcrypt hash; never serialized to responses or logs.
	Role              Role       // Privilege level, defaults to RoleUser.
	UserType          UserType   // Buyer or seller.
	BusinessName      string     // Sellers only.
	BusinessAddress   string     // Sellers only.
	Cart              []CartItem // Buyers only.
	Wishlist          []uuid.UUID
	PasswordChangedAt *time.Time // Set when the password is replaced after creation.
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// CartItem is a product reference with a quantity in a buyer's cart.
type CartItem struct {
	ProductID uuid.UUID
	Quantity  int
}

// NewUser builds an unsaved account. Business details are dropped for buyers.
func NewUser(name, email string, userType UserType, businessName, businessAddress string) (*User, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, err
	}

	user := &User{
		ID:       id,
		Name:     strings.TrimSpace(name),
		Email:    NormalizeEmail(email),
		Role:     RoleUser,
		UserType: userType,
	}
	if userType == UserTypeSeller {
		user.BusinessName = strings.TrimSpace(businessName)
		user.BusinessAddress = strings.TrimSpace(businessAddress)
	}

	return user, nil
}

// NormalizeEmail trims and lower-cases an address so lookups and the unique index agree.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// IsSeller reports whether the account is a seller account.
func (u *User) IsSeller() bool {
	return u.UserType == UserTypeSeller
}

// SetPasswordHash replaces the stored hash. For an existing account it also records
// when the password changed, which invalidates every token issued before that instant.
// The instant is kept at millisecond precision, the finest both stores and token iat share.
func (u *User) SetPasswordHash(hash string, now time.Time) {
	u.PasswordHash = hash
	if !u.CreatedAt.IsZero() {
		changedAt := now.UTC().Truncate(time.Millisecond)
		u.PasswordChangedAt = &changedAt
	}
}

// TokenIssuedBeforePasswordChange reports whether a token issued at iat predates the
// last password change.
func (u *User) TokenIssuedBeforePasswordChange(iat time.Time) bool {
	if u.PasswordChangedAt == nil {
		return false
	}

	return iat.Before(*u.PasswordChangedAt)
}

// Identity returns the hash-free view attached to authenticated requests.
func (u *User) Identity() *Identity {
	return &Identity{
		ID:       u.ID,
		Name:     u.Name,
		Email:    u.Email,
		Role:     u.Role,
		UserType: u.UserType,
	}
}

// PublicProfile is the response shape of a user.
type PublicProfile struct {
	ID              uuid.UUID        `json:"id"`
	Name            string           `json:"name"`
	Email           string           `json:"email"`
	UserType        UserType         `json:"userType"`
	Role            Role             `json:"role"`
	CreatedAt       time.Time        `json:"createdAt"`
	BusinessName    string           `json:"businessName,omitempty"`
	BusinessAddress string           `json:"businessAddress,omitempty"`
	Cart            *[]PublicCartRow `json:"cart,omitempty"`
	Wishlist        *[]uuid.UUID     `json:"wishlist,omitempty"`
}

// PublicCartRow is a cart entry in a public profile.
type PublicCartRow struct {
	Product  uuid.UUID `json:"product"`
	Quantity int       `json:"quantity"`
}

// PublicProfile projects the user without its password hash. Sellers get their business
// details, buyers their cart and wishlist (always non-nil so they render as arrays).
func (u *User) PublicProfile() *PublicProfile {
	profile := &PublicProfile{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		UserType:  u.UserType,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}

	switch u.UserType {
	case UserTypeSeller:
		profile.BusinessName = u.BusinessName
		profile.BusinessAddress = u.BusinessAddress
	case UserTypeUser:
		cart := make([]PublicCartRow, 0, len(u.Cart))
		for _, item := range u.Cart {
			cart = append(cart, PublicCartRow{Product: item.ProductID, Quantity: item.Quantity})
		}
		wishlist := append(make([]uuid.UUID, 0, len(u.Wishlist)), u.Wishlist...)
		profile.Cart = &cart
		profile.Wishlist = &wishlist
	}

	return profile
}
