package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	defaultLocale = "en"
)

// User is an account on the marketplace. One account holds exactly one role.
type User struct {
	ID           uuid.UUID `json:"id"`                                                // The Global Unique Identifier (GUID) for the user.
	Email        string    `json:"email" validate:"required,email,max=255"`           // Unique, stored lowercased.
	PasswordHash string    `json:"-"`                                                 // Empty for accounts created through Google sign-in.
	Name         string    `json:"name" validate:"required,min=2,max=100"`            // Display name.
	Role         Role      `json:"role" validate:"required,oneof=admin owner user"`   // Closed set, see Role.
	IsActive     bool      `json:"isActive"`                                          // Deactivated accounts cannot authenticate.
	GoogleID     *string   `json:"googleId,omitempty" validate:"omitempty,max=255"`   // External identity, unique when set.
	PhoneNumber  *string   `json:"phoneNumber,omitempty" validate:"omitempty,max=32"` // Unique when set.
	PhotoURL     *string   `json:"photoUrl,omitempty" validate:"omitempty,max=2048"`  // Public avatar URL.
	Bio          string    `json:"bio,omitempty" validate:"max=500"`                  // Free text shown on listings.
	IsDarkMode   bool      `json:"isDarkMode"`                                        // UI preference.
	Locale       string    `json:"locale" validate:"required,max=10"`                 // UI preference.
	FCMToken     *string   `json:"-"`                                                 // Push token of the user's current device.
	CreatedAt    time.Time `json:"createdAt"`                                         // Timestamp of when this user account was created.
	UpdatedAt    time.Time `json:"updatedAt"`                                         // Timestamp of the last modification to this user's data.
}

// NewUser builds a user with the registration defaults applied.
func NewUser(email, name string, role Role) *User {
	if !role.IsValid() {
		role = RoleUser
	}

	return &User{
		Email:      NormalizeEmail(email),
		Name:       strings.TrimSpace(name),
		Role:       role,
		IsActive:   true,
		IsDarkMode: true,
		Locale:     defaultLocale,
	}
}

// NormalizeEmail lowercases and trims an address the way it is stored.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// HasPassword reports whether the account can log in with a password.
func (u *User) HasPassword() bool {
	return u.PasswordHash != ""
}

// Actor returns the user as the caller of an operation.
func (u *User) Actor() Actor {
	return Actor{ID: u.ID, Role: u.Role, Name: u.Name, Active: u.IsActive}
}

// Summary returns the public projection embedded in other resources.
func (u *User) Summary() *UserSummary {
	return &UserSummary{
		ID:          u.ID,
		Name:        u.Name,
		Email:       u.Email,
		PhoneNumber: u.PhoneNumber,
		PhotoURL:    u.PhotoURL,
		Bio:         u.Bio,
		Role:        u.Role,
	}
}

// UserSummary is the public part of a user attached to properties, reviews, chats and viewings.
type UserSummary struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email,omitempty"`
	PhoneNumber *string   `json:"phoneNumber,omitempty"`
	PhotoURL    *string   `json:"photoUrl,omitempty"`
	Bio         string    `json:"bio,omitempty"`
	Role        Role      `json:"role,omitempty"`
}

// UserStats is the admin dashboard breakdown of accounts.
type UserStats struct {
	TotalUsers    int64 `json:"totalUsers"`
	Owners        int64 `json:"owners"`
	Admins        int64 `json:"admins"`
	RegularUsers  int64 `json:"regularUsers"`
	ActiveUsers   int64 `json:"activeUsers"`
	InactiveUsers int64 `json:"inactiveUsers"`
}
