// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"

	"rentalhub/internal/domain/entity"
)

// --- Input DTOs ---

// RegisterInput defines the data required to open an account with a password.
type RegisterInput struct {
	Name        string
	Email       string
	Password    string
	Role        entity.Role // owner or user; anything else registers a user
	PhoneNumber *string
}

// LoginInput defines the data required for a user to log in.
type LoginInput struct {
	Email    string
	Password string
}

// PhoneLoginInput logs in with a registered phone number.
type PhoneLoginInput struct {
	PhoneNumber string
	Password    string
}

// GoogleLoginInput carries the ID token issued to the client by Google Sign-In.
type GoogleLoginInput struct {
	IDToken string
}

// UpdateProfileInput holds the profile fields to change. Nil fields are left untouched.
type UpdateProfileInput struct {
	Name        *string
	PhoneNumber *string
	PhotoURL    *string
	Bio         *string
	RemovePhoto bool // takes precedence over PhotoURL
}

// UpdatePreferencesInput holds the UI preferences to change.
type UpdatePreferencesInput struct {
	IsDarkMode *bool
	Locale     *string
}

// ChangePasswordInput replaces the password. CurrentPassword is checked only when one is set.
type ChangePasswordInput struct {
	CurrentPassword string
	NewPassword     string
}

// --- Output DTOs ---

// AuthOutput returns the generated tokens after a successful authentication.
type AuthOutput struct {
	AccessToken  string
	RefreshToken string
	User         *entity.User
}

// AuthUsecase defines the account and session operations of the caller.
type AuthUsecase interface {
	Register(ctx context.Context, input *RegisterInput) (*AuthOutput, error)
	Login(ctx context.Context, input *LoginInput) (*AuthOutput, error)
	LoginWithPhone(ctx context.Context, input *PhoneLoginInput) (*AuthOutput, error)
	LoginWithGoogle(ctx context.Context, input *GoogleLoginInput) (*AuthOutput, error)
	RefreshToken(ctx context.Context, refreshToken string) (*AuthOutput, error)

	// Authenticate resolves an access token to its active user.
	Authenticate(ctx context.Context, accessToken string) (*entity.User, error)

	GetMe(ctx context.Context, actor entity.Actor) (*entity.User, error)
	SetPassword(ctx context.Context, actor entity.Actor, password string) (*AuthOutput, error)
	ChangePassword(ctx context.Context, actor entity.Actor, input *ChangePasswordInput) (*AuthOutput, error)
	UpdateProfile(ctx context.Context, actor entity.Actor, input *UpdateProfileInput) (*entity.User, error)
	UpdatePreferences(ctx context.Context, actor entity.Actor, input *UpdatePreferencesInput) (*entity.User, error)
	UpdateFCMToken(ctx context.Context, actor entity.Actor, token *string) error
	Logout(ctx context.Context, actor entity.Actor) error
}
