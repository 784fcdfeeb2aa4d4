package handler

import (
	"rentalhub/internal/delivery/http/response"
	"rentalhub/internal/domain/entity"
	"rentalhub/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// AuthHandlerParams holds dependencies for AuthHandler, injected by Fx.
type AuthHandlerParams struct {
	fx.In

	AuthUC usecase.AuthUsecase
}

// AuthHandler serves the account and session endpoints of the caller.
type AuthHandler struct {
	authUC usecase.AuthUsecase
}

// NewAuthHandler is the constructor for AuthHandler.
func NewAuthHandler(params AuthHandlerParams) *AuthHandler {
	return &AuthHandler{authUC: params.AuthUC}
}

// RegisterRequest is the body of POST /auth/register.
type RegisterRequest struct {
	Name        string  `json:"name"`
	Email       string  `json:"email"`
	Password    string  `json:"password"`
	Role        string  `json:"role"`
	PhoneNumber *string `json:"phoneNumber"`
}

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// PhoneLoginRequest is the body of POST /auth/login/phone.
type PhoneLoginRequest struct {
	PhoneNumber string `json:"phoneNumber" validate:"required"`
	Password    string `json:"password" validate:"required"`
}

// GoogleLoginRequest is the body of POST /auth/google.
type GoogleLoginRequest struct {
	IDToken string `json:"idToken" validate:"required"`
}

// RefreshTokenRequest is the body of POST /auth/refresh-token.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// SetPasswordRequest is the body of POST /auth/set-password.
type SetPasswordRequest struct {
	Password string `json:"password"`
}

// ChangePasswordRequest is the body of PUT /auth/change-password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// UpdateProfileRequest is the body of PUT /auth/profile.
type UpdateProfileRequest struct {
	Name        *string `json:"name"`
	PhoneNumber *string `json:"phoneNumber"`
	PhotoURL    *string `json:"photoUrl"`
	Bio         *string `json:"bio"`
	RemovePhoto bool    `json:"removePhoto"`
}

// UpdatePreferencesRequest is the body of PUT /auth/preferences.
type UpdatePreferencesRequest struct {
	IsDarkMode *bool   `json:"isDarkMode"`
	Locale     *string `json:"locale"`
}

// FCMTokenRequest is the body of PUT /auth/fcm-token. A null token unregisters the device.
type FCMTokenRequest struct {
	FCMToken *string `json:"fcmToken"`
}

type authResponse struct {
	User         *entity.User `json:"user,omitempty"`
	Token        string       `json:"token"`
	RefreshToken string       `json:"refreshToken"`
}

type userResponse struct {
	User *entity.User `json:"user"`
}

func newAuthResponse(output *usecase.AuthOutput) authResponse {
	return authResponse{User: output.User, Token: output.AccessToken, RefreshToken: output.RefreshToken}
}

// Register opens a password account.
func (h *AuthHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	output, err := h.authUC.Register(c.Request().Context(), &usecase.RegisterInput{
		Name:        req.Name,
		Email:       req.Email,
		Password:    req.Password,
		Role:        entity.Role(req.Role),
		PhoneNumber: req.PhoneNumber,
	})
	if err != nil {
		return err
	}

	return response.Created(c, newAuthResponse(output), "User registered successfully")
}

// Login handles the user login request.
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	output, err := h.authUC.Login(c.Request().Context(), &usecase.LoginInput{Email: req.Email, Password: req.Password})
	if err != nil {
		return err
	}

	return response.OK(c, newAuthResponse(output), "Login successful")
}

// LoginWithPhone logs in with a registered phone number.
func (h *AuthHandler) LoginWithPhone(c echo.Context) error {
	var req PhoneLoginRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	output, err := h.authUC.LoginWithPhone(c.Request().Context(), &usecase.PhoneLoginInput{
		PhoneNumber: req.PhoneNumber,
		Password:    req.Password,
	})
	if err != nil {
		return err
	}

	return response.OK(c, newAuthResponse(output), "Login successful")
}

// Google signs in with a Google ID token, creating the account on first use.
func (h *AuthHandler) Google(c echo.Context) error {
	var req GoogleLoginRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	output, err := h.authUC.LoginWithGoogle(c.Request().Context(), &usecase.GoogleLoginInput{IDToken: req.IDToken})
	if err != nil {
		return err
	}

	return response.OK(c, newAuthResponse(output), "Login successful")
}

// RefreshToken handles the token refresh request.
func (h *AuthHandler) RefreshToken(c echo.Context) error {
	var req RefreshTokenRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	output, err := h.authUC.RefreshToken(c.Request().Context(), req.RefreshToken)
	if err != nil {
		return err
	}

	return response.OK(c, newAuthResponse(output), "Token refreshed successfully")
}

// Me returns the caller's profile.
func (h *AuthHandler) Me(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}

	user, err := h.authUC.GetMe(c.Request().Context(), actor)
	if err != nil {
		return err
	}

	return response.OK(c, userResponse{User: user}, "")
}

// SetPassword gives a Google-only account a password.
func (h *AuthHandler) SetPassword(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var req SetPasswordRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	output, err := h.authUC.SetPassword(c.Request().Context(), actor, req.Password)
	if err != nil {
		return err
	}

	return response.OK(c, newAuthResponse(output), "Password set successfully")
}

func (h *AuthHandler) ChangePassword(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var req ChangePasswordRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	output, err := h.authUC.ChangePassword(c.Request().Context(), actor, &usecase.ChangePasswordInput{
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
	})
	if err != nil {
		return err
	}

	return response.OK(c, newAuthResponse(output), "Password changed successfully")
}

func (h *AuthHandler) UpdateProfile(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var req UpdateProfileRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	user, err := h.authUC.UpdateProfile(c.Request().Context(), actor, &usecase.UpdateProfileInput{
		Name:        req.Name,
		PhoneNumber: req.PhoneNumber,
		PhotoURL:    req.PhotoURL,
		Bio:         req.Bio,
		RemovePhoto: req.RemovePhoto,
	})
	if err != nil {
		return err
	}

	return response.OK(c, userResponse{User: user}, "Profile updated successfully")
}

func (h *AuthHandler) UpdatePreferences(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var req UpdatePreferencesRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	user, err := h.authUC.UpdatePreferences(c.Request().Context(), actor, &usecase.UpdatePreferencesInput{
		IsDarkMode: req.IsDarkMode,
		Locale:     req.Locale,
	})
	if err != nil {
		return err
	}

	return response.OK(c, userResponse{User: user}, "Preferences updated successfully")
}

func (h *AuthHandler) UpdateFCMToken(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var req FCMTokenRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	if err := h.authUC.UpdateFCMToken(c.Request().Context(), actor, req.FCMToken); err != nil {
		return err
	}

	return response.OK(c, nil, "FCM token updated")
}

// Logout unregisters the caller's push token. Tokens themselves expire on their own.
func (h *AuthHandler) Logout(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}

	if err := h.authUC.Logout(c.Request().Context(), actor); err != nil {
		return err
	}

	return response.OK(c, nil, "Logged out successfully")
}
