// Package google verifies Google Sign-In ID tokens.
package google

import (
	"context"
	"log/slog"

	"rentalhub/config"
	"rentalhub/internal/domain/service"
	"rentalhub/internal/errors"

	"google.golang.org/api/idtoken"
)

var validIssuers = map[string]bool{
	"https://accounts.google.com": true,
	"accounts.google.com":         true,
}

// validateFunc matches idtoken.Validate: signature, expiry and audience checks against Google's keys.
type validateFunc func(ctx context.Context, idToken, audience string) (*idtoken.Payload, error)

// AuthServiceImpl implements service.OAuthAuthService for Google ID tokens.
type AuthServiceImpl struct {
	clientID string
	validate validateFunc
	logger   *slog.Logger
}

// NewAuthService creates a new Google AuthService
func NewAuthService(cfg *config.Config, logger *slog.Logger) service.OAuthAuthService {
	clientID := ""
	if cfg.GoogleOAuth != nil {
		clientID = cfg.GoogleOAuth.ClientID
	}

	return &AuthServiceImpl{
		clientID: clientID,
		validate: idtoken.Validate,
		logger:   logger,
	}
}

// VerifyIDToken implements service.OAuthAuthService interface
func (s *AuthServiceImpl) VerifyIDToken(ctx context.Context, idToken string) (*service.OAuthUser, error) {
	if s.clientID == "" {
		return nil, errors.New("google client id is not configured")
	}

	payload, err := s.validate(ctx, idToken, s.clientID)
	if err != nil {
		s.logger.Warn("Google ID token rejected", slog.Any("error", err))

		return nil, errors.Wrap(err, "invalid ID token")
	}

	if !validIssuers[payload.Issuer] {
		return nil, errors.Errorf("invalid issuer: %s", payload.Issuer)
	}

	user := payloadToUser(payload)
	if !user.EmailVerified {
		return nil, errors.New("email not verified")
	}

	s.logger.Debug("Google ID token verified",
		slog.String("userID", user.ID),
		slog.String("email", user.Email))

	return user, nil
}

func payloadToUser(payload *idtoken.Payload) *service.OAuthUser {
	return &service.OAuthUser{
		ID:            payload.Subject,
		Email:         claimString(payload.Claims, "email"),
		Name:          claimString(payload.Claims, "name"),
		AvatarURL:     claimString(payload.Claims, "picture"),
		EmailVerified: claimBool(payload.Claims, "email_verified"),
		Locale:        claimString(payload.Claims, "locale"),
	}
}

func claimString(claims map[string]any, key string) string {
	s, _ := claims[key].(string)

	return s
}

// claimBool accepts both JSON booleans and the "true" string some Google tokens carry.
func claimBool(claims map[string]any, key string) bool {
	switch v := claims[key].(type) {
	case bool:
		return v
	case string:
		return v == "true"
	default:
		return false
	}
}
