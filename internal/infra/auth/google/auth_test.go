package google

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"rentalhub/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/idtoken"
)

func newTestAuthService(validate validateFunc) *AuthServiceImpl {
	return &AuthServiceImpl{
		clientID: "test_client_id",
		validate: validate,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestAuthService_VerifyIDToken(t *testing.T) {
	var gotAudience string
	svc := newTestAuthService(func(_ context.Context, _, audience string) (*idtoken.Payload, error) {
		gotAudience = audience

		return &idtoken.Payload{
			Issuer:  "https://accounts.google.com",
			Subject: "google-123",
			Claims: map[string]any{
				"email":          "test@example.com",
				"name":           "Test User",
				"picture":        "https://example.com/a.png",
				"email_verified": true,
			},
		}, nil
	})

	user, err := svc.VerifyIDToken(context.Background(), "token")
	require.NoError(t, err)
	assert.Equal(t, "test_client_id", gotAudience)
	assert.Equal(t, "google-123", user.ID)
	assert.Equal(t, "test@example.com", user.Email)
	assert.Equal(t, "Test User", user.Name)
	assert.Equal(t, "https://example.com/a.png", user.AvatarURL)
	assert.True(t, user.EmailVerified)
}

func TestAuthService_VerifyIDToken_Failures(t *testing.T) {
	tests := []struct {
		name    string
		payload *idtoken.Payload
		err     error
		wantErr string
	}{
		{
			name:    "validation error",
			err:     errors.New("idtoken: token expired"),
			wantErr: "invalid ID token",
		},
		{
			name:    "foreign issuer",
			payload: &idtoken.Payload{Issuer: "https://evil.example.com", Claims: map[string]any{"email_verified": true}},
			wantErr: "invalid issuer",
		},
		{
			name:    "unverified email",
			payload: &idtoken.Payload{Issuer: "accounts.google.com", Claims: map[string]any{"email_verified": "false"}},
			wantErr: "email not verified",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestAuthService(func(context.Context, string, string) (*idtoken.Payload, error) {
				return tt.payload, tt.err
			})

			user, err := svc.VerifyIDToken(context.Background(), "token")
			require.Error(t, err)
			assert.Nil(t, user)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestAuthService_MissingClientID(t *testing.T) {
	svc := newTestAuthService(nil)
	svc.clientID = ""

	_, err := svc.VerifyIDToken(context.Background(), "token")
	assert.Error(t, err)
}
