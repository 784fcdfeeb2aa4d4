package notification

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"rentalhub/config"
	"rentalhub/internal/errors"

	"firebase.google.com/go/v4/messaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMessagingClient struct {
	sent []*messaging.Message
	err  error
}

func (f *fakeMessagingClient) Send(_ context.Context, message *messaging.Message) (string, error) {
	f.sent = append(f.sent, message)

	return "projects/test/messages/1", f.err
}

func TestFirebaseService_SendSingleNotification(t *testing.T) {
	client := &fakeMessagingClient{}
	svc := &firebaseService{client: client}

	err := svc.SendSingleNotification(context.Background(), "device-token", "New Message", "Alice: hi", map[string]string{"chatId": "c1"})
	require.NoError(t, err)
	require.Len(t, client.sent, 1)
	assert.Equal(t, "device-token", client.sent[0].Token)
	assert.Equal(t, "New Message", client.sent[0].Notification.Title)
	assert.Equal(t, "c1", client.sent[0].Data["chatId"])

	client.err = errors.New("unregistered")
	err = svc.SendSingleNotification(context.Background(), "device-token", "t", "b", nil)
	assert.ErrorContains(t, err, "failed to send notification")
}

func TestNewPushService_DisabledWithoutFirebase(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	svc, err := NewPushService(context.Background(), &config.Config{}, logger)
	require.NoError(t, err)
	assert.IsType(t, &noopPushService{}, svc)
	assert.NoError(t, svc.SendSingleNotification(context.Background(), "t", "title", "body", nil))
}
