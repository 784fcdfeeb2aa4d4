package pubsub

import (
	"encoding/base64"
	"encoding/json"
	"time"

	"rentalhub/internal/domain/service"
	"rentalhub/internal/errors"

	"github.com/google/uuid"
)

// PubSubPushMessage represents the structure of a Pub/Sub push message
// This mimics the format Google Pub/Sub uses when pushing to HTTP endpoints
type PubSubPushMessage struct {
	Message struct {
		Data        string            `json:"data"`
		Attributes  map[string]string `json:"attributes,omitempty"`
		MessageID   string            `json:"messageId"`
		PublishTime string            `json:"publishTime"`
	} `json:"message"`
	Subscription string `json:"subscription"`
}

// NewPushMessage wraps an event the way a Pub/Sub push subscription delivers it.
func NewPushMessage(event *service.NotificationEvent, subscription string) (*PubSubPushMessage, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	msg := &PubSubPushMessage{Subscription: subscription}
	msg.Message.Data = base64.StdEncoding.EncodeToString(data)
	msg.Message.Attributes = eventAttributes(event)
	msg.Message.MessageID = uuid.NewString()
	msg.Message.PublishTime = time.Now().UTC().Format(time.RFC3339)

	return msg, nil
}

// DecodeData returns the raw event payload carried by the push message.
func (m *PubSubPushMessage) DecodeData() ([]byte, error) {
	data, err := base64.StdEncoding.DecodeString(m.Message.Data)
	if err != nil {
		return nil, errors.Wrap(err, "failed to decode push message data")
	}

	return data, nil
}

// eventAttributes are the message attributes used for subscription filtering and tracing.
func eventAttributes(event *service.NotificationEvent) map[string]string {
	attributes := map[string]string{
		"audience": event.Audience,
		"type":     event.Type,
	}
	if event.RequestID != "" {
		attributes["request_id"] = event.RequestID
	}

	return attributes
}
