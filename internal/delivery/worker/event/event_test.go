package event

import (
	"testing"

	"rentalhub/internal/domain/service"
	"rentalhub/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecoder_Decode(t *testing.T) {
	decoder, err := NewDecoder()
	require.NoError(t, err)

	t.Run("valid event", func(t *testing.T) {
		event, err := decoder.Decode([]byte(`{
			"requestId": "req-1",
			"audience": "admins",
			"type": "approval",
			"title": "New Property Pending",
			"body": "A listing is waiting for review",
			"data": {"propertyId": "p-1"}
		}`))
		require.NoError(t, err)
		assert.Equal(t, "req-1", event.RequestID)
		assert.Equal(t, service.AudienceAdmins, event.Audience)
		assert.Equal(t, "approval", event.Type)
		assert.Equal(t, "p-1", event.Data["propertyId"])
	})

	tests := []struct {
		name    string
		payload string
	}{
		{name: "not json", payload: `{"audience":`},
		{name: "missing title", payload: `{"audience":"admins","type":"system","body":"b"}`},
		{name: "unknown audience", payload: `{"audience":"everyone","type":"system","title":"t","body":"b"}`},
		{name: "unknown type", payload: `{"audience":"admins","type":"spam","title":"t","body":"b"}`},
		{name: "empty body", payload: `{"audience":"admins","type":"system","title":"t","body":""}`},
		{name: "data not an object", payload: `{"audience":"admins","type":"system","title":"t","body":"b","data":[1]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decoder.Decode([]byte(tt.payload))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformed))
		})
	}
}
