// Package event decodes queued notification events against their JSON schema.
package event

import (
	"bytes"
	"embed"
	"encoding/json"

	"rentalhub/internal/domain/service"
	"rentalhub/internal/errors"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

const notificationEventSchema = "notification_event.json"

//go:embed schemas/*.json
var schemaFS embed.FS

// ErrMalformed marks a payload that can never be processed and must not be retried.
var ErrMalformed = errors.New("malformed notification event")

// Decoder validates raw payloads and decodes them into NotificationEvents.
type Decoder struct {
	schema *jsonschema.Schema
}

// NewDecoder compiles the embedded schema.
func NewDecoder() (*Decoder, error) {
	raw, err := schemaFS.ReadFile("schemas/" + notificationEventSchema)
	if err != nil {
		return nil, errors.Wrap(err, "read notification event schema")
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(notificationEventSchema, bytes.NewReader(raw)); err != nil {
		return nil, errors.Wrap(err, "add notification event schema")
	}
	schema, err := compiler.Compile(notificationEventSchema)
	if err != nil {
		return nil, errors.Wrap(err, "compile notification event schema")
	}

	return &Decoder{schema: schema}, nil
}

// Decode returns an error wrapping ErrMalformed when data is not a valid event.
func (d *Decoder) Decode(data []byte) (*service.NotificationEvent, error) {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.Join(ErrMalformed, err)
	}
	if err := d.schema.Validate(doc); err != nil {
		return nil, errors.Join(ErrMalformed, err)
	}

	var event service.NotificationEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return nil, errors.Join(ErrMalformed, err)
	}

	return &event, nil
}
