package handler

import (
	"context"
	"log/slog"
	"net/http"

	deliverycontext "rentalhub/internal/delivery/context"
	"rentalhub/internal/delivery/worker/event"
	"rentalhub/internal/domain/entity"
	domainerrors "rentalhub/internal/domain/errors"
	"rentalhub/internal/domain/service"
	"rentalhub/internal/errors"
	"rentalhub/internal/usecase"

	"github.com/google/uuid"
	"go.uber.org/fx"
)

// EventProcessorParams holds dependencies for EventProcessor, injected by Fx.
type EventProcessorParams struct {
	fx.In

	Logger         *slog.Logger
	NotificationUC usecase.NotificationUsecase
}

// EventProcessor executes queued notification events whatever transport delivered them.
type EventProcessor struct {
	logger         *slog.Logger
	decoder        *event.Decoder
	notificationUC usecase.NotificationUsecase
}

// NewEventProcessor compiles the event schema once for the worker's lifetime.
func NewEventProcessor(params EventProcessorParams) (*EventProcessor, error) {
	decoder, err := event.NewDecoder()
	if err != nil {
		return nil, err
	}

	return &EventProcessor{
		logger:         params.Logger,
		decoder:        decoder,
		notificationUC: params.NotificationUC,
	}, nil
}

// Process runs the fan-out described by data. Malformed or rejected events are logged and
// dropped. A non-nil error means the event should be delivered again.
func (p *EventProcessor) Process(ctx context.Context, data []byte, requestID string) error {
	evt, err := p.decoder.Decode(data)
	if err != nil {
		p.logger.WarnContext(ctx, "[Worker] Dropping malformed notification event",
			slog.String(deliverycontext.AttrRequestID, requestID),
			slog.Any("error", err))

		return nil
	}

	requestID = resolveRequestID(ctx, requestID, evt)
	ctx, reqLogger := deliverycontext.WithRequest(ctx, requestID, p.logger)

	reqLogger.Info("[Worker] Processing notification event",
		slog.String("audience", evt.Audience),
		slog.String("type", evt.Type))

	err = p.notificationUC.Broadcast(ctx, evt.Audience, service.NotificationMessage{
		Type:  entity.NotificationType(evt.Type),
		Title: evt.Title,
		Body:  evt.Body,
		Data:  evt.Data,
	})
	if err == nil {
		reqLogger.Info("[Worker] Notification event processed")

		return nil
	}

	var appErr domainerrors.AppError
	if errors.As(err, &appErr) && appErr.HTTPCode() < http.StatusInternalServerError {
		reqLogger.Warn("[Worker] Dropping rejected notification event", slog.Any("error", err))

		return nil
	}
	reqLogger.Error("[Worker] Failed to process notification event", slog.Any("error", err))

	return errors.Wrap(err, "broadcast notification event")
}

// resolveRequestID prefers the transport's ID, then the event's, then the context's, then a fresh one.
func resolveRequestID(ctx context.Context, transportID string, evt *service.NotificationEvent) string {
	if transportID != "" {
		return transportID
	}
	if evt.RequestID != "" {
		return evt.RequestID
	}
	if id := deliverycontext.GetRequestIDFromContext(ctx); id != "" {
		return id
	}

	return uuid.NewString()
}
