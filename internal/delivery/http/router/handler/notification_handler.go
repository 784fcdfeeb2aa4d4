package handler

import (
	"rentalhub/internal/delivery/http/response"
	"rentalhub/internal/domain/constants"
	"rentalhub/internal/domain/entity"
	"rentalhub/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// NotificationHandlerParams holds dependencies for NotificationHandler, injected by Fx.
type NotificationHandlerParams struct {
	fx.In

	NotificationUC usecase.NotificationUsecase
}

// NotificationHandler serves the caller's notification inbox.
type NotificationHandler struct {
	notificationUC usecase.NotificationUsecase
}

// NewNotificationHandler is the constructor for NotificationHandler
func NewNotificationHandler(params NotificationHandlerParams) *NotificationHandler {
	return &NotificationHandler{notificationUC: params.NotificationUC}
}

// CreateNotificationRequest is the body of the admin-only POST /notifications.
type CreateNotificationRequest struct {
	UserID uuid.UUID               `json:"userId" validate:"required"`
	Type   entity.NotificationType `json:"type"`
	Title  string                  `json:"title" validate:"required"`
	Body   string                  `json:"body" validate:"required"`
	Data   map[string]any          `json:"data"`
}

func (h *NotificationHandler) List(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}

	page, err := h.notificationUC.List(c.Request().Context(), actor, pageRequest(c, constants.DefaultLongPageLimit))
	if err != nil {
		return err
	}

	return response.Page(c, page, "")
}

func (h *NotificationHandler) UnreadCount(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}

	count, err := h.notificationUC.UnreadCount(c.Request().Context(), actor)
	if err != nil {
		return err
	}

	return response.OK(c, map[string]int64{"unreadCount": count}, "")
}

func (h *NotificationHandler) MarkRead(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id", "notification")
	if err != nil {
		return err
	}

	if err := h.notificationUC.MarkRead(c.Request().Context(), actor, id); err != nil {
		return err
	}

	return response.OK(c, nil, "Notification marked as read")
}

func (h *NotificationHandler) MarkAllRead(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}

	count, err := h.notificationUC.MarkAllRead(c.Request().Context(), actor)
	if err != nil {
		return err
	}

	return response.OK(c, map[string]int64{"modifiedCount": count}, "All notifications marked as read")
}

func (h *NotificationHandler) Delete(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id", "notification")
	if err != nil {
		return err
	}

	if err := h.notificationUC.Delete(c.Request().Context(), actor, id); err != nil {
		return err
	}

	return response.OK(c, nil, "Notification deleted")
}

func (h *NotificationHandler) DeleteAll(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}

	count, err := h.notificationUC.DeleteAll(c.Request().Context(), actor)
	if err != nil {
		return err
	}

	return response.OK(c, map[string]int64{"deletedCount": count}, "All notifications deleted")
}

// Create addresses a notification to one user. Admin only.
func (h *NotificationHandler) Create(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var req CreateNotificationRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	notification, err := h.notificationUC.Create(c.Request().Context(), actor, &usecase.CreateNotificationInput{
		UserID: req.UserID,
		Type:   req.Type,
		Title:  req.Title,
		Body:   req.Body,
		Data:   req.Data,
	})
	if err != nil {
		return err
	}

	return response.Created(c, map[string]*entity.Notification{"notification": notification}, "Notification created")
}
