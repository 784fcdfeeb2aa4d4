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

// ChatHandlerParams holds dependencies for ChatHandler, injected by Fx.
type ChatHandlerParams struct {
	fx.In

	ChatUC usecase.ChatUsecase
}

// ChatHandler serves two-party chats and their messages.
type ChatHandler struct {
	chatUC usecase.ChatUsecase
}

// NewChatHandler is the constructor for ChatHandler.
func NewChatHandler(params ChatHandlerParams) *ChatHandler {
	return &ChatHandler{chatUC: params.ChatUC}
}

// OpenChatRequest is the body of POST /chats.
type OpenChatRequest struct {
	UserID         uuid.UUID `json:"userId"`
	IsAdminSupport bool      `json:"isAdminSupport"`
}

// SendMessageRequest is the body of POST /chats/:chatId/messages.
type SendMessageRequest struct {
	Content string `json:"content"`
}

type chatResponse struct {
	Chat *entity.ChatView `json:"chat"`
}

// List returns the caller's view of each chat, most recent first.
func (h *ChatHandler) List(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}

	chats, err := h.chatUC.ListChats(c.Request().Context(), actor)
	if err != nil {
		return err
	}

	return response.OK(c, map[string][]*entity.ChatView{"chats": chats}, "")
}

func (h *ChatHandler) UnreadCount(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}

	count, err := h.chatUC.UnreadCount(c.Request().Context(), actor)
	if err != nil {
		return err
	}

	return response.OK(c, map[string]int64{"unreadCount": count}, "")
}

func (h *ChatHandler) ListSupport(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}

	chats, err := h.chatUC.ListSupportChats(c.Request().Context(), actor)
	if err != nil {
		return err
	}

	return response.OK(c, map[string][]*entity.Chat{"chats": chats}, "")
}

// Open returns the chat with another user, creating it on first use.
func (h *ChatHandler) Open(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var req OpenChatRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	chat, err := h.chatUC.OpenChat(c.Request().Context(), actor, &usecase.OpenChatInput{
		UserID:         req.UserID,
		IsAdminSupport: req.IsAdminSupport,
	})
	if err != nil {
		return err
	}

	return response.OK(c, chatResponse{Chat: chat}, "")
}

func (h *ChatHandler) OpenSupport(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}

	chat, err := h.chatUC.OpenSupportChat(c.Request().Context(), actor)
	if err != nil {
		return err
	}

	return response.OK(c, chatResponse{Chat: chat}, "")
}

func (h *ChatHandler) ListMessages(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	chatID, err := paramID(c, "chatId", "chat")
	if err != nil {
		return err
	}

	page, err := h.chatUC.ListMessages(c.Request().Context(), actor, chatID, pageRequest(c, constants.ChatMessagesDefaultLimit))
	if err != nil {
		return err
	}

	return response.Page(c, page, "")
}

func (h *ChatHandler) SendMessage(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	chatID, err := paramID(c, "chatId", "chat")
	if err != nil {
		return err
	}
	var req SendMessageRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	msg, err := h.chatUC.SendMessage(c.Request().Context(), actor, chatID, req.Content)
	if err != nil {
		return err
	}

	return response.Created(c, map[string]*entity.Message{"message": msg}, "Message sent")
}

// DeleteMessage hides a message from the caller only.
func (h *ChatHandler) DeleteMessage(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	chatID, err := paramID(c, "chatId", "chat")
	if err != nil {
		return err
	}
	messageID, err := paramID(c, "messageId", "message")
	if err != nil {
		return err
	}

	if err := h.chatUC.DeleteMessage(c.Request().Context(), actor, chatID, messageID); err != nil {
		return err
	}

	return response.OK(c, nil, "Message deleted")
}

func (h *ChatHandler) MarkRead(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	chatID, err := paramID(c, "chatId", "chat")
	if err != nil {
		return err
	}

	if err := h.chatUC.MarkRead(c.Request().Context(), actor, chatID); err != nil {
		return err
	}

	return response.OK(c, nil, "Messages marked as read")
}
