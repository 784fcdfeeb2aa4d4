package impl

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	deliverycontext "rentalhub/internal/delivery/context"
	"rentalhub/internal/domain/constants"
	"rentalhub/internal/domain/entity"
	domainerrors "rentalhub/internal/domain/errors"
	"rentalhub/internal/domain/repository"
	"rentalhub/internal/domain/service"
	"rentalhub/internal/domain/validation"
	"rentalhub/internal/errors"
	"rentalhub/internal/usecase"

	"github.com/google/uuid"
	"go.uber.org/fx"
)

const messagePreviewLength = 100

// chatService implements the ChatUsecase interface.
type chatService struct {
	txManager   repository.TransactionManager
	chatRepo    repository.ChatRepository
	messageRepo repository.MessageRepository
	userRepo    repository.UserRepository
	sender      service.NotificationSender
	logger      *slog.Logger
}

// ChatServiceParams holds dependencies for ChatService, injected by Fx.
type ChatServiceParams struct {
	fx.In

	TxManager   repository.TransactionManager
	ChatRepo    repository.ChatRepository
	MessageRepo repository.MessageRepository
	UserRepo    repository.UserRepository
	Sender      service.NotificationSender
	Logger      *slog.Logger
}

// NewChatService is the constructor for chatService.
func NewChatService(params ChatServiceParams) usecase.ChatUsecase {
	return &chatService{
		txManager:   params.TxManager,
		chatRepo:    params.ChatRepo,
		messageRepo: params.MessageRepo,
		userRepo:    params.UserRepo,
		sender:      params.Sender,
		logger:      params.Logger,
	}
}

func (srv *chatService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

func (srv *chatService) ListChats(ctx context.Context, actor entity.Actor) ([]*entity.ChatView, error) {
	chats, err := srv.chatRepo.ListForUser(ctx, actor.ID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list chats")
	}

	views := make([]*entity.ChatView, 0, len(chats))
	for _, chat := range chats {
		views = append(views, chat.ViewFor(actor.ID))
	}

	return views, nil
}

// UnreadCount sums the caller's maintained per-chat counters.
func (srv *chatService) UnreadCount(ctx context.Context, actor entity.Actor) (int64, error) {
	total, err := srv.chatRepo.TotalUnread(ctx, actor.ID)
	if err != nil {
		return 0, errors.Wrap(err, "failed to count unread messages")
	}

	return total, nil
}

func (srv *chatService) ListSupportChats(ctx context.Context, actor entity.Actor) ([]*entity.Chat, error) {
	if !actor.IsAdmin() {
		return nil, errAdminOnly
	}

	chats, err := srv.chatRepo.ListAdminSupport(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list support chats")
	}

	return chats, nil
}

// OpenChat returns the chat of the requested kind with another user, creating it on first use.
func (srv *chatService) OpenChat(ctx context.Context, actor entity.Actor, input *usecase.OpenChatInput) (*entity.ChatView, error) {
	if input.UserID == uuid.Nil {
		return nil, validation.Fail("userId", "User ID is required")
	}
	if input.UserID == actor.ID {
		return nil, domainerrors.BadRequest("You cannot start a chat with yourself")
	}

	return srv.getOrCreate(ctx, actor, input.UserID, input.IsAdminSupport)
}

// OpenSupportChat connects the caller with the first active admin.
func (srv *chatService) OpenSupportChat(ctx context.Context, actor entity.Actor) (*entity.ChatView, error) {
	admins, err := srv.userRepo.FindActiveAdmins(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load admins")
	}

	for _, admin := range admins {
		if admin.ID != actor.ID {
			return srv.getOrCreate(ctx, actor, admin.ID, true)
		}
	}

	return nil, domainerrors.ErrNotFound.WithMessage("No admin available for support")
}

func (srv *chatService) getOrCreate(ctx context.Context, actor entity.Actor, otherID uuid.UUID, isAdminSupport bool) (*entity.ChatView, error) {
	var chat *entity.Chat
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		chatRepo := repoFactory.NewChatRepository()

		if _, err := repoFactory.NewUserRepository().FindByID(ctx, otherID); err != nil {
			return notFound(err, repository.ErrUserNotFound, "User", "failed to find user")
		}

		var err error
		chat, err = chatRepo.FindBetween(ctx, actor.ID, otherID, isAdminSupport)
		if err == nil {
			return nil
		}
		if !errors.Is(err, repository.ErrChatNotFound) {
			return errors.Wrap(err, "failed to find chat")
		}

		created := entity.NewChat(actor.ID, otherID, isAdminSupport)
		if err := chatRepo.Create(ctx, created); err != nil {
			return errors.Wrap(err, "failed to create chat")
		}
		srv.log(ctx).Info("Chat created", slog.String("chatID", created.ID.String()), slog.Bool("isAdminSupport", isAdminSupport))

		chat, err = chatRepo.FindByID(ctx, created.ID)
		if err != nil {
			return errors.Wrap(err, "failed to reload chat")
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return chat.ViewFor(actor.ID), nil
}

func (srv *chatService) ListMessages(
	ctx context.Context,
	actor entity.Actor,
	chatID uuid.UUID,
	page entity.PageRequest,
) (*entity.Page[*entity.Message], error) {
	if _, err := srv.participantChat(ctx, srv.chatRepo, actor, chatID, "Not authorized to view this chat"); err != nil {
		return nil, err
	}

	page = defaultPage(page, constants.ChatMessagesDefaultLimit)
	messages, total, err := srv.messageRepo.ListVisible(ctx, chatID, actor.ID, page)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list messages")
	}

	return pageOf(messages, total, page), nil
}

// SendMessage stores the message, advances both summaries and notifies the receiver.
func (srv *chatService) SendMessage(ctx context.Context, actor entity.Actor, chatID uuid.UUID, content string) (*entity.Message, error) {
	if strings.TrimSpace(content) == "" {
		return nil, validation.Fail("content", "Message content is required")
	}

	var (
		chat    *entity.Chat
		message *entity.Message
	)
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		var err error
		chat, err = srv.participantChat(ctx, repoFactory.NewChatRepository(), actor, chatID, "Not authorized to send messages in this chat")
		if err != nil {
			return err
		}

		message = entity.NewMessage(chat.ID, actor.ID, chat.Other(actor.ID).UserID, content)
		if err := validation.Struct(message); err != nil {
			return err
		}

		return recordMessage(ctx, repoFactory, message)
	})
	if err != nil {
		return nil, err
	}
	if own := chat.State(actor.ID); own != nil {
		message.Sender = own.User
	}

	notificationType := entity.NotificationTypeMessage
	if chat.IsAdminSupport {
		notificationType = entity.NotificationTypeSupportMessage
	}
	notifyUser(ctx, srv.log(ctx), srv.sender, message.ReceiverID, service.NotificationMessage{
		Type:  notificationType,
		Title: "New Message",
		Body:  fmt.Sprintf("%s: %s", actor.Name, message.Preview(messagePreviewLength)),
		Data: map[string]any{
			"chatId":    chat.ID.String(),
			"messageId": message.ID.String(),
		},
	})

	return message, nil
}

// DeleteMessage hides the message from the caller only and refreshes the caller's summary.
func (srv *chatService) DeleteMessage(ctx context.Context, actor entity.Actor, chatID, messageID uuid.UUID) error {
	return srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		messageRepo := repoFactory.NewMessageRepository()

		if _, err := srv.participantChat(ctx, repoFactory.NewChatRepository(), actor, chatID, "Not authorized to delete messages in this chat"); err != nil {
			return err
		}

		message, err := messageRepo.FindByID(ctx, messageID)
		if err != nil {
			return notFound(err, repository.ErrMessageNotFound, "Message", "failed to find message")
		}
		if message.ChatID != chatID {
			return domainerrors.BadRequest("Message does not belong to this chat")
		}

		if err := messageRepo.HideFor(ctx, messageID, actor.ID); err != nil {
			return errors.Wrap(err, "failed to delete message")
		}

		return refreshParticipantSummary(ctx, repoFactory, chatID, actor.ID)
	})
}

// MarkRead zeroes the caller's counter and flags every message they received in the chat.
func (srv *chatService) MarkRead(ctx context.Context, actor entity.Actor, chatID uuid.UUID) error {
	return srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		if _, err := srv.participantChat(ctx, repoFactory.NewChatRepository(), actor, chatID, "Not authorized to view this chat"); err != nil {
			return err
		}

		return markChatRead(ctx, repoFactory, chatID, actor.ID)
	})
}

// participantChat loads the chat and checks the caller takes part in it.
func (srv *chatService) participantChat(
	ctx context.Context,
	chatRepo repository.ChatRepository,
	actor entity.Actor,
	chatID uuid.UUID,
	forbidden string,
) (*entity.Chat, error) {
	chat, err := chatRepo.FindByID(ctx, chatID)
	if err != nil {
		return nil, notFound(err, repository.ErrChatNotFound, "Chat", "failed to find chat")
	}
	if !chat.HasParticipant(actor.ID) {
		return nil, domainerrors.Forbidden(forbidden)
	}

	return chat, nil
}
