package main

import (
	"context"
	"log/slog"
	"os"

	"rentalhub/config"
	"rentalhub/internal/delivery"
	"rentalhub/internal/delivery/http"
	"rentalhub/internal/delivery/http/middleware"
	"rentalhub/internal/delivery/http/router/handler"
	"rentalhub/internal/domain/service"
	"rentalhub/internal/infra/auth"
	"rentalhub/internal/infra/auth/google"
	logs "rentalhub/internal/infra/log"
	"rentalhub/internal/infra/notification"
	"rentalhub/internal/infra/persistence/postgres"
	"rentalhub/internal/infra/pubsub"
	"rentalhub/internal/infra/qrcode"
	"rentalhub/internal/infra/storage"
	"rentalhub/internal/usecase/impl"

	"go.uber.org/fx"
)

type startServerParams struct {
	fx.In
	fx.Lifecycle
	fx.Shutdowner

	Deliveries []delivery.Delivery `group:"deliveries"`
}

func main() {
	fx.New(
		injectInfra(),
		injectRepo(),
		injectService(),
		injectUsecase(),
		injectDelivery(),
		injectMiddleware(),
		injectHandler(),
		fx.Invoke(
			startServer,
		),
	).Run()
}

func injectInfra() fx.Option {
	return fx.Provide(
		config.New,
		logs.New,
		context.Background,
		postgres.New,
	)
}

func injectRepo() fx.Option {
	return fx.Options(
		fx.Provide(
			postgres.NewTransactionManager,
			postgres.NewUserRepository,
			postgres.NewPropertyRepository,
			postgres.NewReviewRepository,
			postgres.NewFavoriteRepository,
			postgres.NewViewingRepository,
			postgres.NewChatRepository,
			postgres.NewMessageRepository,
			postgres.NewNotificationRepository,
		),
	)
}

func injectService() fx.Option {
	return fx.Options(
		fx.Provide(
			auth.NewBcryptHasher,
			auth.NewJWTService,
			google.NewAuthService,
			notification.NewPushService,
			newQRCodeService,
			storage.NewObjectStorage,
			pubsub.NewEventPublisher,
			impl.NewNotificationSender,
			impl.NewAdminNotifier,
		),
	)
}

// newQRCodeService creates a QR code service with dependency injection
func newQRCodeService(cfg *config.Config) service.QRCodeService {
	return qrcode.NewQRCodeService(cfg.QRCode)
}

func injectUsecase() fx.Option {
	return fx.Options(
		fx.Provide(
			impl.NewAuthService,
			impl.NewUserService,
			impl.NewPropertyService,
			impl.NewReviewService,
			impl.NewFavoriteService,
			impl.NewViewingService,
			impl.NewChatService,
			impl.NewNotificationService,
			impl.NewUploadService,
		),
	)
}

func injectMiddleware() fx.Option {
	return fx.Options(
		fx.Provide(
			middleware.NewAuthMiddleware,
			middleware.NewErrorMiddleware,
		),
	)
}

func injectHandler() fx.Option {
	return fx.Options(
		fx.Provide(
			handler.NewAuthHandler,
			handler.NewUserHandler,
			handler.NewPropertyHandler,
			handler.NewReviewHandler,
			handler.NewFavoriteHandler,
			handler.NewViewingHandler,
			handler.NewChatHandler,
			handler.NewNotificationHandler,
			handler.NewUploadHandler,
		),
	)
}

func injectDelivery() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(
				http.NewServer,
				fx.ResultTags(`group:"deliveries"`),
			),
		),
	)
}

func startServer(ctx context.Context, params startServerParams) {
	for _, delivery := range params.Deliveries {
		go func() {
			if err := delivery.Serve(ctx); err != nil {
				slog.Error("Failed to start server", slog.Any("error", err))

				// Trigger graceful shutdown to execute all OnStop hooks
				if shutdownErr := params.Shutdown(); shutdownErr != nil {
					slog.Error("Failed to shutdown gracefully", slog.Any("error", shutdownErr))
					os.Exit(1)
				}
			}
		}()
	}
}
