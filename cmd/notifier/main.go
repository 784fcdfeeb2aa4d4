package main

import (
	"context"
	"log/slog"
	"os"

	"rentalhub/config"
	"rentalhub/internal/delivery"
	"rentalhub/internal/delivery/worker"
	"rentalhub/internal/delivery/worker/handler"
	"rentalhub/internal/domain/constants"
	logs "rentalhub/internal/infra/log"
	"rentalhub/internal/infra/notification"
	"rentalhub/internal/infra/persistence/postgres"
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
		injectHandler(),
		injectDelivery(),
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
			postgres.NewUserRepository,
			postgres.NewNotificationRepository,
		),
	)
}

// The worker always fans out in-process; queuing again would loop the event back to itself.
func injectService() fx.Option {
	return fx.Options(
		fx.Provide(
			notification.NewPushService,
			impl.NewNotificationSender,
			impl.NewSyncAdminNotifier,
			impl.NewNotificationService,
		),
	)
}

func injectHandler() fx.Option {
	return fx.Options(
		fx.Provide(
			handler.NewEventProcessor,
			handler.NewPushHandler,
		),
	)
}

func injectDelivery() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(
				newDeliveries,
				fx.ResultTags(`group:"deliveries,flatten"`),
			),
		),
	)
}

type deliveriesParams struct {
	fx.In

	Lc          fx.Lifecycle
	Cfg         *config.Config
	Logger      *slog.Logger
	PushHandler *handler.PushHandler
	Processor   *handler.EventProcessor
}

// newDeliveries always serves the push endpoint and adds the queue consumer for the rabbitmq provider.
func newDeliveries(params deliveriesParams) ([]delivery.Delivery, error) {
	server, err := worker.NewServer(worker.ServerParams{
		Lc:          params.Lc,
		Cfg:         params.Cfg,
		Logger:      params.Logger,
		PushHandler: params.PushHandler,
	})
	if err != nil {
		return nil, err
	}
	deliveries := []delivery.Delivery{server}

	if params.Cfg.PubSub != nil && params.Cfg.PubSub.Provider == constants.PubSubProviderRabbitMQ {
		consumer, err := worker.NewConsumer(worker.ConsumerParams{
			Lc:        params.Lc,
			Cfg:       params.Cfg,
			Logger:    params.Logger,
			Processor: params.Processor,
		})
		if err != nil {
			return nil, err
		}
		deliveries = append(deliveries, consumer)
	}

	return deliveries, nil
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
