package cmd

import (
	"context"

	"github.com/nats-io/nats.go"
	"github.com/webitel/realtime-session-service/config"
	httpserver "github.com/webitel/realtime-session-service/infra/server/http"
	"github.com/webitel/realtime-session-service/internal/adapter/pubsub"
	"github.com/webitel/realtime-session-service/internal/auth"
	"github.com/webitel/realtime-session-service/internal/domain/registry"
	natshandler "github.com/webitel/realtime-session-service/internal/handler/nats"
	"github.com/webitel/realtime-session-service/internal/handler/ws"
	"github.com/webitel/realtime-session-service/internal/metrics"
	"github.com/webitel/realtime-session-service/internal/service"
	"go.uber.org/fx"
)

func NewApp(cfg *config.Config) *fx.App {
	return fx.New(
		fx.Provide(
			func() *config.Config { return cfg },
			ProvideLogger,
			ProvideNatsConn,
			func(nc *nats.Conn) pubsub.BusPublisher { return nc },
			func(nc *nats.Conn) natshandler.BusSubscriber { return nc },
		),
		metrics.Module,
		registry.Module,
		auth.Module,
		service.Module,
		ws.Module,
		pubsub.Module,
		natshandler.Module,
		httpserver.Module,
		fx.Invoke(registerHubShutdown),
	)
}

// registerHubShutdown closes every live connection on stop so dispatchers
// run their teardown before the process exits.
func registerHubShutdown(lc fx.Lifecycle, hub registry.Hubber) {
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			hub.Shutdown()
			return nil
		},
	})
}
