package natshandler

import (
	"context"
	"log/slog"

	"github.com/webitel/realtime-session-service/internal/domain/registry"
	"github.com/webitel/realtime-session-service/internal/metrics"
	"go.uber.org/fx"
)

var Module = fx.Module("nats-handler",
	fx.Provide(
		func(conn BusSubscriber, hub registry.Hubber, logger *slog.Logger, collector *metrics.Collector) *Listener {
			return NewListener(conn, hub, logger, collector)
		},
	),

	fx.Invoke(func(lc fx.Lifecycle, l *Listener) {
		ctx, cancel := context.WithCancel(context.Background())

		lc.Append(fx.Hook{
			OnStart: func(context.Context) error {
				l.Run(ctx)
				return nil
			},
			OnStop: func(context.Context) error {
				cancel()
				return nil
			},
		})
	}),
)
