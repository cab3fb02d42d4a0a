package pubsub

import (
	"log/slog"

	"github.com/webitel/realtime-session-service/internal/handler/ws"
	"github.com/webitel/realtime-session-service/internal/metrics"
	"go.uber.org/fx"
)

var Module = fx.Module("pubsub",
	fx.Provide(
		fx.Annotate(
			func(conn BusPublisher, logger *slog.Logger, collector *metrics.Collector) *Publisher {
				return NewPublisher(conn, logger, collector)
			},
			fx.As(new(ws.EgressPublisher)),
		),
	),
)
