package ws

import (
	"log/slog"

	"github.com/webitel/realtime-session-service/config"
	"github.com/webitel/realtime-session-service/internal/auth"
	"github.com/webitel/realtime-session-service/internal/domain/registry"
	"github.com/webitel/realtime-session-service/internal/metrics"
	"github.com/webitel/realtime-session-service/internal/service"
	"go.uber.org/fx"
)

var Module = fx.Module("ws-handler",
	fx.Provide(
		func(
			logger *slog.Logger,
			deliverer service.Deliverer,
			verifier auth.Verifier,
			hub registry.Hubber,
			publisher EgressPublisher,
			collector *metrics.Collector,
			cfg *config.Config,
		) *WSHandler {
			return NewWSHandler(logger, deliverer, verifier, hub, publisher, collector, cfg.HeartbeatInterval)
		},
	),
)
