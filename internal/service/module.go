package service

import (
	"github.com/webitel/realtime-session-service/config"
	"github.com/webitel/realtime-session-service/internal/domain/registry"
	"go.uber.org/fx"
)

var Module = fx.Module("service",
	fx.Provide(
		fx.Annotate(
			func(hub registry.Hubber, cfg *config.Config) *DeliveryService {
				return NewDeliveryService(hub, cfg.MailboxSize)
			},
			fx.As(new(Deliverer)),
		),
	),
)
