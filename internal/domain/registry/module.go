package registry

import (
	"log/slog"

	"github.com/webitel/realtime-session-service/internal/metrics"
	"go.uber.org/fx"
)

// collectorObserver adapts the Prometheus collector to the Observer port.
type collectorObserver struct {
	collector *metrics.Collector
}

func (o collectorObserver) BroadcastResult(delivered, dropped int) {
	o.collector.BroadcastDelivered.Add(float64(delivered))
	o.collector.MailboxDropped.Add(float64(dropped))
}

func (o collectorObserver) BroadcastMiss() {
	o.collector.BroadcastMisses.Inc()
}

var Module = fx.Module("registry",
	fx.Provide(
		func(logger *slog.Logger, c *metrics.Collector) *Hub {
			return NewHub(
				WithLogger(logger),
				WithObserver(collectorObserver{collector: c}),
			)
		},
		fx.Annotate(
			func(h *Hub) Hubber { return h },
			fx.As(new(Hubber)),
		),
	),
)
