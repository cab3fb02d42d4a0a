package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/webitel/realtime-session-service/config"
	"go.uber.org/fx"
)

func ProvideLogger() *slog.Logger {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)
	return logger
}

// ProvideNatsConn establishes the shared bus connection. The initial connect
// is synchronous: without a bus the publisher contract cannot be honoured,
// so a connect failure aborts startup with a non-zero exit. Once connected,
// the client reconnects indefinitely on its own.
func ProvideNatsConn(lc fx.Lifecycle, cfg *config.Config, logger *slog.Logger) (*nats.Conn, error) {
	nc, err := nats.Connect(cfg.NatsURL,
		nats.Name(ServiceName),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			logger.Warn("nats disconnected", "error", err)
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			logger.Info("nats reconnected", "url", c.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to nats at %s: %w", cfg.NatsURL, err)
	}
	logger.Info("connected to nats", "url", cfg.NatsURL)

	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return nc.Drain()
		},
	})

	return nc, nil
}
