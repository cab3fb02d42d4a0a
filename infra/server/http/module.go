package httpserver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/webitel/realtime-session-service/config"
	"go.uber.org/fx"
)

var Module = fx.Module("http-server",
	fx.Provide(NewRouter),

	fx.Invoke(func(lc fx.Lifecycle, cfg *config.Config, router *chi.Mux, logger *slog.Logger) {
		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", cfg.AppPort),
			Handler: router,
		}

		lc.Append(fx.Hook{
			OnStart: func(ctx context.Context) error {
				// Listen synchronously so a busy port fails startup.
				ln, err := net.Listen("tcp", srv.Addr)
				if err != nil {
					return fmt.Errorf("http server: listen %s: %w", srv.Addr, err)
				}

				logger.Info("http server listening", "addr", srv.Addr)
				go func() {
					if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
						logger.Error("http server error", "error", err)
					}
				}()
				return nil
			},
			OnStop: func(ctx context.Context) error {
				return srv.Shutdown(ctx)
			},
		})
	}),
)
