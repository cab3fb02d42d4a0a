package auth

import (
	"github.com/webitel/realtime-session-service/config"
	"go.uber.org/fx"
)

var Module = fx.Module("auth",
	fx.Provide(
		func(cfg *config.Config) Verifier {
			return NewVerifier(cfg.JWTSecret)
		},
	),
)
