package config

import (
	"errors"
	"time"

	"github.com/spf13/viper"
)

const (
	defaultNatsURL           = "nats://localhost:4222"
	defaultAppPort           = 8080
	defaultMailboxSize       = 16
	defaultHeartbeatInterval = 5 * time.Second
)

// Config holds the full runtime configuration of the service.
// Values are sourced from the environment; there is no config file.
type Config struct {
	// JWTSecret is the shared symmetric key for HS256 token verification.
	JWTSecret string

	// NatsURL is the address of the external event bus.
	NatsURL string

	// AppPort is the HTTP listen port for the upgrade and auxiliary endpoints.
	AppPort int

	// MailboxSize bounds the per-connection outbound queue.
	MailboxSize int

	// HeartbeatInterval is the period of the dispatcher's liveness ping.
	HeartbeatInterval time.Duration
}

// ErrMissingJWTSecret aborts startup: without the secret no client can ever
// pass verification, so refusing to boot is the only honest behaviour.
var ErrMissingJWTSecret = errors.New("config: JWT_SECRET must be set")

// LoadConfig reads the service configuration from the environment.
func LoadConfig() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("NATS_URL", defaultNatsURL)
	v.SetDefault("APP_PORT", defaultAppPort)
	v.SetDefault("WS_MAILBOX_SIZE", defaultMailboxSize)
	v.SetDefault("WS_HEARTBEAT_INTERVAL", defaultHeartbeatInterval)

	cfg := &Config{
		JWTSecret:         v.GetString("JWT_SECRET"),
		NatsURL:           v.GetString("NATS_URL"),
		AppPort:           v.GetInt("APP_PORT"),
		MailboxSize:       v.GetInt("WS_MAILBOX_SIZE"),
		HeartbeatInterval: v.GetDuration("WS_HEARTBEAT_INTERVAL"),
	}

	if cfg.JWTSecret == "" {
		return nil, ErrMissingJWTSecret
	}
	if cfg.MailboxSize <= 0 {
		cfg.MailboxSize = defaultMailboxSize
	}
	if cfg.HeartbeatInterval <= 0 {
		cfg.HeartbeatInterval = defaultHeartbeatInterval
	}

	return cfg, nil
}
