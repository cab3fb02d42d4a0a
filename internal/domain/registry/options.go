package registry

import "log/slog"

// Observer receives registry-level delivery outcomes. The concrete metrics
// backend stays out of the domain package.
type Observer interface {
	BroadcastResult(delivered, dropped int)
	BroadcastMiss()
}

type nopObserver struct{}

func (nopObserver) BroadcastResult(int, int) {}
func (nopObserver) BroadcastMiss()           {}

// Option defines a functional configuration type for the Hub.
type Option func(*Hub)

// WithLogger replaces the default slog logger.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Hub) {
		h.logger = logger
	}
}

// WithObserver wires delivery outcomes into an external sink.
func WithObserver(o Observer) Option {
	return func(h *Hub) {
		h.observer = o
	}
}
