package model

import "time"

// HubStats is a point-in-time snapshot of the registry, exposed on the
// stats endpoint for operational visibility.
type HubStats struct {
	TotalSessions    int           `json:"total_sessions"`
	TotalConnections int           `json:"total_connections"`
	Uptime           time.Duration `json:"uptime"`
}
