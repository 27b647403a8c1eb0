// Package http wires bounded-context modules into the gin host adapter.
package http

import (
	"context"

	"estate_dashboard_backend/internal/http/middleware"
	"estate_dashboard_backend/platform/config"
	"estate_dashboard_backend/platform/logger"

	"github.com/prometheus/client_golang/prometheus"
)

// RouterConfig is the part of the configuration the router reads.
type RouterConfig interface {
	config.HTTPConfig
	config.JWTConfig
}

// HealthChecker backs /api/health. The Redis session store implements it.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// App is assembled by cmd/api and handed to router.New.
type App struct {
	Config RouterConfig
	Logger *logger.Logger
	// Health is optional; without it /api/health always reports ok.
	Health HealthChecker
	// Sessions is the single dashboard session every protected request is
	// bound to.
	Sessions middleware.SessionSource
	// Gatherer is optional and enables /metrics.
	Gatherer prometheus.Gatherer
	Modules  []Module
}
