package middleware

import (
	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis errors by command name.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "astroverse_redis_errors_total",
		Help: "Total number of Redis errors by command",
	}, []string{"command"})

	// ActiveWebSockets is the gauge of active WebSocket connections.
	ActiveWebSockets = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "astroverse_websocket_connections",
		Help: "Number of active WebSocket connections",
	})

	// InteractionEvents counts interaction mutations by target and kind.
	InteractionEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "astroverse_interaction_events_total",
		Help: "Total interaction mutations by target type and event kind",
	}, []string{"target", "kind"})

	// WebSocketDrops counts messages dropped on the way to a WebSocket
	// client, by reason.
	WebSocketDrops = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "astroverse_websocket_dropped_messages_total",
		Help: "Total WebSocket messages dropped by reason",
	}, []string{"reason"})

	// MessagesSent counts direct messages accepted for delivery.
	MessagesSent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "astroverse_messages_sent_total",
		Help: "Total direct messages sent",
	})
)

// InitMetrics creates the Prometheus middleware for the given service name.
func InitMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	return fiberprometheus.New(serviceName)
}

// MetricsMiddleware returns the HTTP middleware recording request metrics.
func MetricsMiddleware(prom *fiberprometheus.FiberPrometheus) fiber.Handler {
	return prom.Middleware
}
