package middleware

import (
	"sync"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// RedisErrors counts Redis command failures, labeled by command name.
var RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "foundling_redis_errors_total",
	Help: "Total number of Redis command errors.",
}, []string{"command"})

// ImageRejections counts uploads rejected by the image normalizer.
var ImageRejections = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "foundling_image_rejections_total",
	Help: "Total number of uploaded images rejected during normalization.",
}, []string{"reason"})

var (
	promOnce sync.Once
	prom     *fiberprometheus.FiberPrometheus
)

// InitMetrics creates the Prometheus middleware for the given service name.
// The instance registers collectors on the default registry, so it is built
// once and shared.
func InitMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	promOnce.Do(func() {
		prom = fiberprometheus.New(serviceName)
	})
	return prom
}

// MetricsMiddleware returns the request-instrumentation handler.
func MetricsMiddleware(prom *fiberprometheus.FiberPrometheus) fiber.Handler {
	return prom.Middleware
}
