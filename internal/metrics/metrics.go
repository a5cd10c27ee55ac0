package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Коллекторы сервиса каталога
var (
	// HTTP

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "catalog_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"method", "route"},
	)

	// Домен

	ProductsCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "catalog_products_created_total",
			Help: "Total number of products created",
		},
	)

	DevicesCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "catalog_devices_created_total",
			Help: "Total number of devices created",
		},
	)

	DeviceControlTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_device_control_total",
			Help: "Device control commands by outcome",
		},
		[]string{"result"}, // started|stopped|not_found
	)

	ComponentOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_component_operations_total",
			Help: "Component definition operations",
		},
		[]string{"operation", "status"},
	)
)

// RecordControl учитывает результат одной команды start/stop.
func RecordControl(started bool) {
	if started {
		DeviceControlTotal.WithLabelValues("started").Inc()
		return
	}
	DeviceControlTotal.WithLabelValues("stopped").Inc()
}

func RecordControlMiss(n int) {
	DeviceControlTotal.WithLabelValues("not_found").Add(float64(n))
}
