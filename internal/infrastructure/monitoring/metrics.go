package monitoring

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Dispatch results
const (
	ResultHit     = "hit"
	ResultCreated = "created"
	ResultError   = "error"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Dispatch metrics
	DispatchTotal    *prometheus.CounterVec
	ProvidersCreated *prometheus.CounterVec
	ProvidersActive  *prometheus.GaugeVec
	CreateDuration   *prometheus.HistogramVec
	CreateErrors     *prometheus.CounterVec

	// Lifecycle metrics
	BindingsActive *prometheus.GaugeVec
	Registrations  *prometheus.CounterVec

	// Diagnostics HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	// System metrics
	Uptime    prometheus.Gauge
	startTime time.Time

	// Snapshot for JSON API - track current values
	snapshot Snapshot

	mu sync.RWMutex
}

// Snapshot holds current metric values for the JSON API
type Snapshot struct {
	Dispatches     int64 `json:"dispatches"`
	CacheHits      int64 `json:"cache_hits"`
	Created        int64 `json:"providers_created"`
	Errors         int64 `json:"errors"`
	ActiveBindings int64 `json:"active_bindings"`
}

// NewMetrics creates a metrics collector registered with the default registerer
func NewMetrics() *Metrics {
	return NewMetricsWith(prometheus.DefaultRegisterer)
}

// NewMetricsWith creates a metrics collector registered with reg
func NewMetricsWith(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	m := &Metrics{
		startTime: time.Now(),

		DispatchTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "searchprovider_dispatch_total",
				Help: "Total number of subtree dispatch requests",
			},
			[]string{"family", "result"},
		),
		ProvidersCreated: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "searchprovider_providers_created_total",
				Help: "Total number of providers instantiated",
			},
			[]string{"family"},
		),
		ProvidersActive: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "searchprovider_providers_active",
				Help: "Number of cached providers",
			},
			[]string{"family"},
		),
		CreateDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "searchprovider_provider_create_duration_seconds",
				Help:    "Provider construction duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
			},
			[]string{"family"},
		),
		CreateErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "searchprovider_provider_create_errors_total",
				Help: "Total number of failed provider constructions",
			},
			[]string{"family", "error_type"},
		),

		BindingsActive: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "searchprovider_bindings_active",
				Help: "Number of services currently bound to a bus connection",
			},
			[]string{"service"},
		),
		Registrations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "searchprovider_registrations_total",
				Help: "Total number of bus registrations by outcome",
			},
			[]string{"service", "status"},
		),

		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "searchprovider_http_requests_total",
				Help: "Total number of diagnostics HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "searchprovider_http_request_duration_seconds",
				Help:    "Diagnostics HTTP request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"method", "path"},
		),

		Uptime: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "searchprovider_uptime_seconds",
				Help: "Service uptime in seconds",
			},
		),
	}

	return m
}

// UpdateUptime refreshes the uptime gauge
func (m *Metrics) UpdateUptime() {
	if m == nil {
		return
	}
	m.Uptime.Set(time.Since(m.startTime).Seconds())
}

// RecordDispatch records the outcome of one dispatch request
func (m *Metrics) RecordDispatch(family, result string) {
	if m == nil {
		return
	}
	m.DispatchTotal.WithLabelValues(family, result).Inc()

	m.mu.Lock()
	m.snapshot.Dispatches++
	switch result {
	case ResultHit:
		m.snapshot.CacheHits++
	case ResultCreated:
		m.snapshot.Created++
	case ResultError:
		m.snapshot.Errors++
	}
	m.mu.Unlock()
}

// RecordProviderCreated records a successful provider construction
func (m *Metrics) RecordProviderCreated(family string, duration time.Duration) {
	if m == nil {
		return
	}
	m.ProvidersCreated.WithLabelValues(family).Inc()
	m.CreateDuration.WithLabelValues(family).Observe(duration.Seconds())
}

// SetProvidersActive sets the number of cached providers for a family
func (m *Metrics) SetProvidersActive(family string, active int) {
	if m == nil {
		return
	}
	m.ProvidersActive.WithLabelValues(family).Set(float64(active))
}

// RecordCreateError records a failed provider construction
func (m *Metrics) RecordCreateError(family, errorType string, duration time.Duration) {
	if m == nil {
		return
	}
	m.CreateErrors.WithLabelValues(family, errorType).Inc()
	m.CreateDuration.WithLabelValues(family).Observe(duration.Seconds())
}

// RecordRegistration records a bus registration attempt
func (m *Metrics) RecordRegistration(service, status string) {
	if m == nil {
		return
	}
	m.Registrations.WithLabelValues(service, status).Inc()
}

// SetBound marks a service as bound or unbound
func (m *Metrics) SetBound(service string, bound bool) {
	if m == nil {
		return
	}
	value := 0.0
	if bound {
		value = 1
	}
	m.BindingsActive.WithLabelValues(service).Set(value)

	m.mu.Lock()
	if bound {
		m.snapshot.ActiveBindings++
	} else if m.snapshot.ActiveBindings > 0 {
		m.snapshot.ActiveBindings--
	}
	m.mu.Unlock()
}

// RecordHTTPRequest records a diagnostics HTTP request
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// Snapshot returns a copy of the current values
func (m *Metrics) Snapshot() Snapshot {
	if m == nil {
		return Snapshot{}
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snapshot
}
