// Package metrics instruments the registry server with prometheus.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "ecocoleta"

// Recorder receives connection and command events.
type Recorder interface {
	ConnectionOpened()
	ConnectionClosed()
	ObserveCommand(command, status string, duration time.Duration)
}

// Nop discards every event.
type Nop struct{}

func (Nop) ConnectionOpened() {}

func (Nop) ConnectionClosed() {}

func (Nop) ObserveCommand(string, string, time.Duration) {}

// Prometheus records events into its own registry.
type Prometheus struct {
	registry    *prometheus.Registry
	connections prometheus.Counter
	active      prometheus.Gauge
	commands    *prometheus.CounterVec
	latency     *prometheus.HistogramVec
}

// NewPrometheus creates a Prometheus recorder with Go runtime and process collectors registered.
func NewPrometheus() *Prometheus {
	p := &Prometheus{
		registry: prometheus.NewRegistry(),
		connections: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "connections_total",
			Help:      "Connections accepted since start.",
		}),
		active: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "connections_active",
			Help:      "Connections currently open.",
		}),
		commands: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commands_total",
			Help:      "Commands handled, by command and response status.",
		}, []string{"command", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "command_duration_seconds",
			Help:      "Time spent handling a command.",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 8),
		}, []string{"command"}),
	}
	p.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		p.connections,
		p.active,
		p.commands,
		p.latency,
	)
	return p
}

func (p *Prometheus) ConnectionOpened() {
	p.connections.Inc()
	p.active.Inc()
}

func (p *Prometheus) ConnectionClosed() {
	p.active.Dec()
}

func (p *Prometheus) ObserveCommand(command, status string, duration time.Duration) {
	p.commands.WithLabelValues(command, status).Inc()
	p.latency.WithLabelValues(command).Observe(duration.Seconds())
}

// Handler serves the registry in the prometheus exposition format.
func (p *Prometheus) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{})
}

// NewMux serves GET /healthz and GET /metrics.
func NewMux(p *Prometheus) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	})
	mux.Handle("/metrics", p.Handler())
	return mux
}
