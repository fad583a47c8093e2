package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	ResultOK       = "ok"
	ResultError    = "error"
	ResultConflict = "conflict"
)

// Registry holds every organizer collector plus the Go and process collectors.
var Registry = prometheus.NewRegistry()

var (
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	HabitToggles = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "organizer_habit_toggles_total",
			Help: "Habit completion toggles by result",
		},
		[]string{"result"},
	)

	ReminderToggles = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "organizer_reminder_toggles_total",
			Help: "Reminder status toggles by result",
		},
		[]string{"result"},
	)

	Exports = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "organizer_exports_total",
			Help: "Data exports by result",
		},
		[]string{"result"},
	)
)

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		RequestsTotal,
		RequestDuration,
		HabitToggles,
		ReminderToggles,
		Exports,
	)
}

// Handler serves the exposition format for Registry.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}
