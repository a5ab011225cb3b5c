package observability

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"

	"github.com/jonathan/resume-forge/internal/coordinator"
	"github.com/jonathan/resume-forge/internal/document"
	"github.com/jonathan/resume-forge/internal/invoker"
	"github.com/jonathan/resume-forge/internal/router"
	"github.com/jonathan/resume-forge/internal/specialist"
	"github.com/jonathan/resume-forge/internal/tools"
	"github.com/jonathan/resume-forge/internal/validation"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const metricsNamespace = "resume_forge"

// Edit results used as the "result" label
const (
	ResultCommitted = "committed"
	ResultUnsaved   = "unsaved"
	ResultRejected  = "rejected"
)

// Metrics records routing decisions and edit outcomes in a private
// Prometheus registry. It implements router.Observer and invoker.Recorder.
type Metrics struct {
	registry  *prometheus.Registry
	decisions *prometheus.CounterVec
	edits     *prometheus.CounterVec
	duration  *prometheus.HistogramVec
	revision  prometheus.Gauge

	mu           sync.Mutex
	lastRevision uint64
}

// NewMetrics creates the collectors and registers them, together with the
// Go runtime collector, in a new registry
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		decisions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "routing_decisions_total",
			Help:      "Routing decisions by reason and section.",
		}, []string{"reason", "section"}),
		edits: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "edits_total",
			Help:      "Executed mutations by section, tool, result and error kind.",
		}, []string{"section", "tool", "result", "error"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "edit_duration_seconds",
			Help:      "Time spent in the snapshot, mutate, validate and commit cycle.",
			Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1},
		}, []string{"section"}),
		revision: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "document_revision",
			Help:      "Revision of the most recently committed document.",
		}),
	}
}

// Registry returns the registry holding the collectors
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordDecision counts one routing decision
func (m *Metrics) RecordDecision(d router.Decision) {
	section := d.Section
	if section == "" {
		section = "none"
	}
	m.decisions.WithLabelValues(string(d.Reason), section).Inc()
}

// RecordOutcome counts one Execute call
func (m *Metrics) RecordOutcome(out *invoker.Outcome) {
	if out == nil {
		return
	}
	section := string(out.Section)
	if section == "" {
		section = "none"
	}

	result := ResultRejected
	switch {
	case out.Committed && out.Err == nil:
		result = ResultCommitted
	case out.Committed:
		result = ResultUnsaved
	}

	m.edits.WithLabelValues(section, out.Tool, result, ErrorKind(out.Err)).Inc()
	m.duration.WithLabelValues(section).Observe(out.Duration.Seconds())
	if out.Committed {
		m.setRevision(out.Revision)
	}
}

// setRevision moves the gauge forward only; outcomes can be recorded out of
// commit order
func (m *Metrics) setRevision(rev uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if rev <= m.lastRevision {
		return
	}
	m.lastRevision = rev
	m.revision.Set(float64(rev))
}

// ErrorKind maps an error to a short, low-cardinality label
func ErrorKind(err error) string {
	var (
		notFound       *tools.NotFoundError
		duplicate      *tools.DuplicateError
		index          *tools.IndexError
		invalid        *tools.InvalidArgumentError
		validationErr  *validation.ValidationError
		persistErr     *document.PersistenceError
		unknownTool    *specialist.UnknownToolError
		unknownSection *coordinator.UnknownSectionError
	)

	switch {
	case err == nil:
		return "none"
	case errors.As(err, &persistErr):
		return "persistence"
	case errors.As(err, &notFound):
		return "not_found"
	case errors.As(err, &duplicate):
		return "duplicate"
	case errors.As(err, &index):
		return "index"
	case errors.As(err, &invalid):
		return "invalid_argument"
	case errors.As(err, &validationErr):
		return "validation_" + strings.ToLower(string(validationErr.Category))
	case errors.As(err, &unknownTool), errors.As(err, &unknownSection):
		return "unknown"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "cancelled"
	default:
		return "other"
	}
}
