package events

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PromCounters is a non-serving counter/histogram registry fed by the
// EventBus. It never starts an HTTP server itself (the monitoring
// dashboard is an external collaborator, spec §1); Registry() is exposed
// only so that collaborator can mount /metrics on its own mux.
//
// Grounded on the teacher's observability.Metrics, narrowed to the
// handful of series this core's own event kinds can actually feed.
type PromCounters struct {
	registry *prometheus.Registry

	tasksTotal   *prometheus.CounterVec
	toolsTotal   *prometheus.CounterVec
	tokensTotal  *prometheus.CounterVec
	retriesTotal prometheus.Counter
	toolDuration *prometheus.HistogramVec
}

// NewPromCounters builds the registry and its series. A nil reg creates a
// dedicated prometheus.Registry rather than registering against the
// global default, so a process can run multiple cores without colliding
// metric names.
func NewPromCounters(reg *prometheus.Registry) *PromCounters {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	factory := promauto.With(reg)
	return &PromCounters{
		registry: reg,
		tasksTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "agentcore_tasks_total",
			Help: "Total number of executed tasks by outcome.",
		}, []string{"outcome"}),
		toolsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "agentcore_tool_calls_total",
			Help: "Total number of tool invocations by tool name and outcome.",
		}, []string{"tool", "outcome"}),
		tokensTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "agentcore_tokens_total",
			Help: "Total LLM token usage by kind (input/output).",
		}, []string{"kind"}),
		retriesTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "agentcore_retries_total",
			Help: "Total number of retried LLM calls.",
		}),
		toolDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "agentcore_tool_duration_seconds",
			Help:    "Tool execution latency in seconds.",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 60},
		}, []string{"tool"}),
	}
}

// Registry returns the underlying prometheus.Registry for an external
// collaborator to scrape.
func (p *PromCounters) Registry() *prometheus.Registry { return p.registry }

// Consume drains ch, folding each Event into the relevant series, until
// the channel is closed (the bus's unsubscribe was called).
func (p *PromCounters) Consume(ch <-chan Event) {
	for ev := range ch {
		p.observe(ev)
	}
}

func (p *PromCounters) observe(ev Event) {
	switch ev.Kind {
	case KindTaskComplete:
		p.tasksTotal.WithLabelValues("success").Inc()
	case KindTaskError, KindTaskAborted:
		p.tasksTotal.WithLabelValues("failure").Inc()
	case KindToolResult:
		p.toolsTotal.WithLabelValues(ev.ToolName, "success").Inc()
		p.observeDuration(ev)
	case KindToolFailure:
		p.toolsTotal.WithLabelValues(ev.ToolName, "failure").Inc()
		p.observeDuration(ev)
	case KindRetry:
		p.retriesTotal.Inc()
	case KindTokenUsage:
		if ev.Tokens != nil {
			p.tokensTotal.WithLabelValues("input").Add(float64(ev.Tokens.Input))
			p.tokensTotal.WithLabelValues("output").Add(float64(ev.Tokens.Output))
		}
	}
}

func (p *PromCounters) observeDuration(ev Event) {
	secs, ok := ev.Data["duration_seconds"].(float64)
	if !ok {
		return
	}
	p.toolDuration.WithLabelValues(ev.ToolName).Observe(secs)
}
