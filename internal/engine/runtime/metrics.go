package runtime

import (
	"maps"
	"sort"
	"sync"
	"time"

	"github.com/felixgeelhaar/priora/pkg/observability"
)

// CallStats aggregates the outcome and latency of a series of calls.
type CallStats struct {
	Calls      int64         `json:"calls"`
	Failures   int64         `json:"failures"`
	Total      time.Duration `json:"total_ns"`
	Min        time.Duration `json:"min_ns"`
	Max        time.Duration `json:"max_ns"`
	LastCallAt time.Time     `json:"last_call_at"`
}

func (s *CallStats) record(at time.Time, d time.Duration, failed bool) {
	s.Calls++
	if failed {
		s.Failures++
	}
	s.Total += d
	if s.Calls == 1 || d < s.Min {
		s.Min = d
	}
	s.Max = max(s.Max, d)
	s.LastCallAt = at
}

// Successes returns the number of calls that did not fail.
func (s CallStats) Successes() int64 { return s.Calls - s.Failures }

// Average returns the mean call duration, zero before the first call.
func (s CallStats) Average() time.Duration {
	if s.Calls == 0 {
		return 0
	}
	return s.Total / time.Duration(s.Calls)
}

// EngineMetrics holds the call statistics of one scoring engine.
type EngineMetrics struct {
	EngineID string `json:"engine_id"`
	CallStats
	LastError        string               `json:"last_error,omitempty"`
	BreakerState     string               `json:"breaker_state,omitempty"`
	CircuitOpenCount int64                `json:"circuit_open_count"`
	Operations       map[string]CallStats `json:"operations"`
}

func (m *EngineMetrics) clone() *EngineMetrics {
	c := *m
	c.Operations = maps.Clone(m.Operations)
	return &c
}

// MetricsCollector keeps per-engine call statistics and mirrors every call
// into a process-wide observability.Metrics sink.
type MetricsCollector struct {
	sink observability.Metrics
	now  func() time.Time

	mu      sync.RWMutex
	engines map[string]*EngineMetrics
}

// NewMetricsCollector creates a collector. A nil sink drops the mirrored metrics.
func NewMetricsCollector(sink observability.Metrics) *MetricsCollector {
	if sink == nil {
		sink = observability.NoopMetrics{}
	}
	return &MetricsCollector{
		sink:    sink,
		now:     time.Now,
		engines: make(map[string]*EngineMetrics),
	}
}

func (m *MetricsCollector) engine(id string) *EngineMetrics {
	e, ok := m.engines[id]
	if !ok {
		e = &EngineMetrics{EngineID: id, Operations: make(map[string]CallStats)}
		m.engines[id] = e
	}
	return e
}

// RecordOperation records one engine call.
func (m *MetricsCollector) RecordOperation(engineID, operation string, duration time.Duration, err error) {
	tags := []observability.Tag{observability.T("engine", engineID), observability.T("operation", operation)}
	m.sink.Counter(observability.MetricOperationTotal, 1, tags...)
	m.sink.Timing(observability.MetricOperationDuration, duration, tags...)
	if err != nil {
		m.sink.Counter(observability.MetricOperationErrors, 1, tags...)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	at := m.now()
	e := m.engine(engineID)
	e.record(at, duration, err != nil)
	if err != nil {
		e.LastError = err.Error()
	}
	op := e.Operations[operation]
	op.record(at, duration, err != nil)
	e.Operations[operation] = op
}

// RecordCircuitBreakerChange records the breaker's new state.
func (m *MetricsCollector) RecordCircuitBreakerChange(engineID, state string) {
	open := 0.0
	if state == "open" {
		open = 1
	}
	m.sink.Gauge(observability.MetricEngineBreakerOpen, open, observability.T("engine", engineID))

	m.mu.Lock()
	defer m.mu.Unlock()
	m.engine(engineID).BreakerState = state
}

// RecordCircuitOpen records a call rejected by an open breaker.
func (m *MetricsCollector) RecordCircuitOpen(engineID, operation string) {
	m.sink.Counter(observability.MetricEngineRejected, 1, observability.T("engine", engineID), observability.T("operation", operation))

	m.mu.Lock()
	defer m.mu.Unlock()
	m.engine(engineID).CircuitOpenCount++
}

// Get returns a copy of the metrics of one engine, or nil if it was never called.
func (m *MetricsCollector) Get(engineID string) *EngineMetrics {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if e, ok := m.engines[engineID]; ok {
		return e.clone()
	}
	return nil
}

// GetAll returns copies of the metrics of every engine.
func (m *MetricsCollector) GetAll() map[string]EngineMetrics {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]EngineMetrics, len(m.engines))
	for id, e := range m.engines {
		out[id] = *e.clone()
	}
	return out
}

// Reset forgets all engines.
func (m *MetricsCollector) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.engines = make(map[string]*EngineMetrics)
}

// Snapshot summarises all engines at one point in time.
type Snapshot struct {
	Timestamp    time.Time                `json:"timestamp"`
	Engines      map[string]EngineMetrics `json:"engines"`
	Calls        int64                    `json:"calls"`
	Failures     int64                    `json:"failures"`
	SuccessRate  float64                  `json:"success_rate"`
	OpenCircuits []string                 `json:"open_circuits"`
}

// TakeSnapshot copies the current metrics and totals them.
func (m *MetricsCollector) TakeSnapshot() Snapshot {
	snap := Snapshot{Timestamp: m.now(), Engines: m.GetAll()}
	for id, e := range snap.Engines {
		snap.Calls += e.Calls
		snap.Failures += e.Failures
		if e.BreakerState == "open" {
			snap.OpenCircuits = append(snap.OpenCircuits, id)
		}
	}
	sort.Strings(snap.OpenCircuits)
	if snap.Calls > 0 {
		snap.SuccessRate = float64(snap.Calls-snap.Failures) / float64(snap.Calls)
	}
	return snap
}
