package session

import (
	"context"
	"math/rand"
	"sync"
	"time"
)

// ViolationEvent is one integrity-monitoring observation.
type ViolationEvent struct {
	Kind       string
	Severity   string
	OccurredAt time.Time
}

// ViolationSource supplies violation events to the integrity monitor.
// Production sessions consume client-observed signals through a SignalQueue;
// tests inject deterministic sequences.
type ViolationSource interface {
	Poll(ctx context.Context) []ViolationEvent
}

// SignalQueue is the production ViolationSource: a drain-on-poll queue fed
// by client reports. Push never blocks the caller.
type SignalQueue struct {
	mu      sync.Mutex
	pending []ViolationEvent
}

func NewSignalQueue() *SignalQueue {
	return &SignalQueue{}
}

func (q *SignalQueue) Push(ev ViolationEvent) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.pending = append(q.pending, ev)
}

func (q *SignalQueue) Poll(_ context.Context) []ViolationEvent {
	q.mu.Lock()
	defer q.mu.Unlock()
	events := q.pending
	q.pending = nil
	return events
}

// MonitorConfig bounds the monitor's evaluation cadence and escalation policy.
type MonitorConfig struct {
	MinInterval         time.Duration
	MaxInterval         time.Duration
	EscalationThreshold int
	EscalationWindow    time.Duration
}

// IntegrityMonitor is an independent concurrent observer that runs exactly
// while its session is InProgress. It polls its source at jittered bounded
// intervals and hands each violation to the sink. Violations never block or
// gate user input. When at least EscalationThreshold violations land within
// EscalationWindow the monitor fires onEscalate once; escalation reports and
// never terminates the session.
type IntegrityMonitor struct {
	cfg        MonitorConfig
	source     ViolationSource
	sink       func(ViolationEvent)
	onEscalate func(count int)

	recent    []time.Time
	escalated bool

	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

func NewIntegrityMonitor(cfg MonitorConfig, source ViolationSource, sink func(ViolationEvent), onEscalate func(count int)) *IntegrityMonitor {
	if cfg.MaxInterval < cfg.MinInterval {
		cfg.MaxInterval = cfg.MinInterval
	}
	return &IntegrityMonitor{
		cfg:        cfg,
		source:     source,
		sink:       sink,
		onEscalate: onEscalate,
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
	}
}

// Start launches the monitoring goroutine.
func (m *IntegrityMonitor) Start() {
	go m.run()
}

func (m *IntegrityMonitor) run() {
	defer close(m.done)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		<-m.stop
		cancel()
	}()

	for {
		timer := time.NewTimer(m.nextInterval())
		select {
		case <-m.stop:
			timer.Stop()
			return
		case <-timer.C:
		}

		for _, ev := range m.source.Poll(ctx) {
			if ev.OccurredAt.IsZero() {
				ev.OccurredAt = time.Now()
			}
			m.sink(ev)
			m.track(ev.OccurredAt)
		}
	}
}

// nextInterval returns a jittered wait within [MinInterval, MaxInterval].
func (m *IntegrityMonitor) nextInterval() time.Duration {
	spread := m.cfg.MaxInterval - m.cfg.MinInterval
	if spread <= 0 {
		return m.cfg.MinInterval
	}
	return m.cfg.MinInterval + time.Duration(rand.Int63n(int64(spread)))
}

// track records the violation time and fires escalation when the sliding
// window fills past the threshold.
func (m *IntegrityMonitor) track(at time.Time) {
	cutoff := at.Add(-m.cfg.EscalationWindow)
	kept := m.recent[:0]
	for _, ts := range m.recent {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}
	m.recent = append(kept, at)

	if m.escalated || m.cfg.EscalationThreshold <= 0 {
		return
	}
	if len(m.recent) >= m.cfg.EscalationThreshold {
		m.escalated = true
		m.onEscalate(len(m.recent))
	}
}

// Stop cancels the monitor. Idempotent; once observed, no further events
// are emitted.
func (m *IntegrityMonitor) Stop() {
	m.stopOnce.Do(func() {
		close(m.stop)
	})
}

// Done is closed when the monitoring goroutine has exited.
func (m *IntegrityMonitor) Done() <-chan struct{} {
	return m.done
}
