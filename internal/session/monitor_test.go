package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/lshigami/Margays/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastMonitorConfig(threshold int, window time.Duration) MonitorConfig {
	return MonitorConfig{
		MinInterval:         2 * time.Millisecond,
		MaxInterval:         5 * time.Millisecond,
		EscalationThreshold: threshold,
		EscalationWindow:    window,
	}
}

type monitorRecorder struct {
	mu        sync.Mutex
	events    []ViolationEvent
	escalated int
	lastCount int
}

func (r *monitorRecorder) sink(ev ViolationEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *monitorRecorder) onEscalate(count int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.escalated++
	r.lastCount = count
}

func (r *monitorRecorder) eventCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

func (r *monitorRecorder) escalations() (int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.escalated, r.lastCount
}

func TestIntegrityMonitorDeliversEventsToSink(t *testing.T) {
	queue := NewSignalQueue()
	rec := &monitorRecorder{}
	monitor := NewIntegrityMonitor(fastMonitorConfig(10, time.Minute), queue, rec.sink, rec.onEscalate)
	monitor.Start()
	defer monitor.Stop()

	queue.Push(ViolationEvent{Kind: model.ViolationTabSwitch, Severity: model.SeverityWarning})
	queue.Push(ViolationEvent{Kind: model.ViolationNoFace, Severity: model.SeverityCritical})

	require.Eventually(t, func() bool { return rec.eventCount() == 2 }, time.Second, 5*time.Millisecond)

	rec.mu.Lock()
	defer rec.mu.Unlock()
	assert.Equal(t, model.ViolationTabSwitch, rec.events[0].Kind)
	assert.False(t, rec.events[0].OccurredAt.IsZero(), "monitor should stamp events missing a timestamp")
}

func TestIntegrityMonitorEscalatesOnceAtThreshold(t *testing.T) {
	queue := NewSignalQueue()
	rec := &monitorRecorder{}
	monitor := NewIntegrityMonitor(fastMonitorConfig(5, time.Minute), queue, rec.sink, rec.onEscalate)
	monitor.Start()
	defer monitor.Stop()

	for i := 0; i < 6; i++ {
		queue.Push(ViolationEvent{Kind: model.ViolationTabSwitch, Severity: model.SeverityWarning, OccurredAt: time.Now()})
	}

	require.Eventually(t, func() bool {
		escalated, _ := rec.escalations()
		return escalated == 1
	}, time.Second, 5*time.Millisecond)

	require.Eventually(t, func() bool { return rec.eventCount() == 6 }, time.Second, 5*time.Millisecond)

	escalated, count := rec.escalations()
	assert.Equal(t, 1, escalated, "escalation must fire exactly once")
	assert.GreaterOrEqual(t, count, 5)
}

func TestIntegrityMonitorWindowPrunesOldViolations(t *testing.T) {
	queue := NewSignalQueue()
	rec := &monitorRecorder{}
	monitor := NewIntegrityMonitor(fastMonitorConfig(5, 2*time.Minute), queue, rec.sink, rec.onEscalate)
	monitor.Start()
	defer monitor.Stop()

	stale := time.Now().Add(-10 * time.Minute)
	for i := 0; i < 4; i++ {
		queue.Push(ViolationEvent{Kind: model.ViolationWindowBlur, Severity: model.SeverityInfo, OccurredAt: stale})
	}
	queue.Push(ViolationEvent{Kind: model.ViolationTabSwitch, Severity: model.SeverityWarning, OccurredAt: time.Now()})
	queue.Push(ViolationEvent{Kind: model.ViolationTabSwitch, Severity: model.SeverityWarning, OccurredAt: time.Now()})

	require.Eventually(t, func() bool { return rec.eventCount() == 6 }, time.Second, 5*time.Millisecond)

	escalated, _ := rec.escalations()
	assert.Zero(t, escalated, "violations outside the window must not count toward escalation")
}

func TestIntegrityMonitorStopExitsGoroutine(t *testing.T) {
	queue := NewSignalQueue()
	monitor := NewIntegrityMonitor(fastMonitorConfig(5, time.Minute), queue, func(ViolationEvent) {}, func(int) {})
	monitor.Start()

	monitor.Stop()
	monitor.Stop()

	select {
	case <-monitor.Done():
	case <-time.After(time.Second):
		t.Fatal("monitor goroutine did not exit after Stop")
	}
}

func TestSignalQueueDrainsOnPoll(t *testing.T) {
	queue := NewSignalQueue()
	queue.Push(ViolationEvent{Kind: model.ViolationMultipleFaces})
	queue.Push(ViolationEvent{Kind: model.ViolationBackgroundVoice})

	first := queue.Poll(context.Background())
	require.Len(t, first, 2)

	second := queue.Poll(context.Background())
	assert.Empty(t, second)
}
