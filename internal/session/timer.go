package session

import (
	"sync"
	"time"
)

// QuestionTimer is a countdown clock bound to one question index. It emits
// a tick with the remaining seconds at a fixed interval and exactly one
// expiry callback when remaining reaches zero; remaining is never negative.
// At most one live timer exists per session: the engine stops the active
// timer before instantiating the next one.
type QuestionTimer struct {
	index     int
	remaining int
	interval  time.Duration
	onTick    func(index, remaining int)
	onExpired func(index int)

	startOnce sync.Once
	stopOnce  sync.Once
	stop      chan struct{}
	done      chan struct{}
}

// NewQuestionTimer creates a timer for the given question index counting
// down durationSec seconds, decrementing once per interval.
func NewQuestionTimer(index, durationSec int, interval time.Duration, onTick func(index, remaining int), onExpired func(index int)) *QuestionTimer {
	return &QuestionTimer{
		index:     index,
		remaining: durationSec,
		interval:  interval,
		onTick:    onTick,
		onExpired: onExpired,
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
	}
}

// Start launches the countdown goroutine. Calling Start twice is a no-op.
func (t *QuestionTimer) Start() {
	t.startOnce.Do(func() {
		go t.run()
	})
}

func (t *QuestionTimer) run() {
	defer close(t.done)

	if t.remaining <= 0 {
		t.onExpired(t.index)
		return
	}

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-t.stop:
			return
		case <-ticker.C:
			t.remaining--
			if t.remaining > 0 {
				t.onTick(t.index, t.remaining)
				continue
			}
			t.onExpired(t.index)
			return
		}
	}
}

// Stop cancels the countdown. It is idempotent and safe to call from any
// goroutine; once the goroutine observes the stop it emits nothing further.
func (t *QuestionTimer) Stop() {
	t.stopOnce.Do(func() {
		close(t.stop)
	})
}

// Done is closed when the countdown goroutine has exited.
func (t *QuestionTimer) Done() <-chan struct{} {
	return t.done
}
