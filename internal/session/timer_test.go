package session

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testTick = 5 * time.Millisecond

type timerRecorder struct {
	mu      sync.Mutex
	ticks   []int
	expired int
}

func (r *timerRecorder) onTick(_, remaining int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ticks = append(r.ticks, remaining)
}

func (r *timerRecorder) onExpired(_ int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.expired++
}

func (r *timerRecorder) snapshot() ([]int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int(nil), r.ticks...), r.expired
}

func TestQuestionTimerCountsDownAndExpiresOnce(t *testing.T) {
	rec := &timerRecorder{}
	timer := NewQuestionTimer(0, 3, testTick, rec.onTick, rec.onExpired)
	timer.Start()

	select {
	case <-timer.Done():
	case <-time.After(time.Second):
		t.Fatal("timer did not finish")
	}

	ticks, expired := rec.snapshot()
	assert.Equal(t, []int{2, 1}, ticks)
	assert.Equal(t, 1, expired)
	for _, remaining := range ticks {
		assert.Positive(t, remaining)
	}
}

func TestQuestionTimerZeroDurationExpiresImmediately(t *testing.T) {
	rec := &timerRecorder{}
	timer := NewQuestionTimer(2, 0, testTick, rec.onTick, rec.onExpired)
	timer.Start()

	select {
	case <-timer.Done():
	case <-time.After(time.Second):
		t.Fatal("timer did not finish")
	}

	ticks, expired := rec.snapshot()
	assert.Empty(t, ticks)
	assert.Equal(t, 1, expired)
}

func TestQuestionTimerStopPreventsFurtherCallbacks(t *testing.T) {
	rec := &timerRecorder{}
	timer := NewQuestionTimer(0, 1000, testTick, rec.onTick, rec.onExpired)
	timer.Start()

	time.Sleep(5 * testTick)
	timer.Stop()

	select {
	case <-timer.Done():
	case <-time.After(time.Second):
		t.Fatal("timer goroutine did not exit after Stop")
	}

	ticksAtStop, expiredAtStop := rec.snapshot()
	require.Zero(t, expiredAtStop)

	time.Sleep(5 * testTick)
	ticksLater, expiredLater := rec.snapshot()
	assert.Equal(t, ticksAtStop, ticksLater)
	assert.Zero(t, expiredLater)
}

func TestQuestionTimerStopIsIdempotent(t *testing.T) {
	timer := NewQuestionTimer(0, 10, testTick, func(int, int) {}, func(int) {})
	timer.Start()

	timer.Stop()
	timer.Stop()

	select {
	case <-timer.Done():
	case <-time.After(time.Second):
		t.Fatal("timer goroutine did not exit")
	}
}

func TestQuestionTimerStartIsIdempotent(t *testing.T) {
	rec := &timerRecorder{}
	timer := NewQuestionTimer(0, 2, testTick, rec.onTick, rec.onExpired)
	timer.Start()
	timer.Start()

	select {
	case <-timer.Done():
	case <-time.After(time.Second):
		t.Fatal("timer did not finish")
	}
	time.Sleep(3 * testTick)

	_, expired := rec.snapshot()
	assert.Equal(t, 1, expired)
}
