package scheduler

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestScheduler_RunsTask(t *testing.T) {
	var runs int32
	s := New(10*time.Millisecond, func() {
		atomic.AddInt32(&runs, 1)
	})

	s.Start()
	assert.True(t, s.IsRunning())

	assert.Eventually(t, func() bool {
		return atomic.LoadInt32(&runs) >= 2
	}, time.Second, 5*time.Millisecond)

	s.Stop()
	assert.False(t, s.IsRunning())

	stopped := atomic.LoadInt32(&runs)
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, stopped, atomic.LoadInt32(&runs), "task must not run after Stop")
}

func TestScheduler_StartTwice(t *testing.T) {
	s := New(time.Hour, func() {})

	s.Start()
	s.Start()
	assert.True(t, s.IsRunning())

	s.Stop()
	s.Stop()
	assert.False(t, s.IsRunning())
}

func TestScheduler_ZeroIntervalDisabled(t *testing.T) {
	s := New(0, func() {})

	s.Start()
	assert.False(t, s.IsRunning())
}
