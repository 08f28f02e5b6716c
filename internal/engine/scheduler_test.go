package engine

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestScheduler_CollapsesRapidSignals(t *testing.T) {
	var s scheduler
	defer s.close()

	var fired atomic.Int32
	for i := 0; i < 10; i++ {
		s.schedule(20*time.Millisecond, func() { fired.Add(1) })
	}

	time.Sleep(100 * time.Millisecond)
	require.Equal(t, int32(1), fired.Load())
}

func TestScheduler_RescheduleReplacesCallback(t *testing.T) {
	var s scheduler
	defer s.close()

	var got atomic.Int32
	s.schedule(20*time.Millisecond, func() { got.Store(1) })
	s.schedule(20*time.Millisecond, func() { got.Store(2) })

	time.Sleep(100 * time.Millisecond)
	require.Equal(t, int32(2), got.Load())
}

func TestScheduler_Cancel(t *testing.T) {
	var s scheduler
	defer s.close()

	var fired atomic.Int32
	s.schedule(20*time.Millisecond, func() { fired.Add(1) })
	s.cancel()

	time.Sleep(80 * time.Millisecond)
	require.Equal(t, int32(0), fired.Load())
}

func TestScheduler_NothingFiresAfterClose(t *testing.T) {
	var s scheduler

	var fired atomic.Int32
	s.schedule(20*time.Millisecond, func() { fired.Add(1) })
	s.close()
	s.schedule(10*time.Millisecond, func() { fired.Add(1) })

	time.Sleep(80 * time.Millisecond)
	require.Equal(t, int32(0), fired.Load())
}
