package runtime

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDebouncer_BurstCollapsesToLastCallback(t *testing.T) {
	t.Parallel()

	d := NewDebouncer(20 * time.Millisecond)
	defer d.Stop()

	var fired atomic.Int32
	var last atomic.Int32

	for i := 1; i <= 5; i++ {
		i := int32(i)
		d.Trigger(func() {
			fired.Add(1)
			last.Store(i)
		})
	}

	require.Eventually(t, func() bool {
		return fired.Load() == 1
	}, time.Second, 5*time.Millisecond)

	assert.Equal(t, int32(5), last.Load())

	// No straggler fires after the quiet period.
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(1), fired.Load())
}

func TestDebouncer_StopCancelsPending(t *testing.T) {
	t.Parallel()

	d := NewDebouncer(20 * time.Millisecond)

	var fired atomic.Int32
	d.Trigger(func() { fired.Add(1) })
	d.Stop()

	time.Sleep(60 * time.Millisecond)
	assert.Zero(t, fired.Load())
}

func TestDebouncer_TriggerAfterStop(t *testing.T) {
	t.Parallel()

	d := NewDebouncer(10 * time.Millisecond)
	d.Stop()

	var fired atomic.Int32
	d.Trigger(func() { fired.Add(1) })

	require.Eventually(t, func() bool {
		return fired.Load() == 1
	}, time.Second, 5*time.Millisecond)
}
