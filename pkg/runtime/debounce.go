package runtime

import (
	"sync"
	"time"
)

// EstimateQuietPeriod is the quiet period observed after an edit before
// derived estimates are recomputed. A superseding edit within the window
// cancels the pending recomputation.
const EstimateQuietPeriod = 250 * time.Millisecond

// Debouncer coalesces bursts of triggers into one callback after a quiet
// period. Only the latest callback survives a burst.
type Debouncer struct {
	delay time.Duration

	mu    sync.Mutex
	timer *time.Timer
}

func NewDebouncer(delay time.Duration) *Debouncer {
	return &Debouncer{delay: delay}
}

// Trigger schedules fn to run after the quiet period, cancelling any
// previously pending callback.
func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, fn)
}

// Stop cancels any pending callback.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
