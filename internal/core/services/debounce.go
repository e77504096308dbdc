package services

import (
	"sync"
	"time"

	"github.com/custodia-labs/corpus-cli/internal/core/domain"
	"github.com/custodia-labs/corpus-cli/internal/core/ports/driven"
	"github.com/custodia-labs/corpus-cli/internal/logger"
)

// Debouncer is a single-slot timer: arming it replaces whatever was armed
// before, so a burst of keystrokes dispatches only the last query.
type Debouncer struct {
	clock driven.Clock
	fire  func(domain.SearchQuery)

	mu     sync.Mutex
	timer  driven.Timer
	slot   uint64
	closed bool
}

// NewDebouncer creates a debouncer that hands expired queries to fire.
func NewDebouncer(clock driven.Clock, fire func(domain.SearchQuery)) *Debouncer {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Debouncer{
		clock: clock,
		fire:  fire,
	}
}

// Arm schedules query to fire after delay, cancelling any armed query.
// The query captured here is the one dispatched, whatever happens to the
// input in the meantime.
func (d *Debouncer) Arm(query domain.SearchQuery, delay time.Duration) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return
	}
	d.stopLocked()

	slot := d.slot
	d.timer = d.clock.AfterFunc(delay, func() {
		d.expire(slot, query)
	})
	logger.Debug("debounce armed: %s in %s", query, delay)
}

// Cancel drops the armed query, if any.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopLocked()
}

// Close cancels the armed query and refuses further arming.
func (d *Debouncer) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopLocked()
	d.closed = true
}

// stopLocked stops the current timer and invalidates its slot, so a callback
// the runtime already started cannot dispatch. Caller must hold d.mu.
func (d *Debouncer) stopLocked() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.slot++
}

func (d *Debouncer) expire(slot uint64, query domain.SearchQuery) {
	d.mu.Lock()
	if d.closed || slot != d.slot {
		d.mu.Unlock()
		return
	}
	d.timer = nil
	d.slot++
	d.mu.Unlock()

	logger.Debug("debounce fired: %s", query)
	d.fire(query)
}
