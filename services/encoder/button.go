package encoder

import (
	"context"
	"time"

	"rotarycode-go/services/encoder/halcore"
	"rotarycode-go/types"
	"rotarycode-go/x/ring"
	"rotarycode-go/x/timex"
)

// Debouncer polls the push button. Sampling at a fixed interval longer than
// the contact bounce is the debounce; a release produces one ButtonEvent.
type Debouncer struct {
	pin       halcore.Pin
	activeLow bool
	out       *ring.Ring[types.ButtonEvent]
	state     *ButtonState

	// owned by Poll
	wasPressed bool
	pressedAt  uint32
}

func NewDebouncer(pin halcore.Pin, activeLow bool, out *ring.Ring[types.ButtonEvent], st *ButtonState) *Debouncer {
	return &Debouncer{pin: pin, activeLow: activeLow, out: out, state: st}
}

// Level reads the pin now, without debouncing.
func (d *Debouncer) Level() bool {
	return d.pin.Get() != d.activeLow
}

// Poll takes one sample at nowMs. A press is counted when it ends; the
// release event is reported and queued.
func (d *Debouncer) Poll(nowMs uint32) (types.ButtonEvent, bool) {
	pressed := d.Level()
	if pressed == d.wasPressed {
		return types.ButtonEvent{}, false
	}
	d.wasPressed = pressed
	d.state.pressed.Store(pressed)

	if pressed {
		d.pressedAt = nowMs
		println("Info: button pressed")
		return types.ButtonEvent{}, false
	}

	dur := nowMs - d.pressedAt
	d.state.lastDuration.Store(dur)
	ev := types.ButtonEvent{
		Pressed:         false,
		PressDurationMs: dur,
		PressCount:      d.state.pressCount.Add(1),
	}
	if !d.out.TryPut(ev) {
		println("Warn: button queue full, event dropped")
	}
	return ev, true
}

// Run polls every interval until ctx is done.
func (d *Debouncer) Run(ctx context.Context, interval time.Duration, now timex.Clock) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			d.Poll(now())
		}
	}
}
