package encoder

import (
	"context"
	"io"

	"rotarycode-go/bus"
	"rotarycode-go/types"
	"rotarycode-go/x/fmtx"
	"rotarycode-go/x/ring"
)

// Motion snapshots are retained so a late subscriber sees the current
// position; button events are not.
var (
	TopicMotion = bus.T("encoder", "motion")
	TopicButton = bus.T("encoder", "button")
)

// Printer drains both queues, writes one report per event and republishes
// each event on the bus. Either sink may be nil.
type Printer struct {
	w       io.Writer
	conn    *bus.Connection
	motion  *ring.Ring[types.MotionEvent]
	buttons *ring.Ring[types.ButtonEvent]
}

func NewPrinter(w io.Writer, conn *bus.Connection, motion *ring.Ring[types.MotionEvent], buttons *ring.Ring[types.ButtonEvent]) *Printer {
	return &Printer{w: w, conn: conn, motion: motion, buttons: buttons}
}

// Run blocks until ctx is done.
func (p *Printer) Run(ctx context.Context) {
	for {
		p.Drain()
		// A put that raced the drain may have seen the ring non-empty and
		// skipped the wake token. Its index store is visible to Len here,
		// so only block once both rings read empty after the drain.
		if p.motion.Len() > 0 || p.buttons.Len() > 0 {
			continue
		}
		select {
		case <-ctx.Done():
			return
		case <-p.motion.Readable():
		case <-p.buttons.Readable():
		}
	}
}

// Drain handles every queued event and returns how many there were.
func (p *Printer) Drain() int {
	n := 0
	for {
		ev, ok := p.motion.TryGet()
		if !ok {
			break
		}
		if p.w != nil {
			WriteMotion(p.w, ev)
		}
		if p.conn != nil {
			p.conn.Publish(&bus.Message{Topic: TopicMotion, Payload: ev, Retained: true})
		}
		n++
	}
	for {
		ev, ok := p.buttons.TryGet()
		if !ok {
			break
		}
		if p.w != nil {
			WriteButton(p.w, ev)
		}
		if p.conn != nil {
			p.conn.Publish(&bus.Message{Topic: TopicButton, Payload: ev})
		}
		n++
	}
	return n
}

func WriteMotion(w io.Writer, ev types.MotionEvent) {
	fmtx.Fprintf(w, "Direction: %s | Counter: %d | Steps: %d\n", ev.Direction, ev.Counter, ev.Steps)
	fmtx.Fprintf(w, "Angle: %d° | Rotations: %d | Menu: %d\n", ev.Angle, ev.Rotations, ev.MenuPosition)
}

func WriteButton(w io.Writer, ev types.ButtonEvent) {
	fmtx.Fprintf(w, "Button released | Held: %d ms | Presses: %d\n", ev.PressDurationMs, ev.PressCount)
}
