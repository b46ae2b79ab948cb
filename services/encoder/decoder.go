package encoder

import (
	"rotarycode-go/services/encoder/halcore"
	"rotarycode-go/types"
	"rotarycode-go/x/ring"
)

const levelUnknown int8 = -1

// Decoder turns periodic samples of the A and B lines into steps.
//
// Tick runs in interrupt context on hardware: it must not block, allocate,
// or log. A step is counted on a rising edge of A; B's level at that moment
// gives the direction. A new pin pair is only accepted once the lines have
// been quiet for the settle window and the reading matches the previous
// sample.
type Decoder struct {
	a, b   halcore.Pin
	settle uint32
	out    *ring.Ring[types.MotionEvent]
	state  *EncoderState

	// owned by Tick
	validA, validB int8
	rawA, rawB     int8
	lastChange     uint32
}

func NewDecoder(a, b halcore.Pin, settleTicks uint32, out *ring.Ring[types.MotionEvent], st *EncoderState) *Decoder {
	return &Decoder{
		a: a, b: b,
		settle: settleTicks,
		out:    out,
		state:  st,
		validA: levelUnknown,
		validB: levelUnknown,
		rawA:   level(a.Get()),
		rawB:   level(b.Get()),
	}
}

// Tick samples both lines. now is the alarm tick count; wrap is handled by
// unsigned subtraction.
func (d *Decoder) Tick(now uint32) {
	a, b := level(d.a.Get()), level(d.b.Get())

	if now-d.lastChange >= d.settle {
		changed := d.validA != a || d.validB != b
		stable := a == d.rawA && b == d.rawB
		if changed && stable {
			if d.validA == 0 && a == 1 {
				dir := types.DirCW
				if b != 0 {
					dir = types.DirCCW
				}
				ev := d.state.apply(dir)
				d.out.TryPut(ev) // full: dropped and counted by the ring
				d.lastChange = now
			}
			d.validA, d.validB = a, b
		}
	}
	d.rawA, d.rawB = a, b
}

func level(v bool) int8 {
	if v {
		return 1
	}
	return 0
}
