// services/encoder/platform/factories_rp2040.go
//go:build rp2040

package platform

import (
	"device/rp"
	"machine"
	"runtime/interrupt"
	"sync/atomic"

	"rotarycode-go/errcode"
	"rotarycode-go/services/encoder/halcore"

	uartx "github.com/jangala-dev/tinygo-uartx/uartx"
	"tinygo.org/x/drivers"
)

// -----------------------------------------------------------------------------
// Defaults used by main on Raspberry Pi Pico (RP2040)
// -----------------------------------------------------------------------------

// DefaultPinFactory maps logical numbers directly to machine.Pin(n).
// This matches Pico GP numbering.
func DefaultPinFactory() halcore.PinFactory { return rp2PinFactory{} }

// DefaultAlarm returns the TIMER alarm 1 driver. Alarm 0 belongs to the
// TinyGo runtime scheduler.
func DefaultAlarm() halcore.Alarm { return &alarm1 }

// DefaultConsole configures UART0 at 115200 baud on the board-default pins.
func DefaultConsole() drivers.UART {
	hw := uartx.UART0
	_ = hw.Configure(uartx.UARTConfig{
		BaudRate: 115200,
		TX:       machine.UART0_TX_PIN,
		RX:       machine.UART0_RX_PIN,
	})
	return hw
}

// ---- GPIO ----

type rp2PinFactory struct{}

func (rp2PinFactory) ByNumber(n int) (halcore.Pin, bool) {
	// Constrain to RP2's user GPIOs (GP0..GP28).
	if n < 0 || n > 28 {
		return nil, false
	}
	return rp2Pin{p: machine.Pin(n), n: n}, true
}

type rp2Pin struct {
	p machine.Pin
	n int
}

func (r rp2Pin) ConfigureInput(pull halcore.Pull) error {
	var mode machine.PinMode
	switch pull {
	case halcore.PullUp:
		mode = machine.PinInputPullup
	case halcore.PullDown:
		mode = machine.PinInputPulldown
	default:
		mode = machine.PinInput
	}
	r.p.Configure(machine.PinConfig{Mode: mode})
	return nil
}

func (r rp2Pin) Get() bool   { return r.p.Get() }
func (r rp2Pin) Number() int { return r.n }

// ---- Alarm ----

// The RP2040 TIMER counts microseconds, so only 1 MHz resolution exists.
const rp2TimerHz = 1_000_000

const alarm1Bit = 1 << 1

var alarm1 rp2Alarm

type rp2Alarm struct {
	cb      func(uint32)
	period  uint32
	reload  bool
	next    uint32
	tick    uint32
	running atomic.Bool
	irq     interrupt.Interrupt
	irqOK   bool
}

func (a *rp2Alarm) Configure(cfg halcore.AlarmConfig, cb func(uint32)) error {
	if cb == nil || cfg.Count == 0 {
		return errcode.InvalidParams
	}
	if cfg.ResolutionHz != rp2TimerHz {
		return errcode.Unsupported
	}
	if a.running.Load() {
		return errcode.Busy
	}
	a.cb = cb
	a.period = cfg.Count
	a.reload = cfg.AutoReload
	if !a.irqOK {
		a.irq = interrupt.New(rp.IRQ_TIMER_IRQ_1, alarm1ISR)
		a.irqOK = true
	}
	return nil
}

func (a *rp2Alarm) Start() error {
	if a.cb == nil {
		return errcode.InvalidParams
	}
	if !a.running.CompareAndSwap(false, true) {
		return errcode.Busy
	}
	a.tick = 0
	a.next = rp.TIMER.TIMERAWL.Get() + a.period
	rp.TIMER.INTR.Set(alarm1Bit)
	rp.TIMER.INTE.SetBits(alarm1Bit)
	a.irq.Enable()
	rp.TIMER.ALARM1.Set(a.next)
	return nil
}

func (a *rp2Alarm) Stop() error {
	if !a.running.CompareAndSwap(true, false) {
		return nil
	}
	rp.TIMER.INTE.ClearBits(alarm1Bit)
	rp.TIMER.ARMED.Set(alarm1Bit) // write 1 to disarm
	rp.TIMER.INTR.Set(alarm1Bit)
	return nil
}

// alarm1ISR runs at interrupt priority: clear, re-arm relative to the
// previous deadline so the period does not drift, then hand the tick over.
func alarm1ISR(interrupt.Interrupt) {
	a := &alarm1
	rp.TIMER.INTR.Set(alarm1Bit)
	if !a.running.Load() {
		return
	}
	if a.reload {
		a.next += a.period
		rp.TIMER.ALARM1.Set(a.next)
	} else {
		a.running.Store(false)
	}
	a.tick++
	a.cb(a.tick)
}
