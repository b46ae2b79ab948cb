// services/encoder/platform/factories_host.go
//go:build !rp2040

package platform

import (
	"bytes"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"rotarycode-go/errcode"
	"rotarycode-go/services/encoder/halcore"
	"rotarycode-go/x/timex"

	"tinygo.org/x/drivers"
)

// ----------------------------- GPIO (host) -----------------------------------

// FakePin implements halcore.Pin for host-side tests and simulation.
// Pull-ups set the idle level high, pull-downs low.
type FakePin struct {
	number int
	level  atomic.Bool
	pull   atomic.Uint32
}

func NewFakePin(n int) *FakePin { return &FakePin{number: n} }

func (p *FakePin) ConfigureInput(pull halcore.Pull) error {
	p.pull.Store(uint32(pull))
	switch pull {
	case halcore.PullUp:
		p.level.Store(true)
	case halcore.PullDown:
		p.level.Store(false)
	}
	return nil
}

func (p *FakePin) Get() bool      { return p.level.Load() }
func (p *FakePin) Set(level bool) { p.level.Store(level) }
func (p *FakePin) Number() int    { return p.number }

// Pull reports the last configured pull.
func (p *FakePin) Pull() halcore.Pull { return halcore.Pull(p.pull.Load()) }

// MaxPin matches the highest user GPIO on the target board.
const MaxPin = 28

// HostPinFactory returns stable *FakePin instances per number.
type HostPinFactory struct {
	mu   sync.Mutex
	pins map[int]*FakePin
}

func (f *HostPinFactory) ByNumber(n int) (halcore.Pin, bool) {
	if n < 0 || n > MaxPin {
		return nil, false
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.pins == nil {
		f.pins = make(map[int]*FakePin)
	}
	p, ok := f.pins[n]
	if !ok {
		p = NewFakePin(n)
		f.pins[n] = p
	}
	return p, true
}

// Get exposes the underlying *FakePin for tests (e.g. to drive levels).
func (f *HostPinFactory) Get(n int) (*FakePin, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.pins[n]
	return p, ok
}

// DefaultPinFactory provides a host GPIO factory.
func DefaultPinFactory() halcore.PinFactory {
	return &HostPinFactory{pins: make(map[int]*FakePin)}
}

// ----------------------------- Alarm (host) ----------------------------------

// HostAlarm emulates the periodic hardware alarm with a goroutine and a
// time.Ticker. A Manual alarm never ticks on its own; tests call Fire.
type HostAlarm struct {
	Manual bool

	mu      sync.Mutex
	cb      func(uint32)
	period  time.Duration
	reload  bool
	stop    chan struct{}
	running bool
	tick    atomic.Uint32
	fireMu  sync.Mutex
}

func (a *HostAlarm) Configure(cfg halcore.AlarmConfig, cb func(uint32)) error {
	if cb == nil || cfg.ResolutionHz == 0 || cfg.Count == 0 {
		return errcode.InvalidParams
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.running {
		return errcode.Busy
	}
	a.cb = cb
	a.period = timex.AlarmPeriod(cfg.ResolutionHz, cfg.Count)
	a.reload = cfg.AutoReload
	return nil
}

func (a *HostAlarm) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.cb == nil {
		return errcode.InvalidParams
	}
	if a.running {
		return errcode.Busy
	}
	a.running = true
	if a.Manual {
		return nil
	}
	a.stop = make(chan struct{})
	go a.run(a.period, a.reload, a.stop)
	return nil
}

func (a *HostAlarm) Stop() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.running {
		return nil
	}
	a.running = false
	if a.stop != nil {
		close(a.stop)
		a.stop = nil
	}
	return nil
}

// Fire delivers one alarm, as if the period had elapsed.
// Callbacks never overlap, matching a single interrupt line.
func (a *HostAlarm) Fire() {
	a.mu.Lock()
	cb := a.cb
	a.mu.Unlock()
	if cb == nil {
		return
	}
	a.fireMu.Lock()
	cb(a.tick.Add(1))
	a.fireMu.Unlock()
}

// Ticks reports how many alarms have fired.
func (a *HostAlarm) Ticks() uint32 { return a.tick.Load() }

func (a *HostAlarm) run(period time.Duration, reload bool, stop <-chan struct{}) {
	t := time.NewTicker(period)
	defer t.Stop()
	for {
		select {
		case <-stop:
			return
		case <-t.C:
			a.Fire()
			if !reload {
				return
			}
		}
	}
}

// DefaultAlarm returns a free-running host alarm.
func DefaultAlarm() halcore.Alarm { return &HostAlarm{} }

// ----------------------------- Console (host) --------------------------------

// HostConsole implements drivers.UART over an io.Writer. Reads are served
// from In, if set.
type HostConsole struct {
	mu  sync.Mutex
	Out io.Writer
	In  bytes.Buffer
}

var _ drivers.UART = (*HostConsole)(nil)

func (c *HostConsole) Write(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Out == nil {
		return len(p), nil
	}
	return c.Out.Write(p)
}

func (c *HostConsole) Read(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.In.Read(p)
}

func (c *HostConsole) Buffered() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.In.Len()
}

// DefaultConsole writes to stdout.
func DefaultConsole() drivers.UART { return &HostConsole{Out: os.Stdout} }
