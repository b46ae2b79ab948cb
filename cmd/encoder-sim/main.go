// encoder-sim drives the encoder service on the host with fake pins and a
// real-time alarm, following a YAML scenario.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"rotarycode-go/bus"
	"rotarycode-go/services/config"
	"rotarycode-go/services/encoder"
	"rotarycode-go/services/encoder/platform"
	"rotarycode-go/services/heartbeat"
	"rotarycode-go/types"
)

const builtin = `
steps:
  - cw 25
  - say "now back the other way"
  - ccw 3
  - press 120
  - wait 50
`

func main() {
	var (
		scenarioPath = flag.String("scenario", "", "YAML scenario file (default: built-in demo)")
		board        = flag.String("board", "", "Embedded board config (overrides the scenario)")
	)
	flag.Parse()

	var src *strings.Reader
	if *scenarioPath == "" {
		src = strings.NewReader(builtin)
	} else {
		b, err := os.ReadFile(*scenarioPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Fatal:", err)
			os.Exit(1)
		}
		src = strings.NewReader(string(b))
	}
	sc, cmds, err := ParseScenario(src)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Fatal:", err)
		os.Exit(1)
	}
	if *board != "" {
		sc.Board = *board
	}

	boardCfg, err := config.Load(sc.Board)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Fatal:", err)
		os.Exit(1)
	}
	cfg := boardCfg.Encoder

	b := bus.NewBus(8)
	config.Publish(b.NewConnection("config"), boardCfg)

	pins := &platform.HostPinFactory{}
	svc := encoder.New(cfg, encoder.Resources{
		Pins:    pins,
		Alarm:   platform.DefaultAlarm(),
		Console: &platform.HostConsole{Out: os.Stdout},
		Bus:     b.NewConnection("encoder"),
	})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := svc.Start(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Fatal:", err)
		os.Exit(1)
	}
	hb := &heartbeat.Service{Src: svc, Conn: b.NewConnection("heartbeat")}
	_ = hb.Start(ctx)

	d, err := newDriver(pins, cfg, time.Duration(sc.PhaseMs)*time.Millisecond)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Fatal:", err)
		os.Exit(1)
	}
	for _, c := range cmds {
		d.run(c)
	}
	// Let the printer catch up before the summary.
	time.Sleep(50 * time.Millisecond)

	fmt.Printf("counter=%d steps=%d angle=%d rotations=%d menu=%d direction=%s\n",
		svc.StepCounter(), svc.ElapsedSteps(), svc.Angle(), svc.Rotations(), svc.MenuPosition(), svc.Direction())
	fmt.Printf("presses=%d last_press_ms=%d motion_drops=%d button_drops=%d\n",
		svc.PressCount(), svc.LastPressDurationMs(), svc.MotionDrops(), svc.ButtonDrops())
}

// driver moves the fake lines the way a hand on the knob would.
type driver struct {
	a, b, btn *platform.FakePin
	activeLow bool
	phase     time.Duration
}

func newDriver(pins *platform.HostPinFactory, cfg types.EncoderConfig, phase time.Duration) (*driver, error) {
	a, okA := pins.Get(cfg.PinA)
	b, okB := pins.Get(cfg.PinB)
	btn, okBtn := pins.Get(cfg.Button)
	if !okA || !okB || !okBtn {
		return nil, fmt.Errorf("pins %d/%d/%d not configured", cfg.PinA, cfg.PinB, cfg.Button)
	}
	btn.Set(cfg.ActiveLow()) // released
	return &driver{a: a, b: b, btn: btn, activeLow: cfg.ActiveLow(), phase: phase}, nil
}

func (d *driver) set(a, b bool) {
	d.a.Set(a)
	d.b.Set(b)
	time.Sleep(d.phase)
}

func (d *driver) run(c Command) {
	switch c.Op {
	case OpCW:
		for i := 0; i < c.N; i++ {
			d.set(false, true)
			d.set(false, false)
			d.set(true, false)
			d.set(true, true)
		}
	case OpCCW:
		for i := 0; i < c.N; i++ {
			d.set(true, false)
			d.set(false, false)
			d.set(false, true)
			d.set(true, true)
		}
	case OpPress:
		d.btn.Set(!d.activeLow)
		time.Sleep(time.Duration(c.N) * time.Millisecond)
		d.btn.Set(d.activeLow)
	case OpWait:
		time.Sleep(time.Duration(c.N) * time.Millisecond)
	case OpSay:
		fmt.Println("#", c.Text)
	}
}
