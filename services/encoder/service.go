package encoder

import (
	"context"
	"io"
	"sync/atomic"
	"time"

	"tinygo.org/x/drivers"

	"rotarycode-go/bus"
	"rotarycode-go/errcode"
	"rotarycode-go/services/encoder/halcore"
	"rotarycode-go/services/encoder/platform"
	"rotarycode-go/types"
	"rotarycode-go/x/ring"
	"rotarycode-go/x/timex"
)

// Resources are the platform pieces the service drives.
type Resources struct {
	Pins    halcore.PinFactory
	Alarm   halcore.Alarm
	Console drivers.UART    // nil: events are not written
	Bus     *bus.Connection // nil: events are not republished
	Clock   timex.Clock     // nil uses timex.MsClock
}

// DefaultResources returns the board's pins, alarm and console.
func DefaultResources() Resources {
	return Resources{
		Pins:    platform.DefaultPinFactory(),
		Alarm:   platform.DefaultAlarm(),
		Console: platform.DefaultConsole(),
	}
}

// Service owns the encoder decoder, the button debouncer and the printer.
type Service struct {
	cfg types.EncoderConfig
	res Resources

	enc EncoderState
	btn ButtonState

	// Set once by Start, read from any task.
	motion  atomic.Pointer[ring.Ring[types.MotionEvent]]
	buttons atomic.Pointer[ring.Ring[types.ButtonEvent]]
	deb     atomic.Pointer[Debouncer]

	started atomic.Bool
}

func New(cfg types.EncoderConfig, res Resources) *Service {
	if res.Clock == nil {
		res.Clock = timex.MsClock()
	}
	return &Service{cfg: cfg.WithDefaults(), res: res}
}

// Start configures the hardware and launches the background tasks. It may
// only succeed once. Any error is an initialisation failure; there is no
// partial mode.
func (s *Service) Start(ctx context.Context) error {
	if !s.started.CompareAndSwap(false, true) {
		return &errcode.E{C: errcode.AlreadyStarted, Op: "encoder.Start"}
	}
	cfg := s.cfg

	motion, err := ring.New[types.MotionEvent](cfg.MotionQueueLen)
	if err != nil {
		return errcode.Wrap(errcode.QueueAllocFailed, "encoder.Start: motion queue", err)
	}
	buttons, err := ring.New[types.ButtonEvent](cfg.ButtonQueueLen)
	if err != nil {
		return errcode.Wrap(errcode.QueueAllocFailed, "encoder.Start: button queue", err)
	}

	encPull, err := halcore.ParsePull(cfg.EncoderPull)
	if err != nil {
		return errcode.Wrap(errcode.PinConfigFailed, "encoder.Start: encoder pull", err)
	}
	btnPull, err := halcore.ParsePull(cfg.ButtonPull)
	if err != nil {
		return errcode.Wrap(errcode.PinConfigFailed, "encoder.Start: button pull", err)
	}
	pinA, err := s.input(cfg.PinA, encPull)
	if err != nil {
		return err
	}
	pinB, err := s.input(cfg.PinB, encPull)
	if err != nil {
		return err
	}
	pinBtn, err := s.input(cfg.Button, btnPull)
	if err != nil {
		return err
	}

	dec := NewDecoder(pinA, pinB, cfg.SettleTicks, motion, &s.enc)
	deb := NewDebouncer(pinBtn, cfg.ActiveLow(), buttons, &s.btn)

	alarmCfg := halcore.AlarmConfig{
		ResolutionHz: cfg.TimerResolutionHz,
		Count:        cfg.TimerAlarmCount,
		AutoReload:   true,
	}
	if err := s.res.Alarm.Configure(alarmCfg, dec.Tick); err != nil {
		return errcode.Wrap(errcode.TimerAllocFailed, "encoder.Start: configure alarm", err)
	}
	if err := s.res.Alarm.Start(); err != nil {
		return errcode.Wrap(errcode.TimerAllocFailed, "encoder.Start: start alarm", err)
	}

	s.motion.Store(motion)
	s.buttons.Store(buttons)
	s.deb.Store(deb)

	go deb.Run(ctx, time.Duration(cfg.ButtonPollMs)*time.Millisecond, s.res.Clock)
	if s.res.Console != nil || s.res.Bus != nil {
		var w io.Writer
		if s.res.Console != nil {
			w = s.res.Console
		}
		go NewPrinter(w, s.res.Bus, motion, buttons).Run(ctx)
	}
	go func() {
		<-ctx.Done()
		_ = s.res.Alarm.Stop()
	}()

	println("Info: encoder started, pins", cfg.PinA, cfg.PinB, "button", cfg.Button)
	return nil
}

func (s *Service) input(n int, pull halcore.Pull) (halcore.Pin, error) {
	p, ok := s.res.Pins.ByNumber(n)
	if !ok {
		return nil, &errcode.E{C: errcode.UnknownPin, Op: "encoder.Start", Msg: "no such pin"}
	}
	if err := p.ConfigureInput(pull); err != nil {
		return nil, errcode.Wrap(errcode.PinConfigFailed, "encoder.Start", err)
	}
	return p, nil
}

// ---- encoder ----

func (s *Service) Angle() int32              { return s.enc.Angle() }
func (s *Service) Direction() types.Direction { return s.enc.Direction() }
func (s *Service) Rotations() int32          { return s.enc.Rotations() }
func (s *Service) StepCounter() int32        { return s.enc.StepCounter() }
func (s *Service) ElapsedSteps() uint32      { return s.enc.ElapsedSteps() }
func (s *Service) MenuPosition() int32       { return s.enc.MenuPosition() }

// ---- button ----

func (s *Service) PressCount() uint32          { return s.btn.PressCount() }
func (s *Service) LastPressDurationMs() uint32 { return s.btn.LastPressDurationMs() }

// ButtonPressed reads the button line now. False before Start.
func (s *Service) ButtonPressed() bool {
	deb := s.deb.Load()
	if deb == nil {
		return false
	}
	return deb.Level()
}

// ---- queues ----

// Motion and Buttons are nil before Start. With a console or bus attached
// the printer is their consumer; otherwise the caller may drain them.
func (s *Service) Motion() *ring.Ring[types.MotionEvent]  { return s.motion.Load() }
func (s *Service) Buttons() *ring.Ring[types.ButtonEvent] { return s.buttons.Load() }

func (s *Service) MotionDrops() uint32 {
	if q := s.motion.Load(); q != nil {
		return q.Drops()
	}
	return 0
}

func (s *Service) ButtonDrops() uint32 {
	if q := s.buttons.Load(); q != nil {
		return q.Drops()
	}
	return 0
}
