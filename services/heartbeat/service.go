package heartbeat

import (
	"context"
	"time"

	"rotarycode-go/bus"
	"rotarycode-go/types"
)

var topicConfigHeartbeat = bus.T("config", "heartbeat")

// Source is the read side of the encoder service.
type Source interface {
	StepCounter() int32
	Angle() int32
	PressCount() uint32
	MotionDrops() uint32
	ButtonDrops() uint32
}

type Service struct {
	Src      Source
	Interval time.Duration   // until config arrives; 0 means 1s
	Conn     *bus.Connection // nil: no config subscription

	lastDrops uint32
}

func (s *Service) serviceLoop(ctx context.Context) {
	iv := s.Interval
	if iv <= 0 {
		iv = time.Second
	}
	tick := time.NewTicker(iv)
	defer tick.Stop()

	var cfgCh <-chan *bus.Message
	if s.Conn != nil {
		cfgSub := s.Conn.Subscribe(topicConfigHeartbeat)
		defer s.Conn.Unsubscribe(cfgSub)
		cfgCh = cfgSub.Channel()
	}

	// loop until context is cancelled, respond to tick and config changes
	for {
		select {
		case <-ctx.Done():
			println("Info: heartbeat service stopping")
			return
		case t := <-tick.C:
			println("Info:", t.Format("15:04:05"), "Heartbeat", "counter", s.Src.StepCounter(),
				"angle", s.Src.Angle(), "presses", s.Src.PressCount())
			if n := s.newDrops(); n > 0 {
				println("Warn: events dropped since last beat:", n)
			}
		case msg := <-cfgCh:
			if d, ok := intervalOf(msg.Payload); ok {
				tick.Reset(d)
				println("Info:", "Heartbeat interval set to", d.String())
			}
		}
	}
}

// newDrops reports queue drops since the previous call.
func (s *Service) newDrops() uint32 {
	drops := s.Src.MotionDrops() + s.Src.ButtonDrops()
	n := drops - s.lastDrops
	s.lastDrops = drops
	return n
}

// intervalOf accepts the typed config section or a decoded JSON object.
func intervalOf(payload any) (time.Duration, bool) {
	var secs float64
	switch p := payload.(type) {
	case types.HeartbeatConfig:
		secs = p.Interval
	case map[string]any:
		v, ok := p["interval"].(float64)
		if !ok {
			return 0, false
		}
		secs = v
	default:
		return 0, false
	}
	d := time.Duration(secs * float64(time.Second))
	if d <= 0 {
		return 0, false
	}
	return d, true
}

// Start the heartbeat service.
func (s *Service) Start(ctx context.Context) error {
	go s.serviceLoop(ctx)
	return nil
}

// Run is Start without the goroutine, for use as a main loop.
func (s *Service) Run(ctx context.Context) { s.serviceLoop(ctx) }
