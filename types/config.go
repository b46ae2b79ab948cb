package types

// EncoderConfig is the per-board wiring and timing, supplied as embedded JSON.
// Zero values are replaced by defaults when loaded.
type EncoderConfig struct {
	PinA   int `json:"pin_a"`
	PinB   int `json:"pin_b"`
	Button int `json:"button"`

	EncoderPull     string `json:"encoder_pull"` // "none","up","down"
	ButtonPull      string `json:"button_pull"`
	ButtonActiveLow *bool  `json:"button_active_low,omitempty"`

	TimerResolutionHz uint32 `json:"timer_resolution_hz"` // counting rate
	TimerAlarmCount   uint32 `json:"timer_alarm_count"`   // counts per alarm
	SettleTicks       uint32 `json:"settle_ticks"`        // alarm periods between steps
	ButtonPollMs      uint32 `json:"button_poll_ms"`

	MotionQueueLen int `json:"motion_queue_len"`
	ButtonQueueLen int `json:"button_queue_len"`
}

// ActiveLow reports the button polarity; unset means active low.
func (c EncoderConfig) ActiveLow() bool {
	return c.ButtonActiveLow == nil || *c.ButtonActiveLow
}

// Board defaults. Pins follow the reference wiring.
const (
	DefaultPinA              = 18
	DefaultPinB              = 19
	DefaultButton            = 15
	DefaultTimerResolutionHz = 1_000_000 // 1 us per count
	DefaultTimerAlarmCount   = 1000      // 1 ms alarm
	DefaultSettleTicks       = 5
	DefaultButtonPollMs      = 10
	DefaultMotionQueueLen    = 10
	DefaultButtonQueueLen    = 5
)

// WithDefaults fills zero fields. Pins are only defaulted when all three are
// zero, since GPIO 0 is a valid pin on its own.
func (c EncoderConfig) WithDefaults() EncoderConfig {
	if c.PinA == 0 && c.PinB == 0 && c.Button == 0 {
		c.PinA, c.PinB, c.Button = DefaultPinA, DefaultPinB, DefaultButton
	}
	if c.EncoderPull == "" {
		c.EncoderPull = "up"
	}
	if c.ButtonPull == "" {
		c.ButtonPull = "none"
	}
	if c.TimerResolutionHz == 0 {
		c.TimerResolutionHz = DefaultTimerResolutionHz
	}
	if c.TimerAlarmCount == 0 {
		c.TimerAlarmCount = DefaultTimerAlarmCount
	}
	if c.SettleTicks == 0 {
		c.SettleTicks = DefaultSettleTicks
	}
	if c.ButtonPollMs == 0 {
		c.ButtonPollMs = DefaultButtonPollMs
	}
	if c.MotionQueueLen == 0 {
		c.MotionQueueLen = DefaultMotionQueueLen
	}
	if c.ButtonQueueLen == 0 {
		c.ButtonQueueLen = DefaultButtonQueueLen
	}
	return c
}

// BoardConfig is one board's embedded document. Each top-level key is
// published retained on the bus under config/<key>.
type BoardConfig struct {
	Encoder   EncoderConfig   `json:"encoder"`
	Heartbeat HeartbeatConfig `json:"heartbeat"`
}

// HeartbeatConfig.Interval is in seconds; fractions are allowed.
type HeartbeatConfig struct {
	Interval float64 `json:"interval"`
}

const DefaultHeartbeatInterval = 1.0

func (c BoardConfig) WithDefaults() BoardConfig {
	c.Encoder = c.Encoder.WithDefaults()
	if c.Heartbeat.Interval == 0 {
		c.Heartbeat.Interval = DefaultHeartbeatInterval
	}
	return c
}
