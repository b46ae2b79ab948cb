// services/encoder/halcore/types.go
package halcore

import "rotarycode-go/errcode"

// ---- GPIO abstractions ----

type Pull uint8

const (
	PullNone Pull = iota
	PullUp
	PullDown
)

// ParsePull maps the config spelling to a Pull.
func ParsePull(s string) (Pull, error) {
	switch s {
	case "", "none":
		return PullNone, nil
	case "up":
		return PullUp, nil
	case "down":
		return PullDown, nil
	default:
		return PullNone, errcode.InvalidParams
	}
}

func PullToString(p Pull) string {
	switch p {
	case PullUp:
		return "up"
	case PullDown:
		return "down"
	default:
		return "none"
	}
}

// Pin is a digital input. Get must not block; it is called from the
// alarm callback.
type Pin interface {
	ConfigureInput(pull Pull) error
	Get() bool
	Number() int
}

// PinFactory supplies GPIO pins by the configured number scheme.
type PinFactory interface {
	ByNumber(n int) (Pin, bool)
}

// ---- Periodic alarm ----

// AlarmConfig describes a counter running at ResolutionHz that fires every
// Count counts. AutoReload re-arms the alarm after each fire.
type AlarmConfig struct {
	ResolutionHz uint32
	Count        uint32
	AutoReload   bool
}

// Alarm is a periodic timer. The callback runs in interrupt context on
// hardware: it must not block, allocate, or log. tick is the number of
// alarms fired since Start, starting at 1.
type Alarm interface {
	Configure(cfg AlarmConfig, cb func(tick uint32)) error
	Start() error
	Stop() error
}
