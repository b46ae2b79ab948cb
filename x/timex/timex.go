package timex

import (
	"time"

	"rotarycode-go/x/mathx"
)

// Clock returns a monotonic millisecond tick. It wraps at 2^32 ms; compare
// ticks with unsigned subtraction.
type Clock func() uint32

// MsClock returns a Clock counting milliseconds since the call.
func MsClock() Clock {
	start := time.Now()
	return func() uint32 { return uint32(time.Since(start).Milliseconds()) }
}

// AlarmPeriod returns the duration of count ticks of a counter running at
// resolutionHz. resolutionHz==0 is coerced to 1 to avoid division by zero.
func AlarmPeriod(resolutionHz, count uint32) time.Duration {
	if resolutionHz == 0 {
		resolutionHz = 1
	}
	ns := mathx.RoundDiv(uint64(count)*uint64(time.Second), uint64(resolutionHz))
	return time.Duration(ns)
}
