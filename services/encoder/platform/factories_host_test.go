//go:build !rp2040

package platform

import (
	"bytes"
	"sync/atomic"
	"testing"
	"time"

	"rotarycode-go/errcode"
	"rotarycode-go/services/encoder/halcore"
)

func TestFakePinPulls(t *testing.T) {
	p := NewFakePin(3)
	if err := p.ConfigureInput(halcore.PullUp); err != nil || !p.Get() {
		t.Fatalf("pull-up: level=%v err=%v", p.Get(), err)
	}
	if err := p.ConfigureInput(halcore.PullDown); err != nil || p.Get() {
		t.Fatalf("pull-down: level=%v err=%v", p.Get(), err)
	}
	p.Set(true)
	if !p.Get() || p.Number() != 3 {
		t.Fatal("Set/Number")
	}
}

func TestHostPinFactoryRange(t *testing.T) {
	f := &HostPinFactory{}
	a, ok := f.ByNumber(18)
	if !ok {
		t.Fatal("GP18 rejected")
	}
	b, _ := f.ByNumber(18)
	if a != b {
		t.Fatal("factory must return the same pin per number")
	}
	for _, n := range []int{-1, MaxPin + 1} {
		if _, ok := f.ByNumber(n); ok {
			t.Fatalf("pin %d accepted", n)
		}
	}
}

func TestHostAlarmManual(t *testing.T) {
	a := &HostAlarm{Manual: true}
	var seen []uint32
	if err := a.Configure(halcore.AlarmConfig{ResolutionHz: 1_000_000, Count: 1000, AutoReload: true}, func(tick uint32) {
		seen = append(seen, tick)
	}); err != nil {
		t.Fatalf("Configure: %v", err)
	}
	if err := a.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := a.Start(); errcode.Of(err) != errcode.Busy {
		t.Fatalf("second Start err=%v, want busy", err)
	}
	a.Fire()
	a.Fire()
	if len(seen) != 2 || seen[0] != 1 || seen[1] != 2 || a.Ticks() != 2 {
		t.Fatalf("ticks=%v", seen)
	}
}

func TestHostAlarmRejectsBadConfig(t *testing.T) {
	a := &HostAlarm{}
	if err := a.Configure(halcore.AlarmConfig{ResolutionHz: 0, Count: 1000}, func(uint32) {}); errcode.Of(err) != errcode.InvalidParams {
		t.Fatalf("err=%v", err)
	}
	if err := a.Start(); errcode.Of(err) != errcode.InvalidParams {
		t.Fatalf("start unconfigured err=%v", err)
	}
}

func TestHostAlarmFreeRunning(t *testing.T) {
	a := &HostAlarm{}
	var n atomic.Uint32
	if err := a.Configure(halcore.AlarmConfig{ResolutionHz: 1_000_000, Count: 1000, AutoReload: true}, func(uint32) { n.Add(1) }); err != nil {
		t.Fatalf("Configure: %v", err)
	}
	if err := a.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	deadline := time.After(2 * time.Second)
	for n.Load() < 3 {
		select {
		case <-deadline:
			t.Fatal("alarm did not tick")
		case <-time.After(time.Millisecond):
		}
	}
	if err := a.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}
}

func TestHostConsole(t *testing.T) {
	var out bytes.Buffer
	c := &HostConsole{Out: &out}
	c.In.WriteString("hi")
	if _, err := c.Write([]byte("ok")); err != nil || out.String() != "ok" {
		t.Fatalf("write: %q %v", out.String(), err)
	}
	if c.Buffered() != 2 {
		t.Fatalf("buffered=%d", c.Buffered())
	}
	buf := make([]byte, 4)
	n, _ := c.Read(buf)
	if string(buf[:n]) != "hi" {
		t.Fatalf("read %q", buf[:n])
	}
}
