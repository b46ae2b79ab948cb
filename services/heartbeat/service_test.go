package heartbeat

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"rotarycode-go/bus"
	"rotarycode-go/types"
)

type fakeSource struct {
	reads  atomic.Int32
	mDrops atomic.Uint32
	bDrops atomic.Uint32
}

func (f *fakeSource) StepCounter() int32  { f.reads.Add(1); return 3 }
func (f *fakeSource) Angle() int32        { return 54 }
func (f *fakeSource) PressCount() uint32  { return 1 }
func (f *fakeSource) MotionDrops() uint32 { return f.mDrops.Load() }
func (f *fakeSource) ButtonDrops() uint32 { return f.bDrops.Load() }

func waitReads(t *testing.T, src *fakeSource, n int32) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for src.reads.Load() < n {
		select {
		case <-deadline:
			t.Fatalf("heartbeat read the source %d times, want %d", src.reads.Load(), n)
		case <-time.After(time.Millisecond):
		}
	}
}

func TestHeartbeatPollsSourceAndStops(t *testing.T) {
	src := &fakeSource{}
	s := &Service{Src: src, Interval: 5 * time.Millisecond}
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	waitReads(t, src, 2)
	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("heartbeat did not stop")
	}
}

func TestHeartbeatIntervalFromConfig(t *testing.T) {
	b := bus.NewBus(4)
	src := &fakeSource{}
	s := &Service{Src: src, Interval: time.Hour, Conn: b.NewConnection("heartbeat")}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.Run(ctx)

	time.Sleep(20 * time.Millisecond)
	if n := src.reads.Load(); n != 0 {
		t.Fatalf("beat %d times on a 1h interval", n)
	}

	cfg := b.NewConnection("config")
	cfg.Publish(b.NewMessage(bus.T("config", "heartbeat"), types.HeartbeatConfig{Interval: 0.005}, true))
	waitReads(t, src, 2)
}

func TestHeartbeatRetainedIntervalAppliesAtStart(t *testing.T) {
	b := bus.NewBus(4)
	b.NewConnection("config").Publish(b.NewMessage(bus.T("config", "heartbeat"),
		map[string]any{"interval": 0.005}, true))

	src := &fakeSource{}
	s := &Service{Src: src, Interval: time.Hour, Conn: b.NewConnection("heartbeat")}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.Run(ctx)

	waitReads(t, src, 2)
}

func TestIntervalOf(t *testing.T) {
	cases := []struct {
		payload any
		want    time.Duration
		ok      bool
	}{
		{types.HeartbeatConfig{Interval: 2}, 2 * time.Second, true},
		{map[string]any{"interval": 0.25}, 250 * time.Millisecond, true},
		{map[string]any{"interval": "2"}, 0, false},
		{types.HeartbeatConfig{Interval: 0}, 0, false},
		{types.HeartbeatConfig{Interval: -1}, 0, false},
		{"2s", 0, false},
	}
	for _, c := range cases {
		got, ok := intervalOf(c.payload)
		if got != c.want || ok != c.ok {
			t.Fatalf("intervalOf(%#v) = %v,%v want %v,%v", c.payload, got, ok, c.want, c.ok)
		}
	}
}

func TestNewDropsReportsDelta(t *testing.T) {
	src := &fakeSource{}
	s := &Service{Src: src}

	steps := []struct {
		motion, button uint32
		want           uint32
	}{
		{0, 0, 0},
		{1, 0, 1},
		{1, 0, 0},
		{3, 2, 4},
		{3, 2, 0},
	}
	for i, st := range steps {
		src.mDrops.Store(st.motion)
		src.bDrops.Store(st.button)
		if got := s.newDrops(); got != st.want {
			t.Fatalf("step %d: newDrops=%d, want %d", i, got, st.want)
		}
	}
}
