package encoder

import (
	"sync/atomic"

	"rotarycode-go/types"
	"rotarycode-go/x/mathx"
)

// EncoderState is written only by the decoder (from the alarm callback) and
// read by anyone. Each field is read atomically; a multi-field read is not a
// consistent snapshot. Use the MotionEvent from the queue for that.
type EncoderState struct {
	counter   atomic.Int32
	steps     atomic.Uint32
	direction atomic.Uint32
	angle     atomic.Int32
	rotations atomic.Int32
	menu      atomic.Int32
}

func (s *EncoderState) StepCounter() int32         { return s.counter.Load() }
func (s *EncoderState) ElapsedSteps() uint32       { return s.steps.Load() }
func (s *EncoderState) Direction() types.Direction { return types.Direction(s.direction.Load()) }
func (s *EncoderState) Angle() int32               { return s.angle.Load() }
func (s *EncoderState) Rotations() int32           { return s.rotations.Load() }
func (s *EncoderState) MenuPosition() int32        { return s.menu.Load() }

// apply records one validated step and returns the resulting snapshot.
// Single writer: load then store is sufficient.
func (s *EncoderState) apply(dir types.Direction) types.MotionEvent {
	delta := int32(1)
	if dir == types.DirCCW {
		delta = -1
	}
	counter := s.counter.Load() + delta
	menu := s.menu.Load() + delta
	steps := s.steps.Load() + 1
	// Go's division truncates toward zero, which is what rotations wants.
	rotations := counter / types.StepsPerRotation
	angle := mathx.FloorMod(counter, types.StepsPerRotation) * types.DegreesPerStep

	s.counter.Store(counter)
	s.menu.Store(menu)
	s.steps.Store(steps)
	s.rotations.Store(rotations)
	s.angle.Store(angle)
	s.direction.Store(uint32(dir))

	return types.MotionEvent{
		Counter:      counter,
		Steps:        steps,
		Direction:    dir,
		Angle:        angle,
		Rotations:    rotations,
		MenuPosition: menu,
	}
}

// ButtonState is written only by the debouncer.
type ButtonState struct {
	pressed      atomic.Bool
	pressCount   atomic.Uint32
	lastDuration atomic.Uint32
}

// Pressed is the debounced level as of the last poll.
func (s *ButtonState) Pressed() bool               { return s.pressed.Load() }
func (s *ButtonState) PressCount() uint32          { return s.pressCount.Load() }
func (s *ButtonState) LastPressDurationMs() uint32 { return s.lastDuration.Load() }
