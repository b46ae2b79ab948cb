package types

// ------------------------
// Rotary encoder
// ------------------------

// Fixed calibration of the encoder wheel: 20 detents, 18 degrees each.
const (
	StepsPerRotation = 20
	DegreesPerStep   = 18
)

// Direction is the last detected sense of rotation.
type Direction uint8

const (
	DirNone Direction = iota
	DirCW
	DirCCW
)

func (d Direction) String() string {
	switch d {
	case DirCW:
		return "CW"
	case DirCCW:
		return "CCW"
	default:
		return "NONE"
	}
}

// MotionEvent is a snapshot taken by the decoder right after a validated
// step. It is copied into the motion queue by value.
type MotionEvent struct {
	Counter      int32     `json:"counter"`   // net steps
	Steps        uint32    `json:"steps"`     // all validated steps
	Direction    Direction `json:"direction"`
	Angle        int32     `json:"angle"`     // degrees, [0,360)
	Rotations    int32     `json:"rotations"` // counter / StepsPerRotation, truncated
	MenuPosition int32     `json:"menu_position"`
}

// ------------------------
// Button
// ------------------------

// ButtonEvent is emitted on release only, so Pressed is always false.
type ButtonEvent struct {
	Pressed         bool   `json:"pressed"`
	PressDurationMs uint32 `json:"press_duration_ms"`
	PressCount      uint32 `json:"press_count"`
}
