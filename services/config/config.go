package config

import (
	"bytes"
	"encoding/json"

	"rotarycode-go/bus"
	"rotarycode-go/errcode"
	"rotarycode-go/types"
)

const configPrefix = "config"

var (
	TopicEncoder   = bus.T(configPrefix, "encoder")
	TopicHeartbeat = bus.T(configPrefix, "heartbeat")
)

// EmbeddedConfigLookup allows overriding how configs are resolved.
var EmbeddedConfigLookup = func(device string) ([]byte, bool) {
	b, ok := embeddedConfigs[device]
	return b, ok
}

// Load resolves the embedded config for device, applies defaults and
// validates it.
func Load(device string) (types.BoardConfig, error) {
	if device == "" {
		return types.BoardConfig{}, &errcode.E{C: errcode.UnknownDevice, Op: "config.Load", Msg: "missing device ID"}
	}
	raw, ok := EmbeddedConfigLookup(device)
	if !ok || len(raw) == 0 {
		return types.BoardConfig{}, &errcode.E{C: errcode.UnknownDevice, Op: "config.Load", Msg: "no embedded config for device: " + device}
	}
	return Parse(raw)
}

// Parse decodes a JSON board document. Unknown keys are rejected so a typo
// does not silently fall back to a default.
func Parse(raw []byte) (types.BoardConfig, error) {
	var cfg types.BoardConfig
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return types.BoardConfig{}, errcode.Wrap(errcode.InvalidParams, "config.Parse", err)
	}
	cfg = cfg.WithDefaults()
	if err := Validate(cfg.Encoder); err != nil {
		return types.BoardConfig{}, err
	}
	if cfg.Heartbeat.Interval < 0 {
		return types.BoardConfig{}, &errcode.E{C: errcode.InvalidParams, Op: "config.Validate", Msg: "negative heartbeat interval"}
	}
	return cfg, nil
}

// Validate checks an encoder config with defaults already applied.
func Validate(c types.EncoderConfig) error {
	bad := func(msg string) error {
		return &errcode.E{C: errcode.InvalidParams, Op: "config.Validate", Msg: msg}
	}
	switch {
	case c.PinA < 0 || c.PinB < 0 || c.Button < 0:
		return bad("negative pin")
	case c.PinA == c.PinB || c.PinA == c.Button || c.PinB == c.Button:
		return bad("pins must be distinct")
	case c.TimerResolutionHz == 0 || c.TimerAlarmCount == 0:
		return bad("alarm period is zero")
	case c.MotionQueueLen < 1 || c.ButtonQueueLen < 1:
		return bad("queue length must be positive")
	}
	for _, p := range []string{c.EncoderPull, c.ButtonPull} {
		switch p {
		case "none", "up", "down":
		default:
			return bad("unknown pull: " + p)
		}
	}
	return nil
}

// Publish puts each section of cfg on the bus as a retained message, so
// services that subscribe later still see it.
func Publish(conn *bus.Connection, cfg types.BoardConfig) {
	conn.Publish(&bus.Message{Topic: TopicEncoder, Payload: cfg.Encoder, Retained: true})
	conn.Publish(&bus.Message{Topic: TopicHeartbeat, Payload: cfg.Heartbeat, Retained: true})
}
