package config

// -----------------------------------------------------------------------------
// Embedded configuration
//
// Key: device ID (board name passed to Load)
// Val: raw JSON for that board; omitted fields take defaults
// -----------------------------------------------------------------------------

const cfgPico = `{
  "encoder": {
    "pin_a": 18,
    "pin_b": 19,
    "button": 15,
    "encoder_pull": "up",
    "button_pull": "none",
    "button_active_low": true,
    "timer_resolution_hz": 1000000,
    "timer_alarm_count": 1000,
    "settle_ticks": 5,
    "button_poll_ms": 10,
    "motion_queue_len": 10,
    "button_queue_len": 5
  },
  "heartbeat": {
    "interval": 2
  }
}`

// Host builds: pulled-up button so an idle sim does not read as pressed.
const cfgSim = `{
  "encoder": {
    "button_pull": "up"
  },
  "heartbeat": {
    "interval": 0.5
  }
}`

var embeddedConfigs = map[string][]byte{
	"pico": []byte(cfgPico),
	"sim":  []byte(cfgSim),
}
