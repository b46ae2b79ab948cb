package main

import (
	"context"
	"time"

	"tinygo.org/x/drivers"

	"rotarycode-go/bus"
	"rotarycode-go/services/config"
	"rotarycode-go/services/encoder"
	"rotarycode-go/services/heartbeat"
)

const device = "pico"

func main() {
	// Allow USB CDC to enumerate before we print.
	time.Sleep(2 * time.Second)
	println("boot", "drivers", drivers.Version)

	cfg, err := config.Load(device)
	if err != nil {
		fatal(err)
	}

	b := bus.NewBus(8)
	config.Publish(b.NewConnection("config"), cfg)

	ctx := context.Background()
	res := encoder.DefaultResources()
	res.Bus = b.NewConnection("encoder")
	enc := encoder.New(cfg.Encoder, res)
	if err := enc.Start(ctx); err != nil {
		fatal(err)
	}

	// Interval comes from the retained config/heartbeat message.
	hb := &heartbeat.Service{Src: enc, Conn: b.NewConnection("heartbeat")}
	hb.Run(ctx)
}

// fatal never returns. There is no degraded mode without the encoder.
func fatal(err error) {
	println("Fatal:", err.Error())
	for {
		time.Sleep(time.Hour)
	}
}
