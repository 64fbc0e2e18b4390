// Package blinky drives the status LED heartbeat so a headless unit
// shows it is alive.
package blinky

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"periph.io/x/conn/v3/gpio"
)

const (
	onTime  = 100 * time.Millisecond
	offTime = 900 * time.Millisecond
)

// Run blinks the LED until ctx is done, then leaves it dark.
// Blocking, run in a goroutine.
func Run(ctx context.Context, led gpio.PinIO) error {
	set := func(lvl gpio.Level) error {
		return errors.Wrapf(led.Out(lvl), "led %s", led.Name())
	}
	if err := set(gpio.Low); err != nil {
		return err
	}
	for {
		if err := set(gpio.High); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return set(gpio.Low)
		case <-time.After(onTime):
		}
		if err := set(gpio.Low); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return set(gpio.Low)
		case <-time.After(offTime):
		}
	}
}
