package matrix

import (
	"context"
	"log/slog"
	"time"

	"github.com/pkg/errors"
	"periph.io/x/conn/v3/gpio"

	"github.com/dogeystamp/geode-piano/midi"
)

// Pedal reads the sustain pedal line and reports state changes as
// CC 64. The line is debounced with the same hysteresis scheme as the
// key contacts.
type Pedal struct {
	pin      gpio.PinIO
	inverted bool
	sink     Sink
	tick     time.Duration
	debounce int

	pressed bool
	count   int
}

// NewPedal wraps a pedal input line. inverted is true for
// normally-closed pedals, where the line idles low and goes high when
// the pedal is pressed.
func NewPedal(pin gpio.PinIO, inverted bool, sink Sink, tick time.Duration, debounceTicks int) *Pedal {
	return &Pedal{
		pin:      pin,
		inverted: inverted,
		sink:     sink,
		tick:     tick,
		debounce: debounceTicks,
	}
}

// Run polls the pedal line until ctx is done. Blocking, run in a
// goroutine.
func (p *Pedal) Run(ctx context.Context) error {
	if err := p.pin.In(gpio.PullUp, gpio.NoEdge); err != nil {
		return errors.Wrapf(err, "pedal pin %s", p.pin.Name())
	}
	slog.Info("pedal polling", "pin", p.pin.Name(), "inverted", p.inverted)

	ticker := time.NewTicker(p.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			p.sample(p.pin.Read())
		}
	}
}

// sample feeds one raw level through the debouncer.
func (p *Pedal) sample(lvl gpio.Level) {
	pressed := (lvl == gpio.High) == p.inverted
	if pressed == p.pressed {
		p.count = 0
		return
	}
	p.count++
	if p.count < p.debounce {
		return
	}
	p.pressed = pressed
	p.count = 0
	p.sink.Send(midi.SustainEvent(pressed))
	slog.Debug("pedal", "pressed", pressed)
}
