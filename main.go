// geode-piano turns a salvaged piano key-bed into a USB MIDI
// controller. It scans the key matrix through two MCP23017 expanders,
// derives note velocity from the paired key switches, and delivers the
// result to the f_midi USB gadget port.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"

	"github.com/dogeystamp/geode-piano/blinky"
	"github.com/dogeystamp/geode-piano/config"
	"github.com/dogeystamp/geode-piano/keymap"
	"github.com/dogeystamp/geode-piano/matrix"
	"github.com/dogeystamp/geode-piano/midi"
	"github.com/dogeystamp/geode-piano/pins"
)

var (
	debug   = flag.Bool("debug", false, "enable debug logging")
	port    = flag.String("port", config.PortMatch, "substring of the MIDI output port name")
	channel = flag.Uint("channel", config.Channel, "MIDI channel (0-15)")
	noPedal = flag.Bool("no-pedal", false, "skip the sustain pedal reader")
	noLED   = flag.Bool("no-led", false, "skip the status LED")
)

// initLogger configures the shared slog logger and calls
// slog.SetDefault so the stdlib log package routes through it too.
func initLogger(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level:     level,
		AddSource: debug,
	})
	slog.SetDefault(slog.New(h))
}

func run(ctx context.Context) error {
	if _, err := host.Init(); err != nil {
		return errors.Wrap(err, "host init")
	}

	bus, err := i2creg.Open(config.I2CBus)
	if err != nil {
		return errors.Wrap(err, "open i2c bus")
	}
	defer bus.Close()
	if err := bus.SetSpeed(config.BusSpeed); err != nil {
		slog.Warn("i2c speed not set", "err", err)
	}

	var board [pins.NumBoardPins]gpio.PinIO
	for i, name := range config.BoardPins {
		pin := gpioreg.ByName(name)
		if pin == nil {
			return errors.Errorf("gpio %s not found", name)
		}
		board[i] = pin
	}

	drv, err := pins.New(bus, config.AddrA, config.AddrB, board)
	if err != nil {
		return errors.Wrap(err, "pin driver")
	}

	km := keymap.Grand()
	if err := km.Validate(); err != nil {
		return errors.Wrap(err, "keymap")
	}

	out := midi.NewOut(*port, uint8(*channel))
	go out.Run(ctx)

	if !*noPedal {
		pedalPin := gpioreg.ByName(config.PedalPin)
		if pedalPin == nil {
			return errors.Errorf("gpio %s not found", config.PedalPin)
		}
		pedal := matrix.NewPedal(pedalPin, config.PedalInverted, out,
			config.ScanInterval, config.DebounceTicks)
		go func() {
			if err := pedal.Run(ctx); err != nil {
				slog.Error("pedal reader stopped", "err", err)
			}
		}()
	}

	if !*noLED {
		if led := gpioreg.ByName(config.LEDPin); led != nil {
			go func() {
				if err := blinky.Run(ctx, led); err != nil {
					slog.Warn("status led stopped", "err", err)
				}
			}()
		} else {
			slog.Warn("status led not found", "pin", config.LEDPin)
		}
	}

	mat, err := matrix.New(matrix.Config{
		ColPins:         keymap.GrandColPins,
		RowPins:         keymap.GrandRowPins,
		Keymap:          km,
		Tick:            config.ScanInterval,
		DebounceTicks:   config.DebounceTicks,
		VelocityFloor:   config.VelocityFloor,
		VelocityCeiling: config.VelocityCeiling,
		DefaultVelocity: config.DefaultVelocity,
	}, drv, out)
	if err != nil {
		return err
	}
	return mat.Run(ctx)
}

func main() {
	flag.Parse()
	initLogger(*debug)

	if *channel > 15 {
		slog.Error("channel out of range", "channel", *channel)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	slog.Info("geode-piano starting")
	if err := run(ctx); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
	slog.Info("geode-piano stopped")
}
