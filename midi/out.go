package midi

import (
	"context"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // register MIDI driver
)

// Out owns one MIDI output port and delivers events to it in the order
// they were submitted. While no port is attached, submitted events are
// dropped rather than queued, so a reconnected host never receives
// stale notes.
type Out struct {
	match    string
	channel  uint8
	pollRate time.Duration

	events chan Event

	// port and send belong to the Run goroutine.
	port drivers.Out
	send func(msg gomidi.Message) error

	connected atomic.Bool
	dropped   atomic.Uint64
}

// NewOut creates a sink for the first output port whose name contains
// match (case insensitive). Events are sent on the given MIDI channel.
func NewOut(match string, channel uint8) *Out {
	return &Out{
		match:    match,
		channel:  channel & 0x0f,
		pollRate: time.Second,
		events:   make(chan Event, 32),
	}
}

// Send queues ev for delivery. It never blocks: with no port attached,
// or with the queue full, the event is counted and dropped.
func (o *Out) Send(ev Event) {
	if !o.connected.Load() {
		o.dropped.Add(1)
		return
	}
	select {
	case o.events <- ev:
	default:
		o.dropped.Add(1)
	}
}

// Connected reports whether an output port is currently attached.
func (o *Out) Connected() bool {
	return o.connected.Load()
}

// Dropped returns how many events were discarded without delivery.
func (o *Out) Dropped() uint64 {
	return o.dropped.Load()
}

// Run drains the queue and polls for the port until ctx is done.
// Blocking, run in a goroutine.
func (o *Out) Run(ctx context.Context) {
	ticker := time.NewTicker(o.pollRate)
	defer ticker.Stop()

	o.checkPort()

	for {
		select {
		case <-ctx.Done():
			o.detach()
			return
		case <-ticker.C:
			o.checkPort()
		case ev := <-o.events:
			o.deliver(ev)
		}
	}
}

// checkPort reattaches after a disconnect and notices a vanished port.
func (o *Out) checkPort() {
	if o.port != nil {
		if o.port.IsOpen() {
			return
		}
		slog.Warn("midi out lost", "port", o.port.String())
		o.detach()
	}
	port, ok := findOutPort(gomidi.GetOutPorts(), o.match)
	if !ok {
		return
	}
	if err := o.attach(port); err != nil {
		slog.Warn("midi out open failed", "port", port.String(), "err", err)
		return
	}
	slog.Info("midi out attached",
		"port", port.String(), "channel", o.channel, "dropped", o.dropped.Load())
}

func (o *Out) attach(port drivers.Out) error {
	send, err := gomidi.SendTo(port)
	if err != nil {
		return err
	}
	o.port = port
	o.send = send
	o.connected.Store(true)
	return nil
}

// detach closes the port and throws away anything already queued, so
// the next attachment starts from a clean slate.
func (o *Out) detach() {
	o.connected.Store(false)
	if o.port != nil && o.port.IsOpen() {
		o.port.Close()
	}
	o.port = nil
	o.send = nil
	for {
		select {
		case <-o.events:
			o.dropped.Add(1)
		default:
			return
		}
	}
}

func (o *Out) deliver(ev Event) {
	if o.send == nil {
		o.dropped.Add(1)
		return
	}
	msg := ev.Message(o.channel)
	if msg == nil {
		return
	}
	if err := o.send(msg); err != nil {
		slog.Warn("midi send failed", "event", ev, "err", err)
		o.dropped.Add(1)
		o.detach()
	}
}

// findOutPort returns the first port whose name contains match,
// case insensitive.
func findOutPort(ports []drivers.Out, match string) (drivers.Out, bool) {
	match = strings.ToLower(match)
	for _, p := range ports {
		if strings.Contains(strings.ToLower(p.String()), match) {
			return p, true
		}
	}
	return nil, false
}
