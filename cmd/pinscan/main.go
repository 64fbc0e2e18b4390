// pinscan sweeps the transparent pin space looking for shorted pin
// pairs, for recording a keymap one key at a time: hold a key down and
// read off which column and row pins it bridges.
package main

import (
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/pkg/errors"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"

	"github.com/dogeystamp/geode-piano/config"
	"github.com/dogeystamp/geode-piano/keymap"
	"github.com/dogeystamp/geode-piano/pins"
)

// maxConnections guards the display against a mis-wired matrix
// lighting up the whole pin space.
const maxConnections = 10

const (
	scanEvery = 3 * time.Second
	settle    = time.Millisecond
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	dimStyle   = lipgloss.NewStyle().Faint(true)
	connStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
)

type scanMsg struct {
	conns []pins.Connection
	err   error
}

type model struct {
	drv      pins.Driver
	conns    []pins.Connection
	err      error
	scans    int
	quitting bool
}

func scanCmd(drv pins.Driver) tea.Cmd {
	return func() tea.Msg {
		conns, err := pins.ScanConnections(drv, settle)
		return scanMsg{conns: conns, err: err}
	}
}

func (m model) Init() tea.Cmd {
	return scanCmd(m.drv)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case "s":
			return m, scanCmd(m.drv)
		}
	case scanMsg:
		m.conns = msg.conns
		m.err = msg.err
		m.scans++
		drv := m.drv
		return m, tea.Tick(scanEvery, func(time.Time) tea.Msg {
			conns, err := pins.ScanConnections(drv, settle)
			return scanMsg{conns: conns, err: err}
		})
	}
	return m, nil
}

func (m model) View() string {
	if m.quitting {
		return ""
	}
	s := titleStyle.Render("geode-piano pin scanner") + "\n"
	s += dimStyle.Render(fmt.Sprintf("sweep %d, hold one key at a time; s rescans now, q quits", m.scans)) + "\n\n"

	if m.err != nil {
		s += errStyle.Render(fmt.Sprintf("sweep failed: %v", m.err)) + "\n"
		return s
	}
	if len(m.conns) == 0 {
		s += dimStyle.Render("no connections") + "\n"
		return s
	}

	conns := m.conns
	if len(conns) > maxConnections {
		conns = conns[:maxConnections]
	}
	for _, c := range conns {
		s += connStyle.Render(fmt.Sprintf("GND %2d -> IN %2d", c.GND, c.Input))
		if hint := coordHint(c); hint != "" {
			s += dimStyle.Render("  " + hint)
		}
		s += "\n"
	}
	if n := len(m.conns) - maxConnections; n > 0 {
		s += warnStyle.Render(fmt.Sprintf("%d more not shown, check the wiring", n)) + "\n"
	}
	return s
}

var installed = keymap.Grand()

// coordHint names the matrix coordinate when the pair lands on the
// production column and row lists, and the key mapped there if any.
func coordHint(c pins.Connection) string {
	col := indexOf(keymap.GrandColPins, c.GND)
	row := indexOf(keymap.GrandRowPins, c.Input)
	if col < 0 || row < 0 {
		return ""
	}
	hint := fmt.Sprintf("row %d col %d", row, col)
	if act := installed.At(row, col); act.Kind != keymap.KindNOP {
		hint += "  " + act.String()
	}
	return hint
}

func indexOf(list []int, pin int) int {
	for i, p := range list {
		if p == pin {
			return i
		}
	}
	return -1
}

func setup() (pins.Driver, error) {
	if _, err := host.Init(); err != nil {
		return nil, errors.Wrap(err, "host init")
	}
	bus, err := i2creg.Open(config.I2CBus)
	if err != nil {
		return nil, errors.Wrap(err, "open i2c bus")
	}
	if err := bus.SetSpeed(config.BusSpeed); err != nil {
		fmt.Printf("i2c speed not set: %v\n", err)
	}
	var board [pins.NumBoardPins]gpio.PinIO
	for i, name := range config.BoardPins {
		pin := gpioreg.ByName(name)
		if pin == nil {
			return nil, errors.Errorf("gpio %s not found", name)
		}
		board[i] = pin
	}
	return pins.New(bus, config.AddrA, config.AddrB, board)
}

func main() {
	drv, err := setup()
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	p := tea.NewProgram(model{drv: drv})
	if _, err := p.Run(); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}
