// miditest pokes the MIDI transport from the command line, for
// checking the USB gadget setup before starting the scanner daemon.
package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv"
)

const gadgetName = "f_midi"

func main() {
	if len(os.Args) < 2 {
		usage()
		return
	}

	switch os.Args[1] {
	case "list":
		listPorts()
	case "detect":
		detectGadget()
	case "note":
		testNote()
	case "scale":
		testScale()
	case "poll":
		pollPorts()
	default:
		usage()
	}
}

func usage() {
	fmt.Println("MIDI transport checks")
	fmt.Println("")
	fmt.Println("Commands:")
	fmt.Println("  list    - List all MIDI ports")
	fmt.Println("  detect  - Find the f_midi gadget port")
	fmt.Println("  note    - Send a middle C through the gadget")
	fmt.Println("  scale   - Play a velocity ramp up the C major scale")
	fmt.Println("  poll    - Watch ports appear and disappear")
}

func findGadget() drivers.Out {
	for _, p := range midi.GetOutPorts() {
		if strings.Contains(strings.ToLower(p.String()), gadgetName) {
			return p
		}
	}
	return nil
}

func listPorts() {
	fmt.Println("=== MIDI Input Ports ===")
	for i, p := range midi.GetInPorts() {
		fmt.Printf("  %d: %s\n", i, p.String())
	}
	fmt.Println("\n=== MIDI Output Ports ===")
	for i, p := range midi.GetOutPorts() {
		fmt.Printf("  %d: %s\n", i, p.String())
	}
}

func detectGadget() {
	fmt.Println("Looking for the f_midi gadget...")
	port := findGadget()
	if port == nil {
		fmt.Println("Not found. Is the libcomposite gadget configured?")
		return
	}
	fmt.Printf("Found output: %s\n", port.String())
}

func testNote() {
	port := findGadget()
	if port == nil {
		fmt.Println("No gadget port found")
		return
	}
	fmt.Printf("Using output: %s\n", port.String())

	send, err := midi.SendTo(port)
	if err != nil {
		fmt.Printf("Error opening port: %v\n", err)
		return
	}

	fmt.Println("Sending: middle C, velocity 100, half a second")
	if err := send(midi.NoteOn(0, 60, 100)); err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	time.Sleep(500 * time.Millisecond)
	send(midi.NoteOff(0, 60))
	fmt.Println("Done!")
}

func testScale() {
	port := findGadget()
	if port == nil {
		fmt.Println("No gadget port found")
		return
	}
	send, err := midi.SendTo(port)
	if err != nil {
		fmt.Printf("Error opening port: %v\n", err)
		return
	}

	scale := []uint8{60, 62, 64, 65, 67, 69, 71, 72}
	fmt.Println("Playing C major, velocity 40 to 110...")
	for i, note := range scale {
		vel := uint8(40 + i*10)
		send(midi.NoteOn(0, note, vel))
		time.Sleep(200 * time.Millisecond)
		send(midi.NoteOff(0, note))
	}
	fmt.Println("Done!")
}

func pollPorts() {
	fmt.Println("Polling for port changes every 2 seconds. Ctrl+C to exit.")

	last := ""
	for {
		var names []string
		for _, p := range midi.GetOutPorts() {
			names = append(names, p.String())
		}
		current := strings.Join(names, ",")
		if current != last {
			fmt.Printf("\n[%s] Ports changed:\n", time.Now().Format("15:04:05"))
			for _, name := range names {
				marker := "   "
				if strings.Contains(strings.ToLower(name), gadgetName) {
					marker = " * "
				}
				fmt.Printf("%s%s\n", marker, name)
			}
			last = current
		}
		time.Sleep(2 * time.Second)
	}
}
