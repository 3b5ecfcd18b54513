// Package interactive provides the pilot-console command loop.
package interactive

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/chzyer/readline"

	"github.com/pilot-uwb/pilot-go/pkg/engine"
	"github.com/pilot-uwb/pilot-go/pkg/ranging"
)

// Console is an interactive shell over a running engine.
type Console struct {
	engine *engine.Engine
	name   string
	rl     *readline.Instance
}

// New creates a console for the engine.
func New(e *engine.Engine, name string) (*Console, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "pilot> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}
	return &Console{
		engine: e,
		name:   name,
		rl:     rl,
	}, nil
}

// Run processes commands until the user exits.
func (c *Console) Run() {
	defer c.rl.Close()

	fmt.Fprintf(c.rl.Stdout(), "Pilot host %q ready. Type 'help' for commands.\n", c.name)

	for {
		line, err := c.rl.Readline()
		if err == readline.ErrInterrupt {
			continue
		}
		if err == io.EOF {
			return
		}

		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "help", "?":
			c.printHelp()
		case "devices", "ls":
			c.printDevices()
		case "readings":
			c.printReadings()
		case "reading":
			c.printReading(fields[1:])
		case "stop":
			c.stopDevice(fields[1:])
		case "disconnect":
			c.disconnectDevice(fields[1:])
		case "calibrate":
			c.calibrateDevice(fields[1:])
		case "status":
			c.printStatus()
		case "quit", "exit":
			return
		default:
			fmt.Fprintf(c.rl.Stderr(), "unknown command %q, type 'help'\n", fields[0])
		}
	}
}

func (c *Console) printHelp() {
	fmt.Fprint(c.rl.Stdout(), `Commands:
  devices              List connected devices and their states
  readings             Show the latest reading per device
  reading <device>     Show one device's reading
  stop <device>        Ask the device's accessory to stop ranging
  disconnect <device>  Close the device's session
  calibrate <device> <azimuth-deg> <distance-m>
                       Set the device's calibration offsets
  status               Show host status
  quit                 Exit
`)
}

func (c *Console) printDevices() {
	sessions := c.engine.Registry().All()
	if len(sessions) == 0 {
		fmt.Fprintln(c.rl.Stdout(), "no devices connected")
		return
	}
	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].Identity().Address < sessions[j].Identity().Address
	})
	for _, s := range sessions {
		id := s.Identity()
		fmt.Fprintf(c.rl.Stdout(), "%-20s %-24s %s\n", id.Address, id.Name, s.State())
	}
}

func (c *Console) printReadings() {
	readings := c.engine.Readings()
	if len(readings) == 0 {
		fmt.Fprintln(c.rl.Stdout(), "no readings")
		return
	}
	addresses := make([]string, 0, len(readings))
	for address := range readings {
		addresses = append(addresses, address)
	}
	sort.Strings(addresses)
	for _, address := range addresses {
		r := readings[address]
		fmt.Fprintf(c.rl.Stdout(), "%-20s %s\n", address, r)
	}
}

func (c *Console) printReading(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(c.rl.Stderr(), "usage: reading <device>")
		return
	}
	reading, err := c.engine.Reading(args[0])
	if err != nil {
		c.printError(err)
		return
	}
	fmt.Fprintln(c.rl.Stdout(), reading)
}

func (c *Console) stopDevice(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(c.rl.Stderr(), "usage: stop <device>")
		return
	}
	if err := c.engine.RequestStop(args[0]); err != nil {
		c.printError(err)
		return
	}
	fmt.Fprintf(c.rl.Stdout(), "stop requested for %s\n", args[0])
}

func (c *Console) disconnectDevice(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(c.rl.Stderr(), "usage: disconnect <device>")
		return
	}
	if err := c.engine.Disconnect(args[0]); err != nil {
		c.printError(err)
		return
	}
	fmt.Fprintf(c.rl.Stdout(), "disconnected %s\n", args[0])
}

func (c *Console) calibrateDevice(args []string) {
	if len(args) != 3 {
		fmt.Fprintln(c.rl.Stderr(), "usage: calibrate <device> <azimuth-deg> <distance-m>")
		return
	}
	azimuth, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		fmt.Fprintf(c.rl.Stderr(), "bad azimuth offset %q\n", args[1])
		return
	}
	distance, err := strconv.ParseFloat(args[2], 64)
	if err != nil {
		fmt.Fprintf(c.rl.Stderr(), "bad distance offset %q\n", args[2])
		return
	}
	err = c.engine.SetCalibration(args[0], ranging.Calibration{
		AzimuthOffsetDeg:     azimuth,
		DistanceOffsetMeters: distance,
	})
	if err != nil {
		c.printError(err)
		return
	}
	fmt.Fprintf(c.rl.Stdout(), "calibration set for %s\n", args[0])
}

func (c *Console) printStatus() {
	registry := c.engine.Registry()
	fmt.Fprintf(c.rl.Stdout(), "host: %s\n", c.name)
	fmt.Fprintf(c.rl.Stdout(), "sessions: %d/%d\n", registry.Count(), registry.Limit())
}

func (c *Console) printError(err error) {
	if errors.Is(err, engine.ErrUnknownDevice) {
		fmt.Fprintln(c.rl.Stderr(), "no such device")
		return
	}
	fmt.Fprintf(c.rl.Stderr(), "error: %v\n", err)
}
