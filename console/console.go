// Package console is the interactive text control surface. It owns no
// universe state: every action goes through the command channel or the cue
// engine.
package console

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/lumahq/luma/cuelist"
	"github.com/lumahq/luma/fixture"
	"github.com/lumahq/luma/profile"
	"github.com/lumahq/luma/universe"
)

// queryTimeout bounds how long the console waits for a query reply.
const queryTimeout = 100 * time.Millisecond

// Console reads operator commands line by line and dispatches them.
type Console struct {
	sender cuelist.Sender
	engine *cuelist.Engine
	in     io.Reader
	out    io.Writer
}

// New creates a console reading from in and printing to out.
func New(sender cuelist.Sender, engine *cuelist.Engine, in io.Reader, out io.Writer) *Console {
	return &Console{sender: sender, engine: engine, in: in, out: out}
}

// Run processes commands until quit/exit or end of input.
func (c *Console) Run() {
	fmt.Fprintln(c.out, "Type a command, or 'help' for help.")

	scanner := bufio.NewScanner(c.in)
	for {
		fmt.Fprint(c.out, "> ")
		if !scanner.Scan() {
			return
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "quit" || line == "exit" {
			return
		}
		if line == "" {
			continue
		}
		if err := c.dispatch(strings.Fields(line)); err != nil {
			fmt.Fprintf(c.out, "Error: %v\n", err)
		}
	}
}

func (c *Console) dispatch(args []string) error {
	switch args[0] {
	case "c", "chan", "channel":
		return c.channelCommand(args)
	case "a", "addr", "address":
		return c.addressCommand(args)
	case "blackout":
		if err := c.sender.Send(universe.Blackout{}); err != nil {
			return err
		}
		fmt.Fprintln(c.out, "Blackout applied")
		return nil
	case "record":
		return c.recordCommand(args)
	case "delete":
		if len(args) < 2 {
			return fmt.Errorf("usage: delete <name>")
		}
		return c.engine.Delete(args[1])
	case "go":
		return c.engine.Go()
	case "back":
		return c.engine.Back()
	case "goto":
		if len(args) < 2 {
			return fmt.Errorf("usage: goto <name|number>")
		}
		return c.engine.GoTo(args[1])
	case "cues":
		c.printCues()
		return nil
	case "fixtures":
		return c.fixturesCommand()
	case "info":
		return c.infoCommand(args)
	case "help":
		c.printHelp()
		return nil
	default:
		return fmt.Errorf("unknown command %q, type 'help' for help", args[0])
	}
}

// channelCommand handles fixture-level control:
//
//	c <channel> @ <intensity>
//	c <channel> rgb <r> <g> <b>
//	c <channel> color <hex|name>
func (c *Console) channelCommand(args []string) error {
	if len(args) < 3 {
		return fmt.Errorf("usage: c <channel> @|rgb|color ...")
	}
	channel, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("channel must be a number")
	}

	var values []universe.FunctionValue
	switch args[2] {
	case "@":
		if len(args) < 4 {
			return fmt.Errorf("missing intensity")
		}
		intensity, err := parseLevel(args[3])
		if err != nil {
			return err
		}
		values = intensityValues(intensity)
	case "rgb":
		if len(args) < 6 {
			return fmt.Errorf("usage: c <channel> rgb <r> <g> <b>")
		}
		var rgb [3]byte
		for i := 0; i < 3; i++ {
			level, err := parseLevel(args[3+i])
			if err != nil {
				return err
			}
			rgb[i] = level
		}
		values = rgbValues(rgb[0], rgb[1], rgb[2])
	case "color":
		if len(args) < 4 {
			return fmt.Errorf("usage: c <channel> color <hex|name>")
		}
		r, g, b, err := ParseColor(args[3])
		if err != nil {
			return err
		}
		values = rgbValues(r, g, b)
	default:
		return fmt.Errorf("use: c <channel> @ <intensity>, rgb <r> <g> <b> or color <hex|name>")
	}

	return c.sender.Send(universe.SetFixture{Channel: channel, Values: values})
}

// addressCommand handles direct DMX writes: a <address> @ <value>.
func (c *Console) addressCommand(args []string) error {
	if len(args) < 4 || args[2] != "@" {
		return fmt.Errorf("usage: a <address> @ <value>")
	}
	address, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("address must be a number")
	}
	value, err := parseLevel(args[3])
	if err != nil {
		return err
	}
	return c.sender.Send(universe.SetAddress{Address: address, Value: value})
}

// recordCommand handles: record <name> [fade]. The fade accepts Go duration
// syntax ("2s", "500ms") or a bare number of seconds.
func (c *Console) recordCommand(args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: record <name> [fade]")
	}
	var fade time.Duration
	if len(args) >= 3 {
		parsed, err := parseFade(args[2])
		if err != nil {
			return err
		}
		fade = parsed
	}
	if err := c.engine.Record(args[1], fade); err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Recorded cue %q (fade %v)\n", args[1], fade)
	return nil
}

// infoCommand prints a patched fixture's channel map: info <channel>.
func (c *Console) infoCommand(args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: info <channel>")
	}
	channel, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("channel must be a number")
	}

	reply := make(chan []fixture.ChannelInfo, 1)
	if err := c.sender.Send(universe.GetFixtureChannels{Channel: channel, Reply: reply}); err != nil {
		return err
	}

	select {
	case info := <-reply:
		if info == nil {
			return fmt.Errorf("no fixture patched on channel %d", channel)
		}
		for _, ch := range info {
			fmt.Fprintf(c.out, "  %-20s offset %2d  address %3d\n", ch.Kind, ch.Offset, ch.Address)
		}
		return nil
	case <-time.After(queryTimeout):
		return cuelist.ErrTimeout
	}
}

// fixturesCommand prints the patch table in patch-channel order.
func (c *Console) fixturesCommand() error {
	reply := make(chan []*fixture.Patched, 1)
	if err := c.sender.Send(universe.GetFixtures{Reply: reply}); err != nil {
		return err
	}

	select {
	case fixtures := <-reply:
		if len(fixtures) == 0 {
			fmt.Fprintln(c.out, "No fixtures patched")
			return nil
		}
		for _, f := range fixtures {
			fmt.Fprintf(c.out, "  %3d. %-30s address %3d  footprint %2d  %s\n",
				f.Channel, f.Profile.Name, f.DMXStart, f.Profile.Footprint, f.Label)
		}
		return nil
	case <-time.After(queryTimeout):
		return cuelist.ErrTimeout
	}
}

func (c *Console) printCues() {
	cues := c.engine.List()
	if len(cues) == 0 {
		fmt.Fprintln(c.out, "No cues recorded")
		return
	}
	current, played := c.engine.Current()
	for i, cue := range cues {
		marker := " "
		if played && i == current {
			marker = "*"
		}
		fmt.Fprintf(c.out, "%s %3d. %-20s fade %v\n", marker, i+1, cue.Name, cue.FadeTime)
	}
}

func (c *Console) printHelp() {
	fmt.Fprintln(c.out, "Commands:")
	fmt.Fprintln(c.out, "  c <channel> @ <intensity>       set fixture intensity (0-255 or 'f'/'full')")
	fmt.Fprintln(c.out, "  c <channel> rgb <r> <g> <b>     set fixture RGB values")
	fmt.Fprintln(c.out, "  c <channel> color <hex|name>    set fixture color (#rrggbb or a color name)")
	fmt.Fprintln(c.out, "  a <address> @ <value>           set a DMX address directly")
	fmt.Fprintln(c.out, "  blackout                        drive all intensities to zero")
	fmt.Fprintln(c.out, "  record <name> [fade]            record the current state as a cue")
	fmt.Fprintln(c.out, "  delete <name>                   delete a cue")
	fmt.Fprintln(c.out, "  go / back / goto <name|number>  cue playback")
	fmt.Fprintln(c.out, "  cues                            list recorded cues")
	fmt.Fprintln(c.out, "  fixtures                        list patched fixtures")
	fmt.Fprintln(c.out, "  info <channel>                  show a fixture's channel map")
	fmt.Fprintln(c.out, "  quit                            exit")
}

func intensityValues(v byte) []universe.FunctionValue {
	return []universe.FunctionValue{{Kind: profile.Intensity, Value: v}}
}

func rgbValues(r, g, b byte) []universe.FunctionValue {
	return []universe.FunctionValue{
		{Kind: profile.Red, Value: r},
		{Kind: profile.Green, Value: g},
		{Kind: profile.Blue, Value: b},
	}
}

// parseLevel parses a channel level, accepting 'f' or 'full' for 255.
func parseLevel(s string) (byte, error) {
	if s == "f" || s == "full" {
		return 255, nil
	}
	value, err := strconv.Atoi(s)
	if err != nil || value < 0 || value > 255 {
		return 0, fmt.Errorf("level must be 0-255 or 'f'/'full'")
	}
	return byte(value), nil
}

// parseFade parses a fade time: Go duration syntax, or a bare number of
// seconds.
func parseFade(s string) (time.Duration, error) {
	if d, err := time.ParseDuration(s); err == nil {
		if d < 0 {
			return 0, fmt.Errorf("fade time cannot be negative")
		}
		return d, nil
	}
	seconds, err := strconv.ParseFloat(s, 64)
	if err != nil || seconds < 0 {
		return 0, fmt.Errorf("fade must be a duration like '2s' or a number of seconds")
	}
	return time.Duration(seconds * float64(time.Second)), nil
}

// namedColors maps a handful of operator-friendly color names to hex.
var namedColors = map[string]string{
	"red":     "#ff0000",
	"green":   "#00ff00",
	"blue":    "#0000ff",
	"white":   "#ffffff",
	"amber":   "#ffbf00",
	"cyan":    "#00ffff",
	"magenta": "#ff00ff",
	"yellow":  "#ffff00",
	"orange":  "#ff7f00",
	"pink":    "#ff69b4",
	"purple":  "#800080",
}

// ParseColor turns "#rrggbb" or a known color name into RGB bytes.
func ParseColor(s string) (r, g, b byte, err error) {
	hex := s
	if !strings.HasPrefix(s, "#") {
		named, ok := namedColors[strings.ToLower(s)]
		if !ok {
			return 0, 0, 0, fmt.Errorf("unknown color %q", s)
		}
		hex = named
	}
	col, err := colorful.Hex(hex)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid color %q", s)
	}
	cr, cg, cb := col.RGB255()
	return cr, cg, cb, nil
}
