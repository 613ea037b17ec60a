package universe

import (
	"time"

	"github.com/lumahq/luma/fixture"
)

// Command is a request for the output loop: either a mutation of the
// universe or a query answered on a one-shot reply channel. Commands are
// immutable values; they are the only thing that crosses the control-surface
// boundary.
type Command interface {
	isCommand()
}

// AddressValue pairs a DMX address with a target value.
type AddressValue struct {
	Address int
	Value   byte
}

// SetAddress sets one DMX address.
type SetAddress struct {
	Address int
	Value   byte
}

// SetMultiple sets several DMX addresses in order.
type SetMultiple struct {
	Changes []AddressValue
}

// SetFixture writes values to a patched fixture by lighting function.
type SetFixture struct {
	Channel int
	Values  []FunctionValue
}

// PlayCue applies a recorded frame, crossfading over FadeTime. A zero
// FadeTime applies the frame on the next transmit.
type PlayCue struct {
	Name     string
	Frame    [BufferLength]byte
	FadeTime time.Duration
}

// Blackout zeroes every patched fixture's intensity.
type Blackout struct{}

// GetAddress asks for the value at one DMX address.
type GetAddress struct {
	Address int
	Reply   chan<- byte
}

// GetFixtureChannels asks for a patched fixture's per-channel metadata. The
// reply is nil when no fixture is patched at the channel.
type GetFixtureChannels struct {
	Channel int
	Reply   chan<- []fixture.ChannelInfo
}

// GetFixtures asks for every patched fixture in patch-channel order.
type GetFixtures struct {
	Reply chan<- []*fixture.Patched
}

// GetSnapshot asks for a copy of the full frame buffer.
type GetSnapshot struct {
	Reply chan<- [BufferLength]byte
}

func (SetAddress) isCommand()         {}
func (SetMultiple) isCommand()        {}
func (SetFixture) isCommand()         {}
func (PlayCue) isCommand()            {}
func (Blackout) isCommand()           {}
func (GetAddress) isCommand()         {}
func (GetFixtureChannels) isCommand() {}
func (GetFixtures) isCommand()        {}
func (GetSnapshot) isCommand()        {}
