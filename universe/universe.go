// Package universe holds the DMX512 data model and the single-owner output
// loop that drives it. A Universe is never shared between goroutines:
// control surfaces talk to it only through the command channel.
package universe

import (
	"errors"
	"fmt"

	"github.com/lumahq/luma/dmx"
	"github.com/lumahq/luma/fixture"
	"github.com/lumahq/luma/logger"
	"github.com/lumahq/luma/profile"
	"github.com/sirupsen/logrus"
)

const (
	// BufferLength is one full DMX frame: the start code byte plus 512
	// channel values.
	BufferLength = 513

	// MaxAddress is the highest writable DMX address.
	MaxAddress = 512
)

var (
	// ErrStartCode rejects writes to address 0, which carries the frame
	// start code.
	ErrStartCode = errors.New("DMX address 0 is reserved for the start code")

	// ErrAddressRange rejects writes beyond the universe.
	ErrAddressRange = errors.New("DMX address must be between 1 and 512")
)

// Universe is one complete DMX512 addressable space: the fixture patch
// table and the output buffer. Index 0 of the buffer is the start code and
// stays 0; indices 1-512 are channel data.
type Universe struct {
	ID int

	// fixtures is the sparse patch table, indexed by patch channel. It grows
	// to the highest patched channel; unpatched channels hold nil.
	fixtures []*fixture.Patched

	buffer [BufferLength]byte

	log *logrus.Entry
}

// New creates an empty universe. Once handed to an Output it must not be
// touched by any other goroutine.
func New(id int) *Universe {
	return &Universe{
		ID:  id,
		log: logger.GetProjectLogger(),
	}
}

// SetAddress stores a value at a DMX address. This is the single
// enforcement point for the address-range invariant; every higher-level
// mutation funnels through it.
func (u *Universe) SetAddress(address int, value byte) error {
	if address == 0 {
		return ErrStartCode
	}
	if address < 0 || address >= BufferLength {
		return ErrAddressRange
	}
	u.buffer[address] = value
	return nil
}

// ValueAt reads the buffer at an address. Out-of-range reads come back as 0.
func (u *Universe) ValueAt(address int) byte {
	if address < 0 || address >= BufferLength {
		return 0
	}
	return u.buffer[address]
}

// Patch inserts a fixture at its patch channel, growing the table as
// needed. Patching over an existing entry replaces it. DMX-address overlap
// between fixtures is not detected: later writes win.
func (u *Universe) Patch(f *fixture.Patched) {
	if f.Channel >= len(u.fixtures) {
		grown := make([]*fixture.Patched, f.Channel+1)
		copy(grown, u.fixtures)
		u.fixtures = grown
	}
	u.fixtures[f.Channel] = f
}

// Unpatch removes and returns the fixture at a patch channel.
func (u *Universe) Unpatch(channel int) (*fixture.Patched, error) {
	f := u.FixtureAt(channel)
	if f == nil {
		return nil, fmt.Errorf("no fixture patched on channel %d", channel)
	}
	u.fixtures[channel] = nil
	return f, nil
}

// FixtureAt returns the fixture patched at a channel, or nil.
func (u *Universe) FixtureAt(channel int) *fixture.Patched {
	if channel < 0 || channel >= len(u.fixtures) {
		return nil
	}
	return u.fixtures[channel]
}

// Fixtures returns every patched fixture in patch-channel order.
func (u *Universe) Fixtures() []*fixture.Patched {
	var patched []*fixture.Patched
	for _, f := range u.fixtures {
		if f != nil {
			patched = append(patched, f)
		}
	}
	return patched
}

// FunctionValue pairs a lighting function with a target value.
type FunctionValue struct {
	Kind  profile.Kind
	Value byte
}

// SetFixtureFunctions writes values to a patched fixture by function. Kinds
// the fixture's profile lacks are logged and skipped; the remaining values
// are still applied. The call fails wholesale only when no fixture is
// patched at the channel, or a resolved address falls outside the universe.
func (u *Universe) SetFixtureFunctions(channel int, values []FunctionValue) error {
	f := u.FixtureAt(channel)
	if f == nil {
		return fmt.Errorf("no fixture patched on channel %d", channel)
	}

	for _, v := range values {
		offset, ok := f.Profile.OffsetOf(v.Kind)
		if !ok {
			u.log.Warnf("fixture on channel %d has no %s channel, skipping", channel, v.Kind)
			continue
		}
		if err := u.SetAddress(f.DMXStart+offset, v.Value); err != nil {
			return fmt.Errorf("fixture on channel %d, %s channel: %w", channel, v.Kind, err)
		}
	}
	return nil
}

// SetIntensity drives a fixture's intensity channel.
func (u *Universe) SetIntensity(channel int, intensity byte) error {
	return u.SetFixtureFunctions(channel, []FunctionValue{{Kind: profile.Intensity, Value: intensity}})
}

// SetRGB drives a fixture's color channels.
func (u *Universe) SetRGB(channel int, r, g, b byte) error {
	return u.SetFixtureFunctions(channel, []FunctionValue{
		{Kind: profile.Red, Value: r},
		{Kind: profile.Green, Value: g},
		{Kind: profile.Blue, Value: b},
	})
}

// Blackout zeroes the intensity of every patched fixture that has an
// intensity channel. Fixtures without one are left untouched.
func (u *Universe) Blackout() error {
	for _, f := range u.fixtures {
		if f == nil {
			continue
		}
		offset, ok := f.Profile.OffsetOf(profile.Intensity)
		if !ok {
			continue
		}
		if err := u.SetAddress(f.DMXStart+offset, 0); err != nil {
			return fmt.Errorf("blackout of channel %d: %w", f.Channel, err)
		}
	}
	return nil
}

// Snapshot returns a copy of the full frame buffer.
func (u *Universe) Snapshot() [BufferLength]byte {
	return u.buffer
}

// Load replaces the full frame buffer. The start code is forced back to 0.
func (u *Universe) Load(frame [BufferLength]byte) {
	u.buffer = frame
	u.buffer[0] = 0
}

// Transmit sends the break condition and then the full frame across the
// driver boundary. The caller decides what a failure means.
func (u *Universe) Transmit(tx dmx.Transmitter) error {
	if err := tx.SendBreak(); err != nil {
		return err
	}
	return tx.Write(u.buffer[:])
}
