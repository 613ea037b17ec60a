package fixture

import (
	"github.com/lumahq/luma/profile"
	"golang.org/x/exp/slices"
)

// Patched is one patch-table entry: a fixture profile bound to an
// operator-facing patch channel at a DMX start address. The validity of
// DMXStart+offset for each channel is enforced by the universe at write
// time, not here.
type Patched struct {
	ID       string
	Channel  int // patch channel, the index into the universe patch table
	Profile  *profile.Profile
	DMXStart int // 1-512
	Label    string
}

// ChannelInfo describes one resolved channel of a patched fixture.
type ChannelInfo struct {
	Kind    profile.Kind
	Offset  int
	Address int // absolute DMX address (DMXStart + Offset)
}

// Channels returns per-channel metadata for the fixture, ordered by offset.
func (p *Patched) Channels() []ChannelInfo {
	info := make([]ChannelInfo, 0, len(p.Profile.Channels))
	for kind, offset := range p.Profile.Channels {
		info = append(info, ChannelInfo{
			Kind:    kind,
			Offset:  offset,
			Address: p.DMXStart + offset,
		})
	}
	slices.SortFunc(info, func(a, b ChannelInfo) bool { return a.Offset < b.Offset })
	return info
}
