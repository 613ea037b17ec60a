package ofl

import (
	"fmt"

	"github.com/lumahq/luma/profile"
)

// BuildProfile resolves every channel of a fixture mode into a lighting
// function and produces an immutable profile. The offset of each function is
// the channel's position in the mode's channel list. If two channels of one
// mode resolve to the same kind, the later channel wins the offset.
func BuildProfile(fix *Fixture, mode *Mode) *profile.Profile {
	channels := make(map[profile.Kind]int, len(mode.Channels))

	for offset, channelName := range mode.Channels {
		def, ok := fix.AvailableChannels[channelName]
		if !ok {
			continue
		}
		channels[resolveKind(channelName, &def)] = offset
	}

	return &profile.Profile{
		Name:      fmt.Sprintf("%s (%s)", fix.Name, mode.Name),
		Footprint: len(mode.Channels),
		Channels:  channels,
	}
}

// resolveKind maps a channel onto a lighting function. The channel's own
// name is usually the most specific signal, so it is tried first; capability
// metadata is the fallback. Resolution never fails: unknown channels come
// back as custom kinds carrying the raw name.
func resolveKind(channelName string, def *Channel) profile.Kind {
	kind := profile.KindFromChannelName(channelName)
	if !kind.IsCustom() {
		return kind
	}

	switch {
	case def.Capability != nil:
		// ColorIntensity capabilities name the color they drive, which is
		// more specific than the capability type itself.
		if def.Capability.Type == "ColorIntensity" && def.Capability.Color != "" {
			return profile.KindFromChannelName(def.Capability.Color)
		}
		return profile.KindFromCapabilityType(def.Capability.Type)
	case len(def.Capabilities) > 0:
		return profile.KindFromCapabilityType(def.Capabilities[0].Type)
	}

	return kind
}
