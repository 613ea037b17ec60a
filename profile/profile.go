package profile

import "strings"

// Kind identifies the lighting function a DMX channel controls. The closed
// vocabulary below covers the common functions; anything outside it is
// represented as a custom kind carrying the raw channel name. Two custom
// kinds are equal iff their names are equal, so Kind is usable as a map key.
type Kind struct {
	fn   string // closed vocabulary entry, empty for custom kinds
	name string // raw name, set only for custom kinds
}

var (
	// Color channels
	Red       = Kind{fn: "Red"}
	Green     = Kind{fn: "Green"}
	Blue      = Kind{fn: "Blue"}
	Amber     = Kind{fn: "Amber"}
	Lime      = Kind{fn: "Lime"}
	Cyan      = Kind{fn: "Cyan"}
	Magenta   = Kind{fn: "Magenta"}
	Yellow    = Kind{fn: "Yellow"}
	White     = Kind{fn: "White"}
	WarmWhite = Kind{fn: "WarmWhite"}
	CoolWhite = Kind{fn: "CoolWhite"}
	UV        = Kind{fn: "UV"}

	// Movement
	Pan      = Kind{fn: "Pan"}
	Tilt     = Kind{fn: "Tilt"}
	PanFine  = Kind{fn: "PanFine"}
	TiltFine = Kind{fn: "TiltFine"}

	// General
	Intensity = Kind{fn: "Intensity"}
	Dimmer    = Kind{fn: "Dimmer"}
	Strobe    = Kind{fn: "Strobe"}

	// Color mixing/selection
	ColorMacros      = Kind{fn: "ColorMacros"}
	ColorTemperature = Kind{fn: "ColorTemperature"}
	Hue              = Kind{fn: "Hue"}
	Saturation       = Kind{fn: "Saturation"}

	// Effects
	Gobo         = Kind{fn: "Gobo"}
	GoboRotation = Kind{fn: "GoboRotation"}
	Prism        = Kind{fn: "Prism"}
	Iris         = Kind{fn: "Iris"}
	Focus        = Kind{fn: "Focus"}
	Zoom         = Kind{fn: "Zoom"}
	Frost        = Kind{fn: "Frost"}

	// Control
	ModeSelect       = Kind{fn: "ModeSelect"}
	Speed            = Kind{fn: "Speed"}
	SoundSensitivity = Kind{fn: "SoundSensitivity"}
)

// Custom returns a kind for a channel outside the closed vocabulary.
func Custom(name string) Kind {
	return Kind{name: name}
}

// IsCustom reports whether k falls outside the closed vocabulary.
func (k Kind) IsCustom() bool {
	return k.fn == ""
}

func (k Kind) String() string {
	if k.fn == "" {
		return k.name
	}
	return k.fn
}

// channelNames maps lowercased channel names onto kinds.
var channelNames = map[string]Kind{
	"red":               Red,
	"green":             Green,
	"blue":              Blue,
	"amber":             Amber,
	"lime":              Lime,
	"cyan":              Cyan,
	"magenta":           Magenta,
	"yellow":            Yellow,
	"white":             White,
	"warm white":        WarmWhite,
	"warmwhite":         WarmWhite,
	"cool white":        CoolWhite,
	"coolwhite":         CoolWhite,
	"uv":                UV,
	"pan":               Pan,
	"tilt":              Tilt,
	"pan fine":          PanFine,
	"tilt fine":         TiltFine,
	"intensity":         Intensity,
	"dimmer":            Dimmer,
	"strobe":            Strobe,
	"color macros":      ColorMacros,
	"color temperature": ColorTemperature,
	"hue":               Hue,
	"saturation":        Saturation,
	"gobo":              Gobo,
	"gobo rotation":     GoboRotation,
	"prism":             Prism,
	"iris":              Iris,
	"focus":             Focus,
	"zoom":              Zoom,
	"frost":             Frost,
	"mode select":       ModeSelect,
	"speed":             Speed,
	"sound sensitivity": SoundSensitivity,
}

// capabilityTypes maps fixture-library capability type strings onto kinds.
// These are closed schema values, so the match is case-sensitive.
var capabilityTypes = map[string]Kind{
	"Intensity":        Intensity,
	"ColorIntensity":   Intensity, // callers with color context resolve the color name instead
	"Pan":              Pan,
	"PanContinuous":    Pan,
	"Tilt":             Tilt,
	"TiltContinuous":   Tilt,
	"ColorPreset":      ColorMacros,
	"ColorTemperature": ColorTemperature,
	"Strobe":           Strobe,
	"StrobeSpeed":      Strobe,
	"StrobeDuration":   Strobe,
}

// KindFromChannelName resolves a channel name case-insensitively. Unknown
// names come back as a custom kind carrying the raw name, so resolution
// never fails.
func KindFromChannelName(name string) Kind {
	if kind, ok := channelNames[strings.ToLower(name)]; ok {
		return kind
	}
	return Custom(name)
}

// KindFromCapabilityType resolves a capability type string. The match is
// case-sensitive; unknown types degrade to a custom kind carrying the type.
func KindFromCapabilityType(capabilityType string) Kind {
	if kind, ok := capabilityTypes[capabilityType]; ok {
		return kind
	}
	return Custom(capabilityType)
}

// Profile describes one fixture operating mode: the number of consecutive
// DMX channels it consumes and which function lives at each offset.
// Profiles are built once per (manufacturer, fixture, mode), shared by
// pointer between patched fixtures, and never mutated after construction.
type Profile struct {
	Name      string
	Footprint int

	// Channels maps each resolved kind to its 0-based offset from the
	// fixture's DMX start address.
	Channels map[Kind]int
}

// OffsetOf returns the channel offset for a kind, if the profile has it.
func (p *Profile) OffsetOf(kind Kind) (int, bool) {
	offset, ok := p.Channels[kind]
	return offset, ok
}
