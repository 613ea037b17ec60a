// Package ofl loads Open Fixture Library fixture definitions and turns them
// into immutable fixture profiles.
package ofl

// Capability describes what a channel does over some DMX range.
type Capability struct {
	Type     string   `json:"type"`
	Color    string   `json:"color,omitempty"`
	Colors   []string `json:"colors,omitempty"`
	DMXRange *[2]int  `json:"dmxRange,omitempty"`
	Comment  string   `json:"comment,omitempty"`
}

// Channel is one entry in a fixture's availableChannels map. A channel
// declares either a single capability or a list of them.
type Channel struct {
	FineChannelAliases []string     `json:"fineChannelAliases,omitempty"`
	Capability         *Capability  `json:"capability,omitempty"`
	Capabilities       []Capability `json:"capabilities,omitempty"`
}

// Mode is one operating mode: an ordered list of channel names whose
// positions are the DMX offsets.
type Mode struct {
	Name      string   `json:"name"`
	ShortName string   `json:"shortName,omitempty"`
	Channels  []string `json:"channels"`
}

// Meta carries fixture authorship metadata.
type Meta struct {
	Authors        []string `json:"authors,omitempty"`
	CreateDate     string   `json:"createDate,omitempty"`
	LastModifyDate string   `json:"lastModifyDate,omitempty"`
}

// Fixture is a complete OFL fixture definition.
type Fixture struct {
	Name              string             `json:"name"`
	ShortName         string             `json:"shortName,omitempty"`
	Categories        []string           `json:"categories"`
	Meta              *Meta              `json:"meta,omitempty"`
	AvailableChannels map[string]Channel `json:"availableChannels"`
	Modes             []Mode             `json:"modes"`
}

// Manufacturer is one entry in the manufacturers database.
type Manufacturer struct {
	Name    string `json:"name"`
	Website string `json:"website,omitempty"`
}

// Mode returns the named operating mode, if the fixture has it.
func (f *Fixture) Mode(name string) (*Mode, bool) {
	for i := range f.Modes {
		if f.Modes[i].Name == name {
			return &f.Modes[i], true
		}
	}
	return nil, false
}
