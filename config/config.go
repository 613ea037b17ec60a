package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// Config is the show configuration loaded from a TOML file.
type Config struct {
	Logging  LoggingConf  `toml:"logging"`
	DMX      DMXConf      `toml:"dmx"`
	Fixtures FixturesConf `toml:"fixtures"`
	OSC      OSCConf      `toml:"osc"`
	Patch    []PatchConf  `toml:"patch"`
}

// LoggingConf configures the project logger.
type LoggingConf struct {
	Level string `toml:"level"`
}

// DMXConf selects and configures the output driver.
type DMXConf struct {
	// Driver is "serial", "ola" or "off".
	Driver     string `toml:"driver"`
	Port       string `toml:"port"`
	OLAAddress string `toml:"ola_address"`
	Universe   int    `toml:"universe"`
}

// FixturesConf locates the fixture definition library.
type FixturesConf struct {
	LibraryPath string `toml:"library_path"`
}

// OSCConf configures the OSC control surface. An empty listen address
// disables it.
type OSCConf struct {
	Listen string `toml:"listen"`
}

// PatchConf is one patch-table entry in the show file.
type PatchConf struct {
	Channel      int    `toml:"channel"`
	Manufacturer string `toml:"manufacturer"`
	Fixture      string `toml:"fixture"`
	Mode         string `toml:"mode"`
	Address      int    `toml:"address"`
	Label        string `toml:"label"`
}

// Default returns a configuration that runs driverless with an empty patch.
func Default() *Config {
	return &Config{
		Logging:  LoggingConf{Level: "info"},
		DMX:      DMXConf{Driver: "off", OLAAddress: "localhost:9010"},
		Fixtures: FixturesConf{LibraryPath: "fixture-data"},
	}
}

// Load reads the show file at path on top of the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	return cfg, nil
}
