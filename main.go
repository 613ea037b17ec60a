package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/lumahq/luma/config"
	"github.com/lumahq/luma/console"
	"github.com/lumahq/luma/cuelist"
	"github.com/lumahq/luma/dmx"
	"github.com/lumahq/luma/logger"
	"github.com/lumahq/luma/ofl"
	"github.com/lumahq/luma/osctrigger"
	"github.com/lumahq/luma/universe"
)

var configFile string

func init() {
	flag.StringVar(&configFile, "config", "luma.toml", "path to the show configuration file")
}

func main() {
	flag.Parse()
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	log := logger.GetProjectLogger()

	cfg := config.Default()
	if _, err := os.Stat(configFile); err == nil {
		loaded, err := config.Load(configFile)
		if err != nil {
			return err
		}
		cfg = loaded
	} else {
		log.Warnf("config file %s not found, using defaults", configFile)
	}

	if err := logger.SetLevel(cfg.Logging.Level); err != nil {
		return err
	}

	// Build and patch the universe before it moves to the output goroutine.
	uni := universe.New(0)
	if len(cfg.Patch) > 0 {
		registry, err := ofl.NewRegistry(cfg.Fixtures.LibraryPath)
		if err != nil {
			return fmt.Errorf("opening fixture library: %w", err)
		}
		for _, entry := range cfg.Patch {
			patched, err := registry.CreatePatched(
				entry.Manufacturer, entry.Fixture, entry.Mode,
				entry.Channel, entry.Address, entry.Label,
			)
			if err != nil {
				return fmt.Errorf("patching channel %d: %w", entry.Channel, err)
			}
			uni.Patch(patched)
			log.Infof("patched %s on channel %d at address %d", patched.Profile.Name, entry.Channel, entry.Address)
		}
	}

	tx, err := openTransmitter(cfg.DMX)
	if err != nil {
		return err
	}

	// The output goroutine owns the universe and the transmitter from here.
	output := universe.NewOutput(uni, tx, nil)
	go output.Run()
	handle := output.Handle()

	engine := cuelist.NewEngine(handle, nil)

	if cfg.OSC.Listen != "" {
		server := osctrigger.New(cfg.OSC.Listen, handle, engine)
		go func() {
			if err := server.ListenAndServe(); err != nil {
				log.Errorf("OSC server stopped: %v", err)
			}
		}()
	}

	consoleDone := make(chan struct{})
	go func() {
		defer close(consoleDone)
		console.New(handle, engine, os.Stdin, os.Stdout).Run()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
		log.Info("signal received, shutting down")
	case <-consoleDone:
		log.Info("console closed, shutting down")
	case <-output.Done():
		log.Error("output loop died, shutting down")
	}

	output.Stop()
	return nil
}

// openTransmitter builds the configured driver-boundary transmitter.
func openTransmitter(cfg config.DMXConf) (dmx.Transmitter, error) {
	switch cfg.Driver {
	case "serial":
		return dmx.OpenSerial(cfg.Port)
	case "ola":
		return dmx.NewOLA(cfg.OLAAddress, cfg.Universe)
	case "off", "":
		return dmx.Null(), nil
	default:
		return nil, fmt.Errorf("unknown DMX driver %q (want serial, ola or off)", cfg.Driver)
	}
}
