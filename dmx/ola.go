package dmx

import (
	"fmt"

	"github.com/nickysemenza/gola"
)

// OLAClient is the subset of the gola client the transmitter needs.
type OLAClient interface {
	SendDmx(universe int, values []byte) (status bool, err error)
	Close()
}

type olaTransmitter struct {
	client   OLAClient
	universe int
}

// NewOLA connects to an OLA daemon (host:port) and returns a transmitter
// that publishes frames to the given OLA universe.
func NewOLA(address string, universe int) (Transmitter, error) {
	client, err := gola.New(address)
	if err != nil {
		return nil, fmt.Errorf("connecting to OLA at %s: %w", address, err)
	}
	return NewOLAWithClient(client, universe), nil
}

// NewOLAWithClient wraps an existing OLA client.
func NewOLAWithClient(client OLAClient, universe int) Transmitter {
	return &olaTransmitter{client: client, universe: universe}
}

// SendBreak is a no-op: OLA generates the line-level framing itself.
func (t *olaTransmitter) SendBreak() error {
	return nil
}

func (t *olaTransmitter) Write(frame []byte) error {
	// OLA takes the 512 channel values without the start code.
	if len(frame) > 0 {
		frame = frame[1:]
	}
	ok, err := t.client.SendDmx(t.universe, frame)
	if err != nil {
		return fmt.Errorf("sending frame to OLA universe %d: %w", t.universe, err)
	}
	if !ok {
		return fmt.Errorf("OLA rejected frame for universe %d", t.universe)
	}
	return nil
}

func (t *olaTransmitter) Close() error {
	t.client.Close()
	return nil
}
