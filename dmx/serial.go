package dmx

import (
	"fmt"
	"time"

	"go.bug.st/serial"
)

const (
	// DMX512 line parameters: 250 kbaud, 8 data bits, 2 stop bits, no parity.
	dmxBaudRate = 250000

	// The break must hold for at least 88us and the mark after break for at
	// least 8us. Both are generous here; receivers tolerate long breaks.
	breakDuration  = time.Millisecond
	markAfterBreak = 12 * time.Microsecond
)

type serialTransmitter struct {
	port serial.Port
}

// OpenSerial opens a DMX interface on the named serial port.
func OpenSerial(portName string) (Transmitter, error) {
	mode := &serial.Mode{
		BaudRate: dmxBaudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.TwoStopBits,
	}

	port, err := serial.Open(portName, mode)
	if err != nil {
		return nil, fmt.Errorf("opening DMX port %s: %w", portName, err)
	}
	return &serialTransmitter{port: port}, nil
}

func (t *serialTransmitter) SendBreak() error {
	if err := t.port.Break(breakDuration); err != nil {
		return fmt.Errorf("sending DMX break: %w", err)
	}
	time.Sleep(markAfterBreak)
	return nil
}

func (t *serialTransmitter) Write(frame []byte) error {
	n, err := t.port.Write(frame)
	if err != nil {
		return fmt.Errorf("writing DMX frame: %w", err)
	}
	if n != len(frame) {
		return fmt.Errorf("short DMX write: %d of %d bytes", n, len(frame))
	}
	return nil
}

func (t *serialTransmitter) Close() error {
	return t.port.Close()
}
