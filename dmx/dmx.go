// Package dmx is the driver boundary: everything the engine needs from a
// DMX512 interface, behind one small interface so the output loop never
// knows whether frames go to a serial widget, an OLA daemon, or nowhere.
package dmx

// Transmitter sends DMX frames to hardware. Implementations are owned by a
// single goroutine and closed exactly once.
type Transmitter interface {
	// SendBreak emits the break and mark-after-break line condition
	// DMX512 requires before each frame.
	SendBreak() error

	// Write sends one full frame: the start code byte followed by 512
	// channel values.
	Write(frame []byte) error

	Close() error
}

type nullTransmitter struct{}

// Null returns a transmitter that discards every frame. It lets the engine
// run without hardware attached.
func Null() Transmitter {
	return nullTransmitter{}
}

func (nullTransmitter) SendBreak() error { return nil }

func (nullTransmitter) Write(frame []byte) error { return nil }

func (nullTransmitter) Close() error { return nil }
