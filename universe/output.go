package universe

import (
	"errors"
	"sync"
	"time"

	"github.com/fogleman/ease"
	"github.com/lumahq/luma/dmx"
	"github.com/lumahq/luma/logger"
	"github.com/sirupsen/logrus"
	"k8s.io/utils/clock"
)

const (
	// transmitInterval is the standard DMX refresh cadence (40Hz).
	transmitInterval = 25 * time.Millisecond

	// commandBatchLimit bounds how many queued commands one loop iteration
	// drains, so a command flood can never starve the transmit cadence.
	commandBatchLimit = 100

	// loopSleep bounds CPU usage between iterations. Together with one
	// command batch it is also the worst-case shutdown latency.
	loopSleep = time.Millisecond

	// queueCapacity bounds the command queue. Producers that outrun the
	// output loop get ErrQueueFull instead of unbounded memory growth.
	queueCapacity = 512
)

var (
	// ErrQueueFull reports that the bounded command queue rejected a send.
	ErrQueueFull = errors.New("command queue is full")

	// ErrUnavailable reports that the output loop is not running, either
	// because it was stopped or because a transmit failure killed it.
	ErrUnavailable = errors.New("output is not running")
)

// Output owns a Universe exclusively and drives it from a single goroutine:
// it drains the command queue, advances crossfades, and transmits frames at
// the DMX refresh cadence. Nothing else may touch the Universe once Run has
// started.
type Output struct {
	universe *Universe
	tx       dmx.Transmitter
	clock    clock.Clock
	log      *logrus.Entry

	commands chan Command
	shutdown chan struct{}
	done     chan struct{}
	stopOnce sync.Once

	fade fadeState
}

// fadeState tracks an in-flight crossfade between two full frames.
type fadeState struct {
	active bool
	from   [BufferLength]byte
	to     [BufferLength]byte
	start  time.Time
	length time.Duration
}

// NewOutput wires a universe to a transmitter. Pass nil for the clock to
// use real time.
func NewOutput(u *Universe, tx dmx.Transmitter, cl clock.Clock) *Output {
	if cl == nil {
		cl = clock.RealClock{}
	}
	return &Output{
		universe: u,
		tx:       tx,
		clock:    cl,
		log:      logger.GetProjectLogger(),
		commands: make(chan Command, queueCapacity),
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Handle returns the sending end of the command queue. Handles are safe for
// concurrent use from any number of goroutines and never expose universe
// state.
func (o *Output) Handle() *Handle {
	return &Handle{commands: o.commands, done: o.done}
}

// Done is closed when the loop has exited, normally or after a transmit
// failure. Callers can watch it to detect a dead output and restart the
// subsystem.
func (o *Output) Done() <-chan struct{} {
	return o.done
}

// Stop signals the loop to exit and waits for it to finish. Shutdown is
// cooperative: the loop polls the signal once per iteration.
func (o *Output) Stop() {
	o.stopOnce.Do(func() { close(o.shutdown) })
	<-o.done
}

// Run is the output loop. It blocks until Stop is called or a transmit
// fails, and releases the transmitter exactly once on the way out. Run it
// on a dedicated goroutine.
func (o *Output) Run() {
	defer close(o.done)
	defer func() {
		if err := o.tx.Close(); err != nil {
			o.log.Errorf("closing DMX transmitter: %v", err)
		}
	}()

	o.log.Debug("output loop started")
	lastTransmit := o.clock.Now()

	for {
		select {
		case <-o.shutdown:
			o.log.Debug("output loop shutting down")
			return
		default:
		}

		o.drainCommands()

		if o.clock.Since(lastTransmit) >= transmitInterval {
			o.stepFade()
			if err := o.universe.Transmit(o.tx); err != nil {
				// No in-place retry. The rest of the system detects the
				// dead output via Done/ErrUnavailable.
				o.log.Errorf("DMX transmit failed, stopping output: %v", err)
				return
			}
			lastTransmit = o.clock.Now()
		}

		o.clock.Sleep(loopSleep)
	}
}

// drainCommands applies up to one batch of pending commands in enqueue
// order without blocking.
func (o *Output) drainCommands() {
	for i := 0; i < commandBatchLimit; i++ {
		select {
		case cmd := <-o.commands:
			o.apply(cmd)
		default:
			return
		}
	}
}

// apply executes one command. Validation failures are logged, never fatal;
// query replies are best-effort so an abandoned caller cannot wedge the
// loop.
func (o *Output) apply(cmd Command) {
	switch c := cmd.(type) {
	case SetAddress:
		if err := o.universe.SetAddress(c.Address, c.Value); err != nil {
			o.log.Warnf("set address %d: %v", c.Address, err)
		}
	case SetMultiple:
		for _, change := range c.Changes {
			if err := o.universe.SetAddress(change.Address, change.Value); err != nil {
				o.log.Warnf("set address %d: %v", change.Address, err)
			}
		}
	case SetFixture:
		if err := o.universe.SetFixtureFunctions(c.Channel, c.Values); err != nil {
			o.log.Warnf("set fixture on channel %d: %v", c.Channel, err)
		}
	case PlayCue:
		o.playCue(c)
	case Blackout:
		if err := o.universe.Blackout(); err != nil {
			o.log.Warnf("blackout: %v", err)
		}
	case GetAddress:
		trySend(c.Reply, o.universe.ValueAt(c.Address))
	case GetFixtureChannels:
		if f := o.universe.FixtureAt(c.Channel); f != nil {
			trySend(c.Reply, f.Channels())
		} else {
			trySend(c.Reply, nil)
		}
	case GetFixtures:
		trySend(c.Reply, o.universe.Fixtures())
	case GetSnapshot:
		trySend(c.Reply, o.universe.Snapshot())
	default:
		o.log.Warnf("unknown command %T dropped", cmd)
	}
}

// playCue starts a crossfade to the cue's frame, or applies it directly
// when the fade time is zero. A new cue supersedes any fade in flight.
func (o *Output) playCue(c PlayCue) {
	if c.FadeTime <= 0 {
		o.fade.active = false
		o.universe.Load(c.Frame)
		return
	}
	o.fade = fadeState{
		active: true,
		from:   o.universe.Snapshot(),
		to:     c.Frame,
		start:  o.clock.Now(),
		length: c.FadeTime,
	}
	o.log.WithFields(logrus.Fields{"cue": c.Name, "fade": c.FadeTime}).Debug("fade started")
}

// stepFade advances an in-flight crossfade by one transmit tick. A fade
// owns the whole buffer: direct mutations made mid-fade are overwritten by
// the next step until the fade lands exactly on its target frame.
func (o *Output) stepFade() {
	if !o.fade.active {
		return
	}

	t := float64(o.clock.Since(o.fade.start)) / float64(o.fade.length)
	if t >= 1 {
		o.universe.Load(o.fade.to)
		o.fade.active = false
		return
	}

	alpha := ease.Linear(t)
	var frame [BufferLength]byte
	for i := 1; i < BufferLength; i++ {
		from := float64(o.fade.from[i])
		frame[i] = byte(from + (float64(o.fade.to[i])-from)*alpha + 0.5)
	}
	o.universe.Load(frame)
}

// trySend delivers a query reply without blocking. A dropped or abandoned
// destination is ignored.
func trySend[T any](ch chan<- T, v T) {
	if ch == nil {
		return
	}
	select {
	case ch <- v:
	default:
	}
}

// Handle is the multi-producer sending end of the command queue.
type Handle struct {
	commands chan<- Command
	done     <-chan struct{}
}

// Send enqueues a command without blocking. It returns ErrQueueFull when
// the bounded queue is at capacity and ErrUnavailable once the output loop
// has exited. Commands sent from one goroutine apply in send order.
func (h *Handle) Send(cmd Command) error {
	select {
	case <-h.done:
		return ErrUnavailable
	default:
	}

	select {
	case h.commands <- cmd:
		return nil
	case <-h.done:
		return ErrUnavailable
	default:
		return ErrQueueFull
	}
}
