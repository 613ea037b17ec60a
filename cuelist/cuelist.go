// Package cuelist records and plays back show state. The engine runs on
// whatever goroutine calls it and talks to the output loop only through the
// command channel, so it never holds universe state.
package cuelist

import (
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/lumahq/luma/logger"
	"github.com/lumahq/luma/universe"
	"github.com/sirupsen/logrus"
	"golang.org/x/exp/slices"
	"k8s.io/utils/clock"
)

// recordTimeout bounds how long a record waits for the output loop to
// answer the snapshot query.
const recordTimeout = 100 * time.Millisecond

var (
	// ErrTimeout reports that the output loop did not answer a query in
	// time. It is distinct from validation failures so callers can decide
	// between retrying and surfacing the error.
	ErrTimeout = errors.New("timed out waiting for universe snapshot")

	// ErrNoCurrentCue reports a BACK before anything has been played.
	ErrNoCurrentCue = errors.New("no cue has been played yet")

	// ErrAtFirstCue reports a BACK from the top of the sequence.
	ErrAtFirstCue = errors.New("already at first cue")
)

// Sender is the slice of the command channel the engine needs.
type Sender interface {
	Send(universe.Command) error
}

// Cue is a named, timed snapshot of universe state. Sequence position, not
// name or fade time, is the playback order.
type Cue struct {
	Name     string
	FadeTime time.Duration
	Frame    [universe.BufferLength]byte
}

// Engine sequences cues with directional GO/BACK/GOTO navigation. It is
// safe for concurrent use by multiple control surfaces.
type Engine struct {
	mu      sync.Mutex
	sender  Sender
	clock   clock.Clock
	cues    []*Cue
	current int // index of the last played cue, -1 before any playback
	log     *logrus.Entry
}

// NewEngine creates an empty cue sequence driving the given command sender.
// Pass nil for the clock to use real time.
func NewEngine(sender Sender, cl clock.Clock) *Engine {
	if cl == nil {
		cl = clock.RealClock{}
	}
	return &Engine{
		sender:  sender,
		clock:   cl,
		current: -1,
		log:     logger.GetProjectLogger(),
	}
}

// Record captures the current universe state as a cue. Re-recording an
// existing name overwrites its frame and fade time in place, preserving its
// sequence position; a new name is appended.
func (e *Engine) Record(name string, fadeTime time.Duration) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	reply := make(chan [universe.BufferLength]byte, 1)
	if err := e.sender.Send(universe.GetSnapshot{Reply: reply}); err != nil {
		return fmt.Errorf("requesting universe snapshot: %w", err)
	}

	var frame [universe.BufferLength]byte
	select {
	case frame = <-reply:
	case <-e.clock.After(recordTimeout):
		return ErrTimeout
	}

	if idx := e.indexOf(name); idx >= 0 {
		e.cues[idx].FadeTime = fadeTime
		e.cues[idx].Frame = frame
		e.log.WithFields(logrus.Fields{"cue": name, "position": idx + 1}).Debug("cue re-recorded")
		return nil
	}

	e.cues = append(e.cues, &Cue{Name: name, FadeTime: fadeTime, Frame: frame})
	e.log.WithFields(logrus.Fields{"cue": name, "position": len(e.cues)}).Debug("cue recorded")
	return nil
}

// Delete removes the named cue. Deleting below the current position shifts
// the position down with the sequence; deleting the current cue itself
// clears the position, so the next GO restarts from the first cue.
func (e *Engine) Delete(name string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	idx := e.indexOf(name)
	if idx < 0 {
		return fmt.Errorf("no cue named %q", name)
	}
	e.cues = slices.Delete(e.cues, idx, idx+1)

	switch {
	case e.current == idx:
		e.current = -1
	case e.current > idx:
		e.current--
	}
	return nil
}

// Go plays the next cue in sequence: the first cue if nothing has been
// played yet, otherwise the one after the current position.
func (e *Engine) Go() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	target := e.current + 1
	if target >= len(e.cues) {
		return fmt.Errorf("no cue %d available", target+1)
	}
	if err := e.play(target); err != nil {
		return err
	}
	e.current = target
	return nil
}

// Back plays the previous cue in sequence.
func (e *Engine) Back() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.current < 0 {
		return ErrNoCurrentCue
	}
	if e.current == 0 {
		return ErrAtFirstCue
	}
	if err := e.play(e.current - 1); err != nil {
		return err
	}
	e.current--
	return nil
}

// GoTo jumps directly to a cue by name or 1-based sequence number.
func (e *Engine) GoTo(ref string) error {
	if number, err := strconv.Atoi(ref); err == nil {
		return e.GoToNumber(number)
	}
	return e.GoToCue(ref)
}

// GoToCue jumps directly to a cue by name.
func (e *Engine) GoToCue(name string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	idx := e.indexOf(name)
	if idx < 0 {
		return fmt.Errorf("no cue named %q", name)
	}
	if err := e.play(idx); err != nil {
		return err
	}
	e.current = idx
	return nil
}

// GoToNumber jumps directly to a cue by 1-based sequence number.
func (e *Engine) GoToNumber(number int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	idx := number - 1
	if idx < 0 || idx >= len(e.cues) {
		return fmt.Errorf("cue %d not found", number)
	}
	if err := e.play(idx); err != nil {
		return err
	}
	e.current = idx
	return nil
}

// List returns a copy of the cue sequence in playback order.
func (e *Engine) List() []Cue {
	e.mu.Lock()
	defer e.mu.Unlock()

	cues := make([]Cue, len(e.cues))
	for i, cue := range e.cues {
		cues[i] = *cue
	}
	return cues
}

// Current returns the 0-based position of the last played cue, and whether
// any cue has been played.
func (e *Engine) Current() (int, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.current, e.current >= 0
}

// play sends the cue at idx to the output loop. Callers hold the lock.
func (e *Engine) play(idx int) error {
	cue := e.cues[idx]
	err := e.sender.Send(universe.PlayCue{
		Name:     cue.Name,
		Frame:    cue.Frame,
		FadeTime: cue.FadeTime,
	})
	if err != nil {
		return fmt.Errorf("playing cue %q: %w", cue.Name, err)
	}
	e.log.WithFields(logrus.Fields{"cue": cue.Name, "position": idx + 1}).Info("cue played")
	return nil
}

// indexOf finds a cue by name. Callers hold the lock.
func (e *Engine) indexOf(name string) int {
	return slices.IndexFunc(e.cues, func(c *Cue) bool { return c.Name == name })
}
