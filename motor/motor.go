package motor

import (
	"errors"
	"fmt"
	"sync"
)

// ErrChannelRange is returned for a channel outside [0, channels).
var ErrChannelRange = errors.New("motor channel out of range")

// Motor drives a bank of stepper motors used as tone oscillators.
// Channels are numbered from 0.
type Motor interface {
	Drive(channel int, freqMilliHz uint32) error // set step frequency
	Run(channel int) error                       // start stepping
	Stop(channel int) error                      // stop stepping
}

// CommandKind identifies a recorded motor call
type CommandKind int

const (
	CmdDrive CommandKind = iota
	CmdRun
	CmdStop
)

func (k CommandKind) String() string {
	switch k {
	case CmdDrive:
		return "drive"
	case CmdRun:
		return "run"
	case CmdStop:
		return "stop"
	}
	return fmt.Sprintf("CommandKind(%d)", int(k))
}

// Command is one call made on a Motor
type Command struct {
	Kind      CommandKind
	Channel   int
	Frequency uint32 // milli-Hz, drive only
}

func checkChannel(channel, channels int) error {
	if channel < 0 || channel >= channels {
		return fmt.Errorf("%w: %d of %d", ErrChannelRange, channel, channels)
	}
	return nil
}

// Recorder keeps every command in memory. Used for dry runs and tests.
type Recorder struct {
	channels int

	mu       sync.Mutex
	commands []Command
}

// NewRecorder creates a recorder for the given number of channels
func NewRecorder(channels int) *Recorder {
	return &Recorder{channels: channels}
}

func (r *Recorder) record(c Command) error {
	if err := checkChannel(c.Channel, r.channels); err != nil {
		return err
	}
	r.mu.Lock()
	r.commands = append(r.commands, c)
	r.mu.Unlock()
	return nil
}

func (r *Recorder) Drive(channel int, freq uint32) error {
	return r.record(Command{Kind: CmdDrive, Channel: channel, Frequency: freq})
}

func (r *Recorder) Run(channel int) error {
	return r.record(Command{Kind: CmdRun, Channel: channel})
}

func (r *Recorder) Stop(channel int) error {
	return r.record(Command{Kind: CmdStop, Channel: channel})
}

// Commands returns a copy of everything recorded so far
func (r *Recorder) Commands() []Command {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Command, len(r.commands))
	copy(out, r.commands)
	return out
}

// Count returns how many commands of a kind were recorded
func (r *Recorder) Count(kind CommandKind) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, c := range r.commands {
		if c.Kind == kind {
			n++
		}
	}
	return n
}

// Reset clears the recording
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.commands = nil
	r.mu.Unlock()
}
