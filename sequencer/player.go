package sequencer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"sync"

	"go-stepper/debug"
	"go-stepper/midifile"
	"go-stepper/motor"
)

// ErrBusy is returned when a file is started while another is playing.
var ErrBusy = errors.New("already playing")

// Player runs one parse-and-play cycle at a time on a dedicated goroutine.
type Player struct {
	sched   *Scheduler
	options midifile.Options

	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	current string
	lastErr error
	stats   Stats

	// Notify TUI of updates
	UpdateChan chan struct{}
}

// NewPlayer creates a player driving numChannels channels of m
func NewPlayer(m motor.Motor, numChannels int, opts midifile.Options) *Player {
	return &Player{
		sched:      NewScheduler(m, numChannels),
		options:    opts,
		UpdateChan: make(chan struct{}, 1),
	}
}

// Scheduler exposes the scheduler for configuration (clock, release policy)
func (p *Player) Scheduler() *Scheduler {
	return p.sched
}

// PlayFS opens name in fsys and starts playing it
func (p *Player) PlayFS(fsys fs.FS, name string) error {
	f, err := fsys.Open(name)
	if err != nil {
		return err
	}
	defer f.Close()
	return p.PlayReader(name, f)
}

// PlayReader parses r completely, then starts playback in the background.
// A parse failure returns the error and nothing is played.
func (p *Player) PlayReader(name string, r io.Reader) error {
	p.mu.Lock()
	if p.done != nil {
		p.mu.Unlock()
		return ErrBusy
	}
	p.mu.Unlock()

	song, err := midifile.ParseWithOptions(r, p.options)
	if err != nil {
		p.mu.Lock()
		p.lastErr = err
		p.mu.Unlock()
		p.notifyUpdate()
		return fmt.Errorf("parse %s: %w", name, err)
	}
	return p.Start(name, song)
}

// Start plays an already parsed song in the background.
func (p *Player) Start(name string, song *midifile.Song) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.done != nil {
		return ErrBusy
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	p.cancel = cancel
	p.done = done
	p.current = name
	p.lastErr = nil

	debug.Log("sched", "play %s: %d entries", name, len(song.Notes))
	go func() {
		defer close(done)
		err := p.sched.Play(ctx, song)
		if errors.Is(err, context.Canceled) {
			err = nil
		}
		if err != nil {
			debug.Warn("sched", "play %s: %v", name, err)
		}

		p.mu.Lock()
		p.lastErr = err
		p.stats = p.sched.Stats()
		p.cancel = nil
		p.done = nil
		p.mu.Unlock()
		cancel()
		p.notifyUpdate()
	}()
	p.notifyUpdate()
	return nil
}

// Stop cancels playback and waits for the motors to be released.
func (p *Player) Stop() {
	p.mu.Lock()
	cancel, done := p.cancel, p.done
	p.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// Wait blocks until the current playback finishes and returns its error.
func (p *Player) Wait() error {
	p.mu.Lock()
	done := p.done
	p.mu.Unlock()
	if done != nil {
		<-done
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastErr
}

// State returns the current or last file, whether it is playing, the stats
// of the last finished run and its error.
func (p *Player) State() (name string, playing bool, stats Stats, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current, p.done != nil, p.stats, p.lastErr
}

func (p *Player) notifyUpdate() {
	select {
	case p.UpdateChan <- struct{}{}:
	default:
	}
}
