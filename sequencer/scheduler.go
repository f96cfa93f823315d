package sequencer

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"go-stepper/debug"
	"go-stepper/midifile"
	"go-stepper/motor"
)

// Source identifies who owns a motor channel: a MIDI channel within a track.
type Source struct {
	Track   uint16
	Channel uint8
}

// channelState is one physical motor channel
type channelState struct {
	busy   bool
	source Source
	note   uint8
}

// Stats counts what the scheduler did during one Play
type Stats struct {
	Drives  int
	Stops   int
	Dropped int // note-ons with no channel available
}

// Scheduler assigns notes to motor channels and drives them in real time.
// It is not safe for concurrent use; one Play runs at a time.
type Scheduler struct {
	motor    motor.Motor
	clock    Clock
	channels []channelState
	stats    Stats

	// ReleaseOnEnd stops channels still running when the queue is exhausted.
	// Channels are always released when Play is cancelled.
	ReleaseOnEnd bool
}

// NewScheduler creates a scheduler for numChannels motor channels
func NewScheduler(m motor.Motor, numChannels int) *Scheduler {
	return &Scheduler{
		motor:        m,
		clock:        RealClock{},
		channels:     make([]channelState, numChannels),
		ReleaseOnEnd: true,
	}
}

// SetClock replaces the wall clock (tests)
func (s *Scheduler) SetClock(c Clock) {
	s.clock = c
}

// Stats returns counters from the last Play
func (s *Scheduler) Stats() Stats {
	return s.stats
}

// Play walks the song's queue, waiting each entry's duration before acting
// on it. Waits are measured from the start of playback so per-event latency
// does not accumulate. Returns ctx.Err() when cancelled.
func (s *Scheduler) Play(ctx context.Context, song *midifile.Song) error {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	for i := range s.channels {
		s.channels[i] = channelState{}
	}
	s.stats = Stats{}

	start := s.clock.Now()
	var elapsed time.Duration
	for _, n := range song.Notes {
		elapsed += n.Wait()
		if wait := start.Add(elapsed).Sub(s.clock.Now()); wait > 0 {
			if err := s.clock.Sleep(ctx, wait); err != nil {
				s.releaseAll()
				return err
			}
		} else if err := ctx.Err(); err != nil {
			s.releaseAll()
			return err
		}

		if err := s.dispatch(n, song.IsPolyphonic(n.Track)); err != nil {
			s.releaseAll()
			return err
		}
	}

	debug.Log("sched", "done: drives=%d stops=%d dropped=%d", s.stats.Drives, s.stats.Stops, s.stats.Dropped)
	if s.ReleaseOnEnd {
		return s.releaseAll()
	}
	return nil
}

func (s *Scheduler) dispatch(n midifile.ScheduledNote, poly bool) error {
	src := Source{Track: n.Track, Channel: n.Channel()}
	switch {
	case n.IsNoteOn():
		return s.noteOn(src, n.Note, n.FrequencyMilliHz, poly)
	case n.IsNoteOff():
		return s.noteOff(src, n.Note)
	}
	return nil
}

func (s *Scheduler) noteOn(src Source, note uint8, freq uint32, poly bool) error {
	var idx int
	if poly {
		idx = s.preferPoly(src)
	} else {
		idx = s.preferMono(src)
	}
	if idx < 0 {
		s.stats.Dropped++
		debug.LogEvery(16, "sched", "no channel for track=%d ch=%d note=%d", src.Track, src.Channel, note)
		return nil
	}

	s.channels[idx] = channelState{busy: true, source: src, note: note}
	if err := s.motor.Drive(idx, freq); err != nil {
		return fmt.Errorf("drive channel %d: %w", idx, err)
	}
	if err := s.motor.Run(idx); err != nil {
		return fmt.Errorf("run channel %d: %w", idx, err)
	}
	s.stats.Drives++
	return nil
}

func (s *Scheduler) noteOff(src Source, note uint8) error {
	for i := range s.channels {
		c := &s.channels[i]
		if c.busy && c.source == src && c.note == note {
			c.busy = false
			s.stats.Stops++
			if err := s.motor.Stop(i); err != nil {
				return fmt.Errorf("stop channel %d: %w", i, err)
			}
			return nil
		}
	}
	// Already reassigned or never started
	return nil
}

// preferPoly picks the first free channel, else retriggers one held by the
// same source. -1 when neither exists.
func (s *Scheduler) preferPoly(src Source) int {
	if i := s.firstFree(); i >= 0 {
		return i
	}
	return s.heldBy(src)
}

// preferMono retriggers a channel already held by the same source, else
// takes the first free one.
func (s *Scheduler) preferMono(src Source) int {
	if i := s.heldBy(src); i >= 0 {
		return i
	}
	return s.firstFree()
}

func (s *Scheduler) firstFree() int {
	for i, c := range s.channels {
		if !c.busy {
			return i
		}
	}
	return -1
}

func (s *Scheduler) heldBy(src Source) int {
	for i, c := range s.channels {
		if c.busy && c.source == src {
			return i
		}
	}
	return -1
}

// releaseAll stops every busy channel and returns the first error.
func (s *Scheduler) releaseAll() error {
	var first error
	for i := range s.channels {
		if !s.channels[i].busy {
			continue
		}
		s.channels[i].busy = false
		s.stats.Stops++
		if err := s.motor.Stop(i); err != nil && first == nil {
			first = fmt.Errorf("stop channel %d: %w", i, err)
		}
	}
	return first
}
