package motor

import (
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // Register MIDI driver
)

// MIDIPort plays each motor channel as a MIDI channel on an external synth.
// Useful for auditioning a file without the motor rig attached.
type MIDIPort struct {
	send     func(gomidi.Message) error
	close    func() error
	velocity uint8

	mu     sync.Mutex
	notes  []uint8 // note derived from the last drive
	active []bool  // note currently sounding
}

// OpenMIDIPort opens the first output port whose name contains portName
// (case-insensitive). At most 16 channels are usable.
func OpenMIDIPort(portName string, channels int) (*MIDIPort, error) {
	if channels > 16 {
		return nil, fmt.Errorf("%w: midi output supports 16 channels, got %d", ErrChannelRange, channels)
	}

	// Port enumeration can hang on some hosts
	ch := make(chan []drivers.Out, 1)
	go func() {
		ch <- gomidi.GetOutPorts()
	}()

	var outPorts []drivers.Out
	select {
	case outPorts = <-ch:
	case <-time.After(3 * time.Second):
		return nil, fmt.Errorf("list midi outputs: timed out")
	}

	want := strings.ToLower(portName)
	for _, port := range outPorts {
		if !strings.Contains(strings.ToLower(port.String()), want) {
			continue
		}
		send, err := gomidi.SendTo(port)
		if err != nil {
			return nil, fmt.Errorf("open output: %w", err)
		}
		p := NewMIDIPortFunc(send, channels)
		p.close = port.Close
		return p, nil
	}
	return nil, fmt.Errorf("midi output %q not found", portName)
}

// NewMIDIPortFunc builds a MIDIPort around an already opened sender.
func NewMIDIPortFunc(send func(gomidi.Message) error, channels int) *MIDIPort {
	return &MIDIPort{
		send:     send,
		velocity: 100,
		notes:    make([]uint8, channels),
		active:   make([]bool, channels),
	}
}

// NoteForFrequency returns the nearest MIDI note for a frequency in milli-Hz.
func NoteForFrequency(freqMilliHz uint32) uint8 {
	if freqMilliHz == 0 {
		return 0
	}
	hz := float64(freqMilliHz) / 1000
	n := math.Round(69 + 12*math.Log2(hz/440))
	switch {
	case n < 0:
		return 0
	case n > 127:
		return 127
	}
	return uint8(n)
}

func (p *MIDIPort) Drive(channel int, freq uint32) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := checkChannel(channel, len(p.notes)); err != nil {
		return err
	}
	note := NoteForFrequency(freq)
	if p.active[channel] && p.notes[channel] != note {
		// Retune while running: restart at the new pitch
		if err := p.send(gomidi.NoteOff(uint8(channel), p.notes[channel])); err != nil {
			return err
		}
		p.notes[channel] = note
		return p.send(gomidi.NoteOn(uint8(channel), note, p.velocity))
	}
	p.notes[channel] = note
	return nil
}

func (p *MIDIPort) Run(channel int) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := checkChannel(channel, len(p.notes)); err != nil {
		return err
	}
	if p.active[channel] {
		return nil
	}
	p.active[channel] = true
	return p.send(gomidi.NoteOn(uint8(channel), p.notes[channel], p.velocity))
}

func (p *MIDIPort) Stop(channel int) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := checkChannel(channel, len(p.notes)); err != nil {
		return err
	}
	if !p.active[channel] {
		return nil
	}
	p.active[channel] = false
	return p.send(gomidi.NoteOff(uint8(channel), p.notes[channel]))
}

// Close silences every channel and closes the port if this MIDIPort opened it.
func (p *MIDIPort) Close() error {
	for ch := range p.notes {
		p.Stop(ch)
	}
	if p.close != nil {
		return p.close()
	}
	return nil
}
