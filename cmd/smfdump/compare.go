package main

import (
	"fmt"
	"os"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"go-stepper/midifile"
)

// counts are the playback-relevant events of a file
type counts struct {
	NoteOns  int
	NoteOffs int
	Tempos   int
}

func countOurs(path string) (counts, error) {
	f, err := os.Open(path)
	if err != nil {
		return counts{}, err
	}
	defer f.Close()

	_, events, err := midifile.Decode(f)
	if err != nil {
		return counts{}, fmt.Errorf("decode %s: %w", path, err)
	}

	var c counts
	for _, ev := range events {
		switch {
		case ev.IsNoteOn():
			c.NoteOns++
		case ev.IsNoteOff():
			c.NoteOffs++
		case ev.IsTempo():
			c.Tempos++
		}
	}
	return c, nil
}

// countReference counts the same events with gomidi's reader. Note-on with
// velocity 0 is a note end in both.
func countReference(path string) (counts, error) {
	s, err := smf.ReadFile(path)
	if err != nil {
		return counts{}, fmt.Errorf("gomidi read %s: %w", path, err)
	}

	var c counts
	var ch, key, vel uint8
	var bpm float64
	for _, track := range s.Tracks {
		for _, ev := range track {
			msg := midi.Message(ev.Message)
			switch {
			case msg.GetNoteStart(&ch, &key, &vel):
				c.NoteOns++
			case msg.GetNoteEnd(&ch, &key):
				c.NoteOffs++
			case ev.Message.GetMetaTempo(&bpm):
				c.Tempos++
			}
		}
	}
	return c, nil
}
