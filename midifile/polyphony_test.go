package midifile

import "testing"

func noteOn(tick uint64, track uint16, note uint8) Event {
	return Event{Tick: tick, Type: NoteOn, Data: uint32(note), Track: track}
}

func noteOff(tick uint64, track uint16, note uint8) Event {
	return Event{Tick: tick, Type: NoteOff, Data: uint32(note), Track: track}
}

func TestClassifyPolyphony(t *testing.T) {
	tests := []struct {
		name   string
		events []Event
		want   bool
	}{
		{
			name: "sequential notes",
			events: []Event{
				noteOn(0, 0, 60), noteOff(480, 0, 60),
				noteOn(480, 0, 62), noteOff(960, 0, 62),
			},
			want: false,
		},
		{
			name: "legato overlap",
			events: []Event{
				noteOn(0, 0, 60), noteOn(470, 0, 62),
				noteOff(480, 0, 60), noteOff(960, 0, 62),
			},
			want: false,
		},
		{
			name: "long held chord",
			events: []Event{
				noteOn(0, 0, 60), noteOn(100, 0, 64),
				noteOff(400000, 0, 60), noteOff(400000, 0, 64),
			},
			want: true,
		},
		{
			name: "exactly at threshold",
			events: []Event{
				noteOn(0, 0, 60), noteOn(0, 0, 64),
				noteOff(250000, 0, 60), noteOff(250000, 0, 64),
			},
			want: false,
		},
		{
			name: "unterminated note",
			events: []Event{
				noteOn(0, 0, 60), noteOn(10, 0, 64),
			},
			want: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyPolyphony(tt.events, 1, DefaultPolyphonyThreshold)
			if got[0] != tt.want {
				t.Errorf("got %v, want %v", got[0], tt.want)
			}
		})
	}
}

func TestClassifyPolyphonyPerTrack(t *testing.T) {
	// Overlap across tracks does not count; only track 1 overlaps itself.
	events := []Event{
		noteOn(0, 0, 60), noteOn(0, 1, 48), noteOn(0, 2, 40),
		noteOn(10, 1, 52),
		noteOff(300000, 0, 60), noteOff(300000, 2, 40),
		noteOff(600000, 1, 48), noteOff(600000, 1, 52),
	}
	got := ClassifyPolyphony(events, 3, DefaultPolyphonyThreshold)
	want := []bool{false, true, false}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("track %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestClassifyPolyphonyMatchesChannel(t *testing.T) {
	// The note-off on channel 1 does not end the channel 0 note.
	events := []Event{
		{Tick: 0, Type: NoteOn | 0, Data: 60},
		{Tick: 0, Type: NoteOn | 1, Data: 64},
		{Tick: 5, Type: NoteOff | 1, Data: 60},
		{Tick: 500000, Type: NoteOff | 0, Data: 60},
		{Tick: 500000, Type: NoteOff | 1, Data: 64},
	}
	got := ClassifyPolyphony(events, 1, DefaultPolyphonyThreshold)
	if !got[0] {
		t.Error("got monophonic, want polyphonic")
	}
}
