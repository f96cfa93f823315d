package midifile

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

func twoTrackSMF(t *testing.T) []byte {
	t.Helper()
	s := smf.New()
	s.TimeFormat = smf.MetricTicks(480)
	for ch := uint8(0); ch < 2; ch++ {
		var tr smf.Track
		tr.Add(0, midi.NoteOn(ch, 60, 100))
		tr.Add(480, midi.NoteOff(ch, 60))
		tr.Close(0)
		if err := s.Add(tr); err != nil {
			t.Fatalf("add track: %v", err)
		}
	}
	return writeSMF(t, s)
}

func TestParseTwoTrackFile(t *testing.T) {
	song, err := Parse(bytes.NewReader(twoTrackSMF(t)))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if song.Header.Tracks != 2 || song.Header.TicksPerQuarter() != 480 {
		t.Errorf("header: got %+v", song.Header)
	}
	if len(song.Polyphonic) != 2 || song.IsPolyphonic(0) || song.IsPolyphonic(1) {
		t.Errorf("polyphony: got %v, want all mono", song.Polyphonic)
	}
	if len(song.Notes) != 4 {
		t.Fatalf("got %d entries, want 4", len(song.Notes))
	}

	type entry struct {
		wait  uint64
		on    bool
		track uint16
	}
	want := []entry{{0, true, 0}, {0, true, 1}, {500000, false, 0}, {0, false, 1}}
	for i, w := range want {
		n := song.Notes[i]
		if n.DurationMicros != w.wait || n.IsNoteOn() != w.on || n.Track != w.track || n.Note != 60 {
			t.Errorf("entry %d: got %+v, want %+v", i, n, w)
		}
		if n.FrequencyMilliHz != 261600 {
			t.Errorf("entry %d: got %d mHz, want 261600", i, n.FrequencyMilliHz)
		}
	}
}

func TestParseTempoFromSMF(t *testing.T) {
	s := smf.New()
	s.TimeFormat = smf.MetricTicks(96)
	var tr smf.Track
	tr.Add(0, smf.MetaTempo(60))
	tr.Add(0, midi.NoteOn(0, 69, 100))
	tr.Add(96, midi.NoteOff(0, 69))
	tr.Close(0)
	if err := s.Add(tr); err != nil {
		t.Fatal(err)
	}

	song, err := Parse(bytes.NewReader(writeSMF(t, s)))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	last := song.Notes[len(song.Notes)-1]
	if !last.IsNoteOff() || last.DurationMicros != 1000000 {
		t.Errorf("got %+v, want note-off after one second at 60 BPM", last)
	}
}

func TestParseRejectsBadFiles(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"not midi", []byte("RIFF....WAVEfmt "), ErrMalformedHeader},
		{"empty", nil, ErrMalformedHeader},
		{"cut mid track", twoTrackSMF(t)[:30], ErrTruncatedStream},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			song, err := Parse(bytes.NewReader(tt.data))
			if !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
			if song != nil {
				t.Error("got a song from a rejected file")
			}
		})
	}
}

func TestParseOptions(t *testing.T) {
	notes := cat(ev(0, 0x90, 96, 1), ev(0, 0x90, 60, 1), ev(50, 0x80, 60, 0), ev(0, 0x80, 96, 0), endOfTrack)
	data := fileBytes(headerChunk(0, 1, 96), notes)

	song, err := ParseWithOptions(bytes.NewReader(data), Options{PolyphonyThreshold: 10, MaxOctave: 4})
	if err != nil {
		t.Fatal(err)
	}
	if !song.IsPolyphonic(0) {
		t.Error("threshold 10: want polyphonic")
	}
	if got := song.Notes[0].FrequencyMilliHz; got != 261600 {
		t.Errorf("note 96 capped at octave 4: got %d, want 261600", got)
	}
}

func TestSongDump(t *testing.T) {
	song, err := Parse(bytes.NewReader(twoTrackSMF(t)))
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := song.Dump(&buf); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"track 0", "mono", "on", "off", "261600", "500000"} {
		if !strings.Contains(out, want) {
			t.Errorf("dump missing %q:\n%s", want, out)
		}
	}
}
