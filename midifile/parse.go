package midifile

import (
	"fmt"
	"io"
	"text/tabwriter"

	"go-stepper/debug"
)

// Options tunes the parts of parsing that are not fixed by the file format.
type Options struct {
	PolyphonyThreshold uint64
	MaxOctave          int
}

// DefaultOptions returns the default parse options.
func DefaultOptions() Options {
	return Options{
		PolyphonyThreshold: DefaultPolyphonyThreshold,
		MaxOctave:          DefaultMaxOctave,
	}
}

// Song is one parsed file, ready for the scheduler. It lives for a single
// parse-and-play cycle.
type Song struct {
	Header     Header
	Notes      []ScheduledNote
	Polyphonic []bool // indexed by track
}

// IsPolyphonic reports the classification of a track. Unknown tracks are
// monophonic.
func (s *Song) IsPolyphonic(track uint16) bool {
	return int(track) < len(s.Polyphonic) && s.Polyphonic[track]
}

// Decode reads the header and all track chunks and returns the retained
// events merged and sorted with absolute ticks.
func Decode(r io.Reader) (Header, []Event, error) {
	src := newByteSource(r)

	h, err := readHeader(src)
	if err != nil {
		return h, nil, err
	}
	if h.Format > 2 {
		debug.Warn("parse", "unsupported format %d, reading as format 1", h.Format)
	}

	var events []Event
	for i := 0; i < int(h.Tracks); i++ {
		body, err := readTrack(src)
		if err != nil {
			return h, nil, fmt.Errorf("track %d: %w", i, err)
		}
		before := len(events)
		events, err = extractTrack(body, uint16(i), events)
		if err != nil {
			return h, nil, err
		}
		debug.Log("parse", "track %d: %d bytes, %d events kept", i, len(body), len(events)-before)
	}

	SortEvents(events)
	return h, events, nil
}

// Parse runs the whole pipeline with default options.
func Parse(r io.Reader) (*Song, error) {
	return ParseWithOptions(r, DefaultOptions())
}

// ParseWithOptions decodes r and produces the playback queue. Any error
// means no part of the file is played.
func ParseWithOptions(r io.Reader, opts Options) (*Song, error) {
	h, events, err := Decode(r)
	if err != nil {
		return nil, err
	}

	poly := ClassifyPolyphony(events, int(h.Tracks), opts.PolyphonyThreshold)
	Relative(events)
	notes := Durations(events, h, opts.MaxOctave)

	debug.Log("parse", "format=%d tracks=%d division=%#04x events=%d poly=%v", h.Format, h.Tracks, h.Division, len(notes), poly)
	return &Song{
		Header:     h,
		Notes:      notes,
		Polyphonic: poly,
	}, nil
}

// Dump writes a human-readable listing of the playback queue.
func (s *Song) Dump(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 8, 1, ' ', 0)
	fmt.Fprintf(tw, "format %d, %d tracks, division %#04x\n", s.Header.Format, s.Header.Tracks, s.Header.Division)
	for i, p := range s.Polyphonic {
		mode := "mono"
		if p {
			mode = "poly"
		}
		fmt.Fprintf(tw, "track %d\t%s\n", i, mode)
	}
	fmt.Fprintln(tw, "#\twait(us)\ttrack\tevent\tch\tnote\tfreq(mHz)")
	for i, n := range s.Notes {
		switch {
		case n.IsTempo():
			fmt.Fprintf(tw, "%d\t%d\t%d\ttempo\t-\t-\t-\n", i, n.DurationMicros, n.Track)
		case n.IsNoteOn():
			fmt.Fprintf(tw, "%d\t%d\t%d\ton\t%d\t%d\t%d\n", i, n.DurationMicros, n.Track, n.Channel(), n.Note, n.FrequencyMilliHz)
		default:
			fmt.Fprintf(tw, "%d\t%d\t%d\toff\t%d\t%d\t%d\n", i, n.DurationMicros, n.Track, n.Channel(), n.Note, n.FrequencyMilliHz)
		}
	}
	return tw.Flush()
}
