package midifile

import "errors"

var (
	// ErrMalformedHeader means the MThd chunk is missing or has the wrong
	// length. Nothing of the file is playable.
	ErrMalformedHeader = errors.New("malformed header chunk")

	// ErrMalformedTrack means a track chunk signature or event is invalid.
	ErrMalformedTrack = errors.New("malformed track chunk")

	// ErrTruncatedStream means a field declared more bytes than were available.
	ErrTruncatedStream = errors.New("truncated stream")
)
