package debug

import (
	"bytes"
	"strings"
	"testing"
)

func TestLogCategories(t *testing.T) {
	var buf bytes.Buffer
	EnableWriter(&buf)
	defer Disable()

	Log("parse", "track %d kept %d events", 1, 4)
	Warn("parse", "unsupported format %d", 7)

	out := buf.String()
	for _, want := range []string{"track 1 kept 4 events", "cat=parse", "unsupported format 7", "WARN"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}

func TestDisabledIsSilent(t *testing.T) {
	var buf bytes.Buffer
	EnableWriter(&buf)
	Disable()

	Log("sched", "dropped note %d", 60)
	if buf.Len() != 0 {
		t.Errorf("got output after Disable: %q", buf.String())
	}
}

func TestLogEvery(t *testing.T) {
	var buf bytes.Buffer
	EnableWriter(&buf)
	defer Disable()

	for i := 0; i < 6; i++ {
		LogEvery(3, "every-test", "tick")
	}
	if got := strings.Count(buf.String(), "tick"); got != 2 {
		t.Errorf("got %d lines, want 2:\n%s", got, buf.String())
	}
}
